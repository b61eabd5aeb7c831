package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/classgrid-backend/internal/config"
)

// RedisSink publishes notifications to connected admins and queues them for the audit log.
type RedisSink struct {
	rdb redis.Cmdable
	log zerolog.Logger
}

func NewRedisSink(rdb redis.Cmdable, log zerolog.Logger) *RedisSink {
	return &RedisSink{rdb: rdb, log: log.With().Str("component", "redis_sink").Logger()}
}

func (s *RedisSink) Notify(ctx context.Context, n Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal notification")
		return
	}

	pipe := s.rdb.Pipeline()
	pipe.Publish(ctx, config.CacheKey.NotificationChannel(), payload)
	pipe.RPush(ctx, config.WorkerKey.NotificationLogQueue, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Error().Err(err).Str("message", n.Message).Msg("publish notification")
	}
}

// RedisSubscriber follows the notification channel, so every instance behind a
// load balancer sees the notifications raised by the others.
type RedisSubscriber struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewRedisSubscriber(rdb *redis.Client, log zerolog.Logger) *RedisSubscriber {
	return &RedisSubscriber{rdb: rdb, log: log.With().Str("component", "redis_subscriber").Logger()}
}

func (s *RedisSubscriber) Subscribe(ctx context.Context) (<-chan Notification, func()) {
	ctx, cancel := context.WithCancel(ctx)
	pubsub := s.rdb.Subscribe(ctx, config.CacheKey.NotificationChannel())
	out := make(chan Notification, 16)

	go func() {
		defer close(out)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var n Notification
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					s.log.Warn().Err(err).Msg("drop malformed notification")
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, cancel
}
