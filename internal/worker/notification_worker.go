package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/classgrid-backend/internal/config"
	"github.com/stemsi/classgrid-backend/internal/notify"
	"github.com/stemsi/classgrid-backend/internal/repository"
)

// LogWriter stores one audit log entry.
type LogWriter interface {
	Insert(ctx context.Context, e repository.NotificationLogEntry) error
}

// NotificationWorker consumes the notification log queue and appends each
// notification to the audit table.
type NotificationWorker struct {
	rdb        redis.Cmdable
	logs       LogWriter
	queue      string
	retryDelay time.Duration
	log        zerolog.Logger
}

// NewNotificationWorker creates a new NotificationWorker.
func NewNotificationWorker(rdb redis.Cmdable, logs LogWriter, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{
		rdb:        rdb,
		logs:       logs,
		queue:      config.WorkerKey.NotificationLogQueue,
		retryDelay: 5 * time.Second,
		log:        log.With().Str("component", "notification_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *NotificationWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, w.queue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.handle(ctx, result[1]); err != nil {
		w.log.Error().Err(err).Msg("Persist error, retrying later")
		// Push back for retry, even when ctx is the reason the insert failed.
		if err := w.rdb.RPush(context.WithoutCancel(ctx), w.queue, result[1]).Err(); err != nil {
			w.log.Error().Err(err).Msg("Requeue failed, notification lost")
		}
		select {
		case <-ctx.Done():
		case <-time.After(w.retryDelay):
		}
	}
}

// handle stores one queued payload. Payloads that do not decode are logged and dropped.
func (w *NotificationWorker) handle(ctx context.Context, raw string) error {
	var n notify.Notification
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping payload")
		return nil
	}
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}

	return w.logs.Insert(ctx, repository.NotificationLogEntry{
		Kind:      string(n.Kind),
		Message:   n.Message,
		Actor:     n.Actor,
		CreatedAt: n.At,
	})
}

// drain processes all remaining items in the queue before shutdown.
func (w *NotificationWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, w.queue).Result()
		if err != nil {
			break
		}

		if err := w.handle(ctx, result); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, w.queue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
