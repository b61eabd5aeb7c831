package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/classgrid-backend/internal/config"
)

// ErrNoSession is returned when a user has no active session.
var ErrNoSession = errors.New("no active session")

// SessionStore remembers the one active token id of each user.
type SessionStore interface {
	Set(ctx context.Context, username, jti string, ttl time.Duration) error
	Get(ctx context.Context, username string) (string, error)
	Delete(ctx context.Context, username string) error
}

// RedisSessionStore keeps sessions under login:{username}.
type RedisSessionStore struct {
	rdb redis.Cmdable
}

func NewRedisSessionStore(rdb redis.Cmdable) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func (s *RedisSessionStore) Set(ctx context.Context, username, jti string, ttl time.Duration) error {
	return s.rdb.Set(ctx, config.CacheKey.UserSessionKey(username), jti, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, username string) (string, error) {
	jti, err := s.rdb.Get(ctx, config.CacheKey.UserSessionKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("check session: %w", err)
	}
	return jti, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, username string) error {
	return s.rdb.Del(ctx, config.CacheKey.UserSessionKey(username)).Err()
}

type memorySession struct {
	jti     string
	expires time.Time
}

// MemorySessionStore keeps sessions in process memory.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession), now: time.Now}
}

func (s *MemorySessionStore) Set(_ context.Context, username, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[username] = memorySession{jti: jti, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[username]
	if !ok || !s.now().Before(sess.expires) {
		delete(s.sessions, username)
		return "", ErrNoSession
	}
	return sess.jti, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, username)
	return nil
}
