package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/classgrid-backend/internal/repository"
)

type captureWriter struct {
	entries []repository.NotificationLogEntry
	err     error
}

func (c *captureWriter) Insert(_ context.Context, e repository.NotificationLogEntry) error {
	if c.err != nil {
		return c.err
	}
	c.entries = append(c.entries, e)
	return nil
}

func TestNotificationWorker_Handle(t *testing.T) {
	logs := &captureWriter{}
	w := NewNotificationWorker(nil, logs, zerolog.Nop())

	raw := `{"kind":"success","message":"Teacher added successfully!","actor":"root","at":"2026-03-02T08:00:00Z"}`
	require.NoError(t, w.handle(context.Background(), raw))
	require.Len(t, logs.entries, 1)

	got := logs.entries[0]
	assert.Equal(t, "success", got.Kind)
	assert.Equal(t, "Teacher added successfully!", got.Message)
	assert.Equal(t, "root", got.Actor)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), got.CreatedAt)
}

func TestNotificationWorker_HandleDropsGarbage(t *testing.T) {
	logs := &captureWriter{}
	w := NewNotificationWorker(nil, logs, zerolog.Nop())

	assert.NoError(t, w.handle(context.Background(), "{not json"))
	assert.Empty(t, logs.entries)
}

func TestNotificationWorker_HandleStampsMissingTime(t *testing.T) {
	logs := &captureWriter{}
	w := NewNotificationWorker(nil, logs, zerolog.Nop())

	require.NoError(t, w.handle(context.Background(), `{"kind":"info","message":"Logged out"}`))
	require.Len(t, logs.entries, 1)
	assert.WithinDuration(t, time.Now(), logs.entries[0].CreatedAt, time.Minute)
}

func TestNotificationWorker_HandleReportsStoreFailure(t *testing.T) {
	logs := &captureWriter{err: errors.New("db down")}
	w := NewNotificationWorker(nil, logs, zerolog.Nop())

	assert.Error(t, w.handle(context.Background(), `{"kind":"info","message":"x"}`))
}

// listRedis serves BLPOP, LPOP and RPUSH from one in-memory list. Like the real
// client it refuses commands on a cancelled context.
type listRedis struct {
	redis.Cmdable
	items []string
}

func (r *listRedis) BLPop(ctx context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	if err := ctx.Err(); err != nil {
		return redis.NewStringSliceResult(nil, err)
	}
	if len(r.items) == 0 {
		return redis.NewStringSliceResult(nil, redis.Nil)
	}
	v := r.items[0]
	r.items = r.items[1:]
	return redis.NewStringSliceResult([]string{keys[0], v}, nil)
}

func (r *listRedis) LPop(ctx context.Context, _ string) *redis.StringCmd {
	if err := ctx.Err(); err != nil {
		return redis.NewStringResult("", err)
	}
	if len(r.items) == 0 {
		return redis.NewStringResult("", redis.Nil)
	}
	v := r.items[0]
	r.items = r.items[1:]
	return redis.NewStringResult(v, nil)
}

func (r *listRedis) RPush(ctx context.Context, _ string, values ...any) *redis.IntCmd {
	if err := ctx.Err(); err != nil {
		return redis.NewIntResult(0, err)
	}
	for _, v := range values {
		r.items = append(r.items, v.(string))
	}
	return redis.NewIntResult(int64(len(r.items)), nil)
}

// cancellingWriter cancels the worker context mid-insert, as a shutdown would.
type cancellingWriter struct {
	cancel context.CancelFunc
}

func (w *cancellingWriter) Insert(ctx context.Context, _ repository.NotificationLogEntry) error {
	w.cancel()
	return ctx.Err()
}

func TestNotificationWorker_RequeuesWhenShutdownInterruptsInsert(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	raw := `{"kind":"success","message":"Class added successfully!"}`
	rdb := &listRedis{items: []string{raw}}
	w := NewNotificationWorker(rdb, &cancellingWriter{cancel: cancel}, zerolog.Nop())

	w.processNext(ctx)

	require.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Equal(t, []string{raw}, rdb.items)
}

func TestNotificationWorker_DrainStoresQueuedItems(t *testing.T) {
	logs := &captureWriter{}
	rdb := &listRedis{items: []string{
		`{"kind":"info","message":"one"}`,
		`{"kind":"info","message":"two"}`,
	}}
	w := NewNotificationWorker(rdb, logs, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)

	require.Len(t, logs.entries, 2)
	assert.Equal(t, "one", logs.entries[0].Message)
	assert.Empty(t, rdb.items)
}
