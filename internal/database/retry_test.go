package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPingUntilReady(t *testing.T) {
	down := errors.New("connection refused")

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := pingUntilReady(context.Background(), zerolog.Nop(), "test", 5, time.Millisecond, func(context.Context) error {
			calls++
			if calls < 3 {
				return down
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up with the last error", func(t *testing.T) {
		calls := 0
		err := pingUntilReady(context.Background(), zerolog.Nop(), "test", 3, time.Millisecond, func(context.Context) error {
			calls++
			return down
		})
		assert.ErrorIs(t, err, down)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when the context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := pingUntilReady(ctx, zerolog.Nop(), "test", 5, time.Hour, func(context.Context) error {
			calls++
			cancel()
			return down
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
