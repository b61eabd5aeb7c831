package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/classgrid-backend/internal/notify"
)

// demoCatalog returns a catalog holding the sample school and a recorder for notifications.
func demoCatalog(t *testing.T) (*Catalog, *notify.Recorder) {
	t.Helper()
	cat := NewMemoryCatalog()
	seeded, err := SeedDemo(context.Background(), cat)
	require.NoError(t, err)
	require.True(t, seeded)
	return cat, &notify.Recorder{}
}

func lastNote(t *testing.T, rec *notify.Recorder) notify.Notification {
	t.Helper()
	n, ok := rec.Last()
	require.True(t, ok, "expected a notification")
	return n
}

var nop = zerolog.Nop()
