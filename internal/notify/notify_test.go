package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanoutAndRecorder(t *testing.T) {
	var a, b Recorder
	sink := Fanout{&a, &b}

	sink.Notify(context.Background(), New(KindSuccess, "Section added successfully!"))
	sink.Notify(context.Background(), New(KindError, "Please enter a section name"))

	require.Len(t, a.All(), 2)
	assert.Equal(t, a.All(), b.All())

	last, ok := a.Last()
	require.True(t, ok)
	assert.Equal(t, KindError, last.Kind)

	a.Reset()
	_, ok = a.Last()
	assert.False(t, ok)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(zerolog.New(&buf))

	n := New(KindSuccess, "Teacher removed")
	n.Actor = "admin"
	sink.Notify(context.Background(), n)

	assert.Contains(t, buf.String(), `"message":"Teacher removed"`)
	assert.Contains(t, buf.String(), `"kind":"success"`)
	assert.Contains(t, buf.String(), `"actor":"admin"`)
}

func TestActorContext(t *testing.T) {
	ctx := WithActor(context.Background(), "jdoe")
	assert.Equal(t, "jdoe", ActorFrom(ctx))
	assert.Empty(t, ActorFrom(context.Background()))
}
