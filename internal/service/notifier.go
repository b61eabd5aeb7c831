package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stemsi/classgrid-backend/internal/notify"
)

// notifier sends the admin-facing outcome of an action and logs failures.
type notifier struct {
	sink notify.Sink
	log  zerolog.Logger
}

func newNotifier(sink notify.Sink, log zerolog.Logger, component string) notifier {
	if sink == nil {
		sink = notify.Fanout{}
	}
	return notifier{sink: sink, log: log.With().Str("component", component).Logger()}
}

func (n notifier) send(ctx context.Context, kind notify.Kind, msg string) {
	note := notify.New(kind, msg)
	note.Actor = notify.ActorFrom(ctx)
	n.sink.Notify(ctx, note)
}

func (n notifier) success(ctx context.Context, msg string) {
	n.send(ctx, notify.KindSuccess, msg)
}

// failure reports err to the admin as msg. Unexpected errors are logged as well.
func (n notifier) failure(ctx context.Context, err error, msg string) {
	if isUnexpected(err) {
		n.log.Error().Err(err).Msg(msg)
	} else {
		n.log.Debug().Err(err).Msg(msg)
	}
	n.send(ctx, notify.KindError, msg)
}

func (n notifier) info(ctx context.Context, msg string) {
	n.send(ctx, notify.KindInfo, msg)
}
