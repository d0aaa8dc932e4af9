package audit

import (
	"context"
	"log/slog"
)

// Sink mirrors persisted events to an external system. Mirroring is best
// effort: a sink failure is logged, never propagated.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Worker consumes audit events from a channel and persists them, optionally
// mirroring each event to a sink.
type Worker struct {
	store  Store
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "persist audit event",
					"action", event.Action, "error", err)
				continue
			}
			if w.sink == nil {
				continue
			}
			if err := w.sink.Publish(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "mirror audit event",
					"action", event.Action, "error", err)
			}
		}
	}
}
