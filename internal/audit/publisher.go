package audit

import (
	"context"
	"log/slog"

	"presensi/pkg/requestcontext"
)

// Publisher hands audit events to the background worker. Emit never blocks
// domain logic: when the inbox is full the event is dropped and the drop is
// logged, because an audit backlog must not stall attendance decisions.
type Publisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

func NewPublisher(inbox chan<- Event, logger *slog.Logger) *Publisher {
	return &Publisher{inbox: inbox, logger: logger}
}

// Emit stamps request-scoped metadata onto the event and queues it.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.Device == "" {
		event.Device = NormalizeDevice(requestcontext.UserAgent(ctx))
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action, "user_id", event.UserID)
	}
}
