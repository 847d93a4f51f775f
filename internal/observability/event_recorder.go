package observability

import (
	"context"

	"go.uber.org/zap"

	"github.com/helpdesk-kit/helpdesk-service/internal/events"
)

// RegisterEventRecorder subscribes metrics counters and debug logging to the
// ticket domain events.
func RegisterEventRecorder(dispatcher events.Dispatcher, metrics *Metrics, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	record := func(ctx context.Context, event events.Event) error {
		metrics.RecordDomainEvent(string(event.Type))
		logger.Debug("domain event",
			zap.String("type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.String("actor_user_id", event.Actor.UserID))
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, record)
	dispatcher.Subscribe(events.EventTicketAssigned, record)
	dispatcher.Subscribe(events.EventTicketStatusChanged, record)
}
