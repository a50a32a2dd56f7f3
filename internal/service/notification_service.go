package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pegasus-hq/support-core/internal/events"
)

// NotificationService reacts to domain events: structured logging plus
// best-effort fan-out to the Redis channel dashboard consumers subscribe to.
// The persisted in-app notifications are written by TicketService itself;
// this service handles the out-of-process side.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  *events.RedisPublisher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, publisher *events.RedisPublisher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to all ticket events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketMessageAdded,
		events.EventTicketAssigned,
		events.EventTicketEscalated,
		events.EventTicketSLABreached,
	} {
		n.dispatcher.Subscribe(eventType, n.handleEvent)
	}
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.ActorID))
	if n.publisher != nil {
		return n.publisher.Forward(ctx, event)
	}
	return nil
}
