package payment

import (
	"context"
	"log/slog"

	squaretypes "github.com/frahmantamala/square-payments/internal/core/datamodel/square"
	"github.com/frahmantamala/square-payments/internal/core/events"
)

// RegisterEventHandlers wires the default subscribers for payment lifecycle
// events. Downstream business logic (receipts, fulfillment, notifications)
// subscribes to the same bus; handlers must stay idempotent because webhook
// deliveries can repeat.
func RegisterEventHandlers(eventBus *events.EventBus, logger *slog.Logger) {
	eventBus.Subscribe(events.EventTypePaymentUpdated, func(ctx context.Context, event events.Event) error {
		updated, ok := event.(*events.PaymentUpdatedEvent)
		if !ok {
			logger.Error("unexpected event payload", "event_type", event.EventType())
			return nil
		}

		if updated.Status == squaretypes.PaymentStatusCompleted {
			logger.Info("processor confirmed payment completion",
				"payment_id", updated.PaymentID,
				"event_id", updated.EventID())
		} else {
			logger.Info("payment status update",
				"payment_id", updated.PaymentID,
				"status", updated.Status,
				"event_id", updated.EventID())
		}
		return nil
	})

	eventBus.Subscribe(events.EventTypePaymentCompleted, func(ctx context.Context, event events.Event) error {
		logger.Info("payment completed", "event_id", event.EventID(), "payload", event.Payload())
		return nil
	})

	eventBus.Subscribe(events.EventTypePaymentFailed, func(ctx context.Context, event events.Event) error {
		logger.Warn("payment failed", "event_id", event.EventID(), "payload", event.Payload())
		return nil
	})
}
