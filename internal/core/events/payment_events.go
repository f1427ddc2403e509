package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentUpdated   = "payment.updated"
	EventTypePaymentCompleted = "payment.completed"
	EventTypePaymentFailed    = "payment.failed"
)

// PaymentUpdatedEvent mirrors a processor webhook notification. Webhook
// delivery can repeat or arrive out of order, so handlers must tolerate
// seeing the same event more than once.
type PaymentUpdatedEvent struct {
	BaseEvent
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

func NewPaymentUpdatedEvent(paymentID, status string) *PaymentUpdatedEvent {
	return &PaymentUpdatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentUpdated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id": paymentID,
				"status":     status,
			},
		},
		PaymentID: paymentID,
		Status:    status,
	}
}

type PaymentCompletedEvent struct {
	BaseEvent
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

func NewPaymentCompletedEvent(paymentID string, amount int64, currency string) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id": paymentID,
				"amount":     amount,
				"currency":   currency,
			},
		},
		PaymentID: paymentID,
		Amount:    amount,
		Currency:  currency,
	}
}

type PaymentFailedEvent struct {
	BaseEvent
	PaymentID     string `json:"payment_id"`
	FailureReason string `json:"failure_reason"`
}

func NewPaymentFailedEvent(paymentID, failureReason string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":     paymentID,
				"failure_reason": failureReason,
			},
		},
		PaymentID:     paymentID,
		FailureReason: failureReason,
	}
}
