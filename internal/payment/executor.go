package payment

import (
	"context"
	"log/slog"

	squaretypes "github.com/frahmantamala/square-payments/internal/core/datamodel/square"
	"github.com/google/uuid"
)

// PaymentExecutor builds an idempotent charge request and submits it to the
// processor. The processor guarantees at-most-once execution per idempotency
// key, so resubmitting the same key is always safe.
type PaymentExecutor struct {
	processor ProcessorAPI
	logger    *slog.Logger
}

func NewPaymentExecutor(processor ProcessorAPI, logger *slog.Logger) *PaymentExecutor {
	return &PaymentExecutor{
		processor: processor,
		logger:    logger,
	}
}

// Execute submits a charge for the validated request against the resolved
// customer. If idempotencyKey is empty a fresh random key is generated; the
// key is never derived from request content. Callers that want retry safety
// across attempts of the same logical action supply their own key and reuse it.
func (e *PaymentExecutor) Execute(ctx context.Context, req *ProcessPaymentRequest, customerID, idempotencyKey string) (*squaretypes.Payment, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	chargeReq := squaretypes.ChargeRequest{
		IdempotencyKey: idempotencyKey,
		SourceID:       req.SourceID,
		AmountMoney:    squaretypes.NewMoney(req.Amount, req.Currency),
		CustomerID:     customerID,
	}

	e.logger.Info("submitting charge",
		"idempotency_key", idempotencyKey,
		"amount", chargeReq.AmountMoney.Amount,
		"currency", chargeReq.AmountMoney.Currency,
		"customer_id", customerID)

	return e.processor.CreatePayment(ctx, chargeReq)
}
