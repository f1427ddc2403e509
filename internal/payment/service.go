package payment

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/frahmantamala/square-payments/internal"
	squaretypes "github.com/frahmantamala/square-payments/internal/core/datamodel/square"
	"github.com/frahmantamala/square-payments/internal/core/events"
	"github.com/google/uuid"
)

// ProcessorAPI is the slice of the Square client the payment flow depends on.
// Keeping it an interface lets tests substitute a fake processor.
type ProcessorAPI interface {
	SearchCustomers(ctx context.Context, email string) ([]squaretypes.Customer, error)
	CreateCustomer(ctx context.Context, req squaretypes.CreateCustomerRequest) (*squaretypes.Customer, error)
	CreatePayment(ctx context.Context, req squaretypes.ChargeRequest) (*squaretypes.Payment, error)
	ListLocations(ctx context.Context) ([]squaretypes.Location, error)
	CreatePaymentLink(ctx context.Context, req squaretypes.CreatePaymentLinkRequest) (*squaretypes.PaymentLink, error)
}

// ProcessResult is the outcome of one orchestration run. Business failures are
// values here, not errors: the orchestrator catches everything below it and
// translates to a closed user-facing message.
type ProcessResult struct {
	Succeeded      bool
	PaymentID      string
	Amount         int64
	Currency       string
	FailureMessage string
	FailureCode    errors.ErrorCode
}

type PaymentLinkResult struct {
	URL     string
	LongURL string
}

type ServiceConfig struct {
	LinkName        string
	LinkAmount      int64
	LinkCurrency    string
	LinkDescription string
}

// Service composes validation, customer resolution, charge execution and error
// classification into the end-to-end flow for one payment request.
type Service struct {
	processor ProcessorAPI
	resolver  *CustomerResolver
	executor  *PaymentExecutor
	config    ServiceConfig
	eventBus  *events.EventBus
	logger    *slog.Logger
}

func NewService(processor ProcessorAPI, config ServiceConfig, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		processor: processor,
		resolver:  NewCustomerResolver(processor, logger),
		executor:  NewPaymentExecutor(processor, logger),
		config:    config,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// ProcessPayment runs validate -> resolve customer -> execute charge ->
// classify outcome. idempotencyKey may be empty, in which case the executor
// generates a fresh one for this attempt.
func (s *Service) ProcessPayment(ctx context.Context, req *ProcessPaymentRequest, idempotencyKey string) *ProcessResult {
	if req == nil {
		return &ProcessResult{
			FailureMessage: "Payment request is required",
			FailureCode:    errors.ErrCodeValidationFailed,
		}
	}

	if appErr := req.Validate(); appErr != nil {
		s.logger.Warn("payment request validation failed", "error", appErr.Message)
		return &ProcessResult{
			FailureMessage: appErr.Message,
			FailureCode:    appErr.Code,
		}
	}

	s.logger.Info("processing payment",
		"amount", req.Amount,
		"currency", req.Currency)

	customerID, err := s.resolver.Resolve(ctx, req.Email, req.GivenName, req.FamilyName)
	if err != nil {
		s.logger.Error("customer resolution aborted the payment", "error", err)
		return &ProcessResult{
			FailureMessage: ClassifyError(err),
			FailureCode:    errors.ErrCodeCustomerResolutionFailed,
		}
	}

	paymentResp, err := s.executor.Execute(ctx, req, customerID, idempotencyKey)
	if err != nil {
		s.logger.Error("charge submission failed", "error", err, "customer_id", customerID)
		result := &ProcessResult{
			FailureMessage: ClassifyError(err),
			FailureCode:    errors.ErrCodeChargeFailed,
		}
		s.eventBus.Publish(ctx, events.NewPaymentFailedEvent("", result.FailureMessage))
		return result
	}

	if paymentResp.Status != squaretypes.PaymentStatusCompleted {
		s.logger.Warn("payment not completed",
			"status", paymentResp.Status,
			"payment_id", paymentResp.ID)
		result := &ProcessResult{
			PaymentID:      paymentResp.ID,
			FailureMessage: fmt.Sprintf("Payment was not completed. Status: %s", paymentResp.Status),
			FailureCode:    errors.ErrCodePaymentNotCompleted,
		}
		s.eventBus.Publish(ctx, events.NewPaymentFailedEvent(paymentResp.ID, result.FailureMessage))
		return result
	}

	s.logger.Info("payment completed successfully",
		"payment_id", paymentResp.ID,
		"amount", paymentResp.AmountMoney.Amount,
		"currency", paymentResp.AmountMoney.Currency)

	s.eventBus.Publish(ctx, events.NewPaymentCompletedEvent(
		paymentResp.ID,
		paymentResp.AmountMoney.Amount,
		paymentResp.AmountMoney.Currency,
	))

	return &ProcessResult{
		Succeeded: true,
		PaymentID: paymentResp.ID,
		Amount:    paymentResp.AmountMoney.Amount,
		Currency:  paymentResp.AmountMoney.Currency,
	}
}

// CreatePaymentLink builds a hosted quick-pay checkout page for the configured
// amount. It needs an active processor-side location to attach the link to.
func (s *Service) CreatePaymentLink(ctx context.Context) (*PaymentLinkResult, error) {
	locations, err := s.processor.ListLocations(ctx)
	if err != nil {
		s.logger.Error("location list failed", "error", err)
		return nil, errors.NewExternalError("Could not create payment link", errors.ErrCodePaymentLinkFailed).WithCause(err)
	}

	var activeLocation *squaretypes.Location
	for i := range locations {
		if locations[i].Status == squaretypes.LocationStatusActive {
			activeLocation = &locations[i]
			break
		}
	}
	if activeLocation == nil {
		s.logger.Error("no active location for payment link", "locations", len(locations))
		return nil, errors.ErrNoActiveLocation
	}

	link, err := s.processor.CreatePaymentLink(ctx, squaretypes.CreatePaymentLinkRequest{
		IdempotencyKey: uuid.NewString(),
		Description:    s.config.LinkDescription,
		QuickPay: &squaretypes.QuickPay{
			Name:       s.config.LinkName,
			PriceMoney: squaretypes.NewMoney(s.config.LinkAmount, s.config.LinkCurrency),
			LocationID: activeLocation.ID,
		},
	})
	if err != nil {
		s.logger.Error("payment link create failed", "error", err, "location_id", activeLocation.ID)
		return nil, errors.NewExternalError("Could not create payment link", errors.ErrCodePaymentLinkFailed).WithCause(err)
	}

	return &PaymentLinkResult{
		URL:     link.URL,
		LongURL: link.LongURL,
	}, nil
}
