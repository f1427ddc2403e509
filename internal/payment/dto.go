package payment

import (
	errors "github.com/frahmantamala/square-payments/internal"
	"github.com/frahmantamala/square-payments/internal/core/common/validation"
)

// ProcessPaymentRequest is the inbound payment payload. SourceID is the
// tokenized payment instrument produced by the Square Web Payments SDK.
type ProcessPaymentRequest struct {
	SourceID   string `json:"sourceId"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Email      string `json:"email"`
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
}

// Validate checks the request in a fixed order and reports the first violated
// constraint. No processor call happens before this passes.
func (r *ProcessPaymentRequest) Validate() *errors.AppError {
	validator := validation.NewValidator()

	validator.Field("sourceId", r.SourceID).Required("Source ID is required")
	validator.Field("amount", r.Amount).GreaterThanZero("Amount must be greater than 0")
	validator.Field("currency", r.Currency).
		Required("Currency is required").
		ExactLength(3, "Currency must be 3 characters")
	validator.Field("email", r.Email).
		Required("Email is required").
		Email("Invalid email address")

	return validator.Validate()
}

// ProcessPaymentResponse is the success payload: the payment id plus the
// amount and currency echoed from the processor.
type ProcessPaymentResponse struct {
	Status    string `json:"Status"`
	PaymentID string `json:"PaymentId"`
	Amount    int64  `json:"Amount"`
	Currency  string `json:"Currency"`
}

type FailedResponse struct {
	Status  string `json:"Status"`
	Message string `json:"Message"`
}

type PaymentLinkResponse struct {
	Status  string `json:"Status"`
	URL     string `json:"Url"`
	LongURL string `json:"LongUrl"`
}

type ErrorsResponse struct {
	Status string   `json:"Status"`
	Errors []string `json:"Errors"`
}

const (
	responseStatusSuccess = "Success"
	responseStatusFailed  = "Failed"
)
