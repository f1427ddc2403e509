package square

import "strings"

// Money is an integer count of minor currency units with an upper-cased
// ISO 4217 currency code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func NewMoney(amount int64, currency string) Money {
	return Money{
		Amount:   amount,
		Currency: strings.ToUpper(currency),
	}
}

// Payment statuses returned by the processor. Only Completed counts as success;
// everything else is reported back to the client as a failure.
const (
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusApproved  = "APPROVED"
	PaymentStatusPending   = "PENDING"
	PaymentStatusCanceled  = "CANCELED"
	PaymentStatusFailed    = "FAILED"
)

const LocationStatusActive = "ACTIVE"

type Customer struct {
	ID           string `json:"id"`
	GivenName    string `json:"given_name,omitempty"`
	FamilyName   string `json:"family_name,omitempty"`
	EmailAddress string `json:"email_address,omitempty"`
}

type CustomerTextFilter struct {
	Fuzzy string `json:"fuzzy,omitempty"`
	Exact string `json:"exact,omitempty"`
}

type CustomerFilter struct {
	EmailAddress *CustomerTextFilter `json:"email_address,omitempty"`
}

type CustomerQuery struct {
	Filter *CustomerFilter `json:"filter,omitempty"`
}

type SearchCustomersRequest struct {
	Query *CustomerQuery `json:"query,omitempty"`
}

type SearchCustomersResponse struct {
	Customers []Customer `json:"customers"`
}

type CreateCustomerRequest struct {
	GivenName    string `json:"given_name,omitempty"`
	FamilyName   string `json:"family_name,omitempty"`
	EmailAddress string `json:"email_address"`
}

type CreateCustomerResponse struct {
	Customer Customer `json:"customer"`
}

// ChargeRequest is the processor-side payment creation payload. IdempotencyKey
// must be unique per logical attempt; the processor executes a key at most once.
type ChargeRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	SourceID       string `json:"source_id"`
	AmountMoney    Money  `json:"amount_money"`
	CustomerID     string `json:"customer_id,omitempty"`
	ReferenceID    string `json:"reference_id,omitempty"`
}

type Payment struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	AmountMoney Money  `json:"amount_money"`
	CustomerID  string `json:"customer_id,omitempty"`
	ReceiptURL  string `json:"receipt_url,omitempty"`
}

type CreatePaymentResponse struct {
	Payment Payment `json:"payment"`
}

type Location struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status"`
}

type ListLocationsResponse struct {
	Locations []Location `json:"locations"`
}

type QuickPay struct {
	Name       string `json:"name"`
	PriceMoney Money  `json:"price_money"`
	LocationID string `json:"location_id"`
}

type CreatePaymentLinkRequest struct {
	IdempotencyKey string    `json:"idempotency_key"`
	Description    string    `json:"description,omitempty"`
	QuickPay       *QuickPay `json:"quick_pay,omitempty"`
}

type PaymentLink struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	LongURL string `json:"long_url"`
}

type CreatePaymentLinkResponse struct {
	PaymentLink PaymentLink `json:"payment_link"`
}

// APIError is one entry of the processor error envelope. Code carries values
// like CARD_DECLINED or INSUFFICIENT_FUNDS.
type APIError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail,omitempty"`
	Field    string `json:"field,omitempty"`
}

type ErrorEnvelope struct {
	Errors []APIError `json:"errors"`
}
