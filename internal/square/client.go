package square

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/frahmantamala/square-payments/internal"
	squaretypes "github.com/frahmantamala/square-payments/internal/core/datamodel/square"
)

const (
	sandboxBaseURL    = "https://connect.squareupsandbox.com"
	productionBaseURL = "https://connect.squareup.com"

	apiVersion = "2025-01-23"
)

type Config struct {
	AccessToken    string
	Environment    string
	RequestTimeout time.Duration

	// BaseURL overrides environment-based URL selection. Used by tests.
	BaseURL string
}

// Client is the long-lived handle to the Square API. It is safe for concurrent
// use by multiple in-flight requests.
type Client struct {
	http           *resty.Client
	requestTimeout time.Duration
	logger         *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		if config.Environment == "production" {
			baseURL = productionBaseURL
		} else {
			baseURL = sandboxBaseURL
		}
	}

	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(config.AccessToken).
		SetHeader("Square-Version", apiVersion).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{
		http:           httpClient,
		requestTimeout: timeout,
		logger:         logger,
	}
}

// SearchCustomers looks up customers whose email fuzzy-matches the given
// address. An empty slice means no match.
func (c *Client) SearchCustomers(ctx context.Context, email string) ([]squaretypes.Customer, error) {
	reqCtx, cancel := internal.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	body := squaretypes.SearchCustomersRequest{
		Query: &squaretypes.CustomerQuery{
			Filter: &squaretypes.CustomerFilter{
				EmailAddress: &squaretypes.CustomerTextFilter{Fuzzy: email},
			},
		},
	}

	resp, err := c.http.R().
		SetContext(reqCtx).
		SetBody(body).
		Post("/v2/customers/search")
	if err != nil {
		return nil, fmt.Errorf("customer search request failed: %w", err)
	}
	if resp.IsError() {
		return nil, c.apiError("customer search", resp)
	}

	var result squaretypes.SearchCustomersResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode customer search response: %w", err)
	}

	c.logger.Debug("customer search completed", "matches", len(result.Customers))
	return result.Customers, nil
}

func (c *Client) CreateCustomer(ctx context.Context, req squaretypes.CreateCustomerRequest) (*squaretypes.Customer, error) {
	reqCtx, cancel := internal.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(reqCtx).
		SetBody(req).
		Post("/v2/customers")
	if err != nil {
		return nil, fmt.Errorf("customer create request failed: %w", err)
	}
	if resp.IsError() {
		return nil, c.apiError("customer create", resp)
	}

	var result squaretypes.CreateCustomerResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode customer create response: %w", err)
	}

	c.logger.Info("customer created", "customer_id", result.Customer.ID)
	return &result.Customer, nil
}

func (c *Client) CreatePayment(ctx context.Context, req squaretypes.ChargeRequest) (*squaretypes.Payment, error) {
	reqCtx, cancel := internal.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(reqCtx).
		SetBody(req).
		Post("/v2/payments")
	if err != nil {
		return nil, fmt.Errorf("payment create request failed: %w", err)
	}
	if resp.IsError() {
		return nil, c.apiError("payment create", resp)
	}

	var result squaretypes.CreatePaymentResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode payment create response: %w", err)
	}

	c.logger.Info("payment created",
		"payment_id", result.Payment.ID,
		"status", result.Payment.Status)
	return &result.Payment, nil
}

func (c *Client) ListLocations(ctx context.Context) ([]squaretypes.Location, error) {
	reqCtx, cancel := internal.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(reqCtx).
		Get("/v2/locations")
	if err != nil {
		return nil, fmt.Errorf("location list request failed: %w", err)
	}
	if resp.IsError() {
		return nil, c.apiError("location list", resp)
	}

	var result squaretypes.ListLocationsResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode location list response: %w", err)
	}

	return result.Locations, nil
}

func (c *Client) CreatePaymentLink(ctx context.Context, req squaretypes.CreatePaymentLinkRequest) (*squaretypes.PaymentLink, error) {
	reqCtx, cancel := internal.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(reqCtx).
		SetBody(req).
		Post("/v2/online-checkout/payment-links")
	if err != nil {
		return nil, fmt.Errorf("payment link request failed: %w", err)
	}
	if resp.IsError() {
		return nil, c.apiError("payment link", resp)
	}

	var result squaretypes.CreatePaymentLinkResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode payment link response: %w", err)
	}

	c.logger.Info("payment link created", "payment_link_id", result.PaymentLink.ID)
	return &result.PaymentLink, nil
}

// apiError flattens the Square error envelope into a single error. Error codes
// (CARD_DECLINED, INSUFFICIENT_FUNDS, ...) are kept in the text so the
// classifier can match on them.
func (c *Client) apiError(operation string, resp *resty.Response) error {
	var envelope squaretypes.ErrorEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err == nil && len(envelope.Errors) > 0 {
		parts := make([]string, 0, len(envelope.Errors))
		for _, apiErr := range envelope.Errors {
			if apiErr.Detail != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", apiErr.Code, apiErr.Detail))
			} else {
				parts = append(parts, apiErr.Code)
			}
		}
		return fmt.Errorf("square %s failed (status %d): %s", operation, resp.StatusCode(), strings.Join(parts, "; "))
	}

	return fmt.Errorf("square %s failed (status %d): %s", operation, resp.StatusCode(), resp.Status())
}
