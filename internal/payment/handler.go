package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	internalerrors "github.com/frahmantamala/square-payments/internal"
	"github.com/frahmantamala/square-payments/internal/transport"
)

type ServiceAPI interface {
	ProcessPayment(ctx context.Context, req *ProcessPaymentRequest, idempotencyKey string) *ProcessResult
	CreatePaymentLink(ctx context.Context) (*PaymentLinkResult, error)
}

type Handler struct {
	transport.BaseHandler
	Service ServiceAPI
	Logger  *slog.Logger
}

func NewHandler(service ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.BaseHandler{Logger: logger},
		Service:     service,
		Logger:      logger,
	}
}

// ProcessPayment handles POST /api/payment/process
func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.WriteJSON(w, http.StatusBadRequest, FailedResponse{
				Status:  responseStatusFailed,
				Message: "Payment request is required",
			})
			return
		}
		h.Logger.Warn("ProcessPayment: failed to parse request body", "error", err)
		h.WriteJSON(w, http.StatusBadRequest, FailedResponse{
			Status:  responseStatusFailed,
			Message: "Invalid request body",
		})
		return
	}

	// An Idempotency-Key header makes client-side retries of the same logical
	// attempt safe; without it every call gets a fresh key.
	idempotencyKey := r.Header.Get("Idempotency-Key")

	result := h.Service.ProcessPayment(r.Context(), &req, idempotencyKey)
	if !result.Succeeded {
		h.WriteJSON(w, http.StatusBadRequest, FailedResponse{
			Status:  responseStatusFailed,
			Message: result.FailureMessage,
		})
		return
	}

	h.WriteJSON(w, http.StatusOK, ProcessPaymentResponse{
		Status:    responseStatusSuccess,
		PaymentID: result.PaymentID,
		Amount:    result.Amount,
		Currency:  result.Currency,
	})
}

// CreatePaymentLink handles GET /api/payment/create-payment-link
func (h *Handler) CreatePaymentLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.Service.CreatePaymentLink(r.Context())
	if err != nil {
		if appErr, ok := internalerrors.IsAppError(err); ok && appErr.StatusCode < http.StatusInternalServerError {
			h.WriteJSON(w, appErr.StatusCode, FailedResponse{
				Status:  responseStatusFailed,
				Message: appErr.Message,
			})
			return
		}

		h.Logger.Error("CreatePaymentLink: unexpected failure", "error", err)
		h.WriteJSON(w, http.StatusInternalServerError, ErrorsResponse{
			Status: responseStatusFailed,
			Errors: []string{"Internal server error"},
		})
		return
	}

	h.WriteJSON(w, http.StatusOK, PaymentLinkResponse{
		Status:  responseStatusSuccess,
		URL:     link.URL,
		LongURL: link.LongURL,
	})
}
