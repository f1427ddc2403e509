package payment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalerrors "github.com/frahmantamala/square-payments/internal"
	squaretypes "github.com/frahmantamala/square-payments/internal/core/datamodel/square"
	"github.com/frahmantamala/square-payments/internal/core/events"
	paymentpkg "github.com/frahmantamala/square-payments/internal/payment"
)

type mockPaymentService struct {
	result      *paymentpkg.ProcessResult
	link        *paymentpkg.PaymentLinkResult
	linkError   error
	lastRequest *paymentpkg.ProcessPaymentRequest
	lastKey     string
}

func (m *mockPaymentService) ProcessPayment(ctx context.Context, req *paymentpkg.ProcessPaymentRequest, idempotencyKey string) *paymentpkg.ProcessResult {
	m.lastRequest = req
	m.lastKey = idempotencyKey
	return m.result
}

func (m *mockPaymentService) CreatePaymentLink(ctx context.Context) (*paymentpkg.PaymentLinkResult, error) {
	if m.linkError != nil {
		return nil, m.linkError
	}
	return m.link, nil
}

var _ = Describe("PaymentHandler", func() {
	var (
		handler *paymentpkg.Handler
		service *mockPaymentService
		logger  *slog.Logger
	)

	BeforeEach(func() {
		service = &mockPaymentService{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = paymentpkg.NewHandler(service, logger)
	})

	Describe("ProcessPayment", func() {
		It("should return 200 with the success contract when the payment completes", func() {
			service.result = &paymentpkg.ProcessResult{
				Succeeded: true,
				PaymentID: "pay_1",
				Amount:    500,
				Currency:  "USD",
			}

			body := `{"sourceId":"tok_1","amount":500,"currency":"usd","email":"a@b.com"}`
			req := httptest.NewRequest(http.MethodPost, "/api/payment/process", bytes.NewBufferString(body))
			w := httptest.NewRecorder()

			handler.ProcessPayment(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["Status"]).To(Equal("Success"))
			Expect(resp["PaymentId"]).To(Equal("pay_1"))
			Expect(resp["Amount"]).To(BeNumerically("==", 500))
			Expect(resp["Currency"]).To(Equal("USD"))
		})

		It("should return 400 with the failure message when processing fails", func() {
			service.result = &paymentpkg.ProcessResult{
				FailureMessage: "Amount must be greater than 0",
			}

			body := `{"sourceId":"tok_1","amount":0,"currency":"usd","email":"a@b.com"}`
			req := httptest.NewRequest(http.MethodPost, "/api/payment/process", bytes.NewBufferString(body))
			w := httptest.NewRecorder()

			handler.ProcessPayment(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))

			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["Status"]).To(Equal("Failed"))
			Expect(resp["Message"]).To(Equal("Amount must be greater than 0"))
		})

		It("should return 400 for an empty body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/payment/process", bytes.NewBuffer(nil))
			w := httptest.NewRecorder()

			handler.ProcessPayment(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))

			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["Message"]).To(Equal("Payment request is required"))
			Expect(service.lastRequest).To(BeNil())
		})

		It("should return 400 for malformed JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/payment/process", bytes.NewBufferString("{not json"))
			w := httptest.NewRecorder()

			handler.ProcessPayment(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))

			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["Message"]).To(Equal("Invalid request body"))
		})

		It("should pass the Idempotency-Key header through to the service", func() {
			service.result = &paymentpkg.ProcessResult{Succeeded: true, PaymentID: "pay_1"}

			body := `{"sourceId":"tok_1","amount":500,"currency":"usd","email":"a@b.com"}`
			req := httptest.NewRequest(http.MethodPost, "/api/payment/process", bytes.NewBufferString(body))
			req.Header.Set("Idempotency-Key", "retry-key-42")
			w := httptest.NewRecorder()

			handler.ProcessPayment(w, req)

			Expect(service.lastKey).To(Equal("retry-key-42"))
		})
	})

	Describe("CreatePaymentLink", func() {
		It("should return 200 with both link URLs", func() {
			service.link = &paymentpkg.PaymentLinkResult{
				URL:     "https://square.link/u/abc",
				LongURL: "https://checkout.square.site/abc",
			}

			req := httptest.NewRequest(http.MethodGet, "/api/payment/create-payment-link", nil)
			w := httptest.NewRecorder()

			handler.CreatePaymentLink(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["Status"]).To(Equal("Success"))
			Expect(resp["Url"]).To(Equal("https://square.link/u/abc"))
			Expect(resp["LongUrl"]).To(Equal("https://checkout.square.site/abc"))
		})

		It("should return 400 when no active location is available", func() {
			service.linkError = internalerrors.ErrNoActiveLocation

			req := httptest.NewRequest(http.MethodGet, "/api/payment/create-payment-link", nil)
			w := httptest.NewRecorder()

			handler.CreatePaymentLink(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))

			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["Status"]).To(Equal("Failed"))
			Expect(resp["Message"]).To(Equal("No active location available for payment links"))
		})

		It("should return 500 with a generic message for unexpected failures", func() {
			service.linkError = internalerrors.NewInternalError("boom", nil)

			req := httptest.NewRequest(http.MethodGet, "/api/payment/create-payment-link", nil)
			w := httptest.NewRecorder()

			handler.CreatePaymentLink(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))

			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["Status"]).To(Equal("Failed"))
			Expect(resp["Errors"]).To(ContainElement("Internal server error"))
			Expect(w.Body.String()).ToNot(ContainSubstring("boom"))
		})
	})
})

var _ = Describe("Payment endpoint end to end", func() {
	var (
		handler   *paymentpkg.Handler
		processor *mockProcessor
	)

	BeforeEach(func() {
		processor = &mockProcessor{
			customers: []squaretypes.Customer{{ID: "cust-1", EmailAddress: "a@b.com"}},
			payment: &squaretypes.Payment{
				ID:          "pay_1",
				Status:      squaretypes.PaymentStatusCompleted,
				AmountMoney: squaretypes.Money{Amount: 500, Currency: "USD"},
			},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := paymentpkg.NewService(processor, paymentpkg.ServiceConfig{
			LinkName:     "Quick Pay",
			LinkAmount:   1000,
			LinkCurrency: "USD",
		}, events.NewEventBus(logger), logger)
		handler = paymentpkg.NewHandler(service, logger)
	})

	It("should charge a valid request through the full flow", func() {
		body := `{"sourceId":"tok_1","amount":500,"currency":"usd","email":"a@b.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/payment/process", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.ProcessPayment(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(processor.createPaymentCalls).To(Equal(1))

		var resp map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["Status"]).To(Equal("Success"))
		Expect(resp["PaymentId"]).To(Equal("pay_1"))
	})

	It("should reject an invalid amount before any processor call", func() {
		body := `{"sourceId":"tok_1","amount":0,"currency":"usd","email":"a@b.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/payment/process", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.ProcessPayment(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(processor.searchCalls).To(BeZero())
		Expect(processor.createPaymentCalls).To(BeZero())

		var resp map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["Message"]).To(Equal("Amount must be greater than 0"))
	})
})
