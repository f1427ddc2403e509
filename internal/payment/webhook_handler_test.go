package payment_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/square-payments/internal/core/events"
	paymentpkg "github.com/frahmantamala/square-payments/internal/payment"
)

func signBody(key, notificationURL string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(notificationURL))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

var _ = Describe("WebhookHandler", func() {
	const (
		signatureKey    = "wh_secret"
		notificationURL = "https://example.com/api/webhooks/square-events"
	)

	var (
		handler  *paymentpkg.WebhookHandler
		eventBus *events.EventBus
		received chan events.Event
	)

	paymentUpdatedBody := []byte(`{
		"type": "payment.updated",
		"event_id": "evt-1",
		"data": {
			"object": {
				"payment": {"id": "pay_1", "status": "COMPLETED"}
			}
		}
	}`)

	newHandler := func(verify bool) *paymentpkg.WebhookHandler {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		eventBus = events.NewEventBus(logger)
		received = make(chan events.Event, 1)
		eventBus.Subscribe(events.EventTypePaymentUpdated, func(ctx context.Context, event events.Event) error {
			received <- event
			return nil
		})
		return paymentpkg.NewWebhookHandler(paymentpkg.WebhookConfig{
			SignatureKey:     signatureKey,
			NotificationURL:  notificationURL,
			VerifySignatures: verify,
		}, eventBus, logger)
	}

	post := func(body []byte, signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/square-events", bytes.NewBuffer(body))
		if signature != "" {
			req.Header.Set("X-Square-Signature", signature)
		}
		w := httptest.NewRecorder()
		handler.HandleSquareEvent(w, req)
		return w
	}

	Context("with signature verification enabled", func() {
		BeforeEach(func() {
			handler = newHandler(true)
		})

		It("should accept a correctly signed payment.updated event and dispatch it", func() {
			w := post(paymentUpdatedBody, signBody(signatureKey, notificationURL, paymentUpdatedBody))

			Expect(w.Code).To(Equal(http.StatusOK))

			var event events.Event
			Eventually(received).Should(Receive(&event))
			updated, ok := event.(*events.PaymentUpdatedEvent)
			Expect(ok).To(BeTrue())
			Expect(updated.PaymentID).To(Equal("pay_1"))
			Expect(updated.Status).To(Equal("COMPLETED"))
		})

		It("should reject a tampered body with 403", func() {
			signature := signBody(signatureKey, notificationURL, paymentUpdatedBody)
			tampered := bytes.Replace(paymentUpdatedBody, []byte("pay_1"), []byte("pay_2"), 1)

			w := post(tampered, signature)

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Consistently(received).ShouldNot(Receive())
		})

		It("should reject a missing signature header with 403", func() {
			w := post(paymentUpdatedBody, "")

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should reject a signature computed with the wrong key", func() {
			w := post(paymentUpdatedBody, signBody("other_key", notificationURL, paymentUpdatedBody))

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should return 500 for a signed body that is not valid JSON", func() {
			body := []byte("not json at all")

			w := post(body, signBody(signatureKey, notificationURL, body))

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})

		It("should acknowledge unrecognized event types with 200", func() {
			body := []byte(`{"type": "invoice.created", "event_id": "evt-2", "data": {}}`)

			w := post(body, signBody(signatureKey, notificationURL, body))

			Expect(w.Code).To(Equal(http.StatusOK))
			Consistently(received).ShouldNot(Receive())
		})

		It("should acknowledge a payment.updated event with a malformed payload", func() {
			body := []byte(`{"type": "payment.updated", "event_id": "evt-3", "data": "not-an-object"}`)

			w := post(body, signBody(signatureKey, notificationURL, body))

			Expect(w.Code).To(Equal(http.StatusOK))
			Consistently(received).ShouldNot(Receive())
		})
	})

	Context("with signature verification disabled", func() {
		BeforeEach(func() {
			handler = newHandler(false)
		})

		It("should admit an unsigned event", func() {
			w := post(paymentUpdatedBody, "")

			Expect(w.Code).To(Equal(http.StatusOK))
			Eventually(received).Should(Receive())
		})
	})
})

var _ = Describe("VerifySignature", func() {
	const (
		key             = "wh_secret"
		notificationURL = "https://example.com/hook"
	)

	body := []byte(`{"type":"payment.updated"}`)

	It("should accept the HMAC of the notification URL plus body", func() {
		Expect(paymentpkg.VerifySignature(key, notificationURL, body, signBody(key, notificationURL, body))).To(BeTrue())
	})

	It("should reject an empty signature", func() {
		Expect(paymentpkg.VerifySignature(key, notificationURL, body, "")).To(BeFalse())
	})

	It("should reject a signature over a different URL", func() {
		signature := signBody(key, "https://other.example.com/hook", body)
		Expect(paymentpkg.VerifySignature(key, notificationURL, body, signature)).To(BeFalse())
	})

	It("should reject a signature that is not valid base64", func() {
		Expect(paymentpkg.VerifySignature(key, notificationURL, body, "%%%not-base64%%%")).To(BeFalse())
	})
})
