package payment_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	paymentpkg "github.com/frahmantamala/square-payments/internal/payment"
)

var _ = Describe("ClassifyError", func() {
	DescribeTable("mapping processor error codes to payer messages",
		func(errText, expected string) {
			Expect(paymentpkg.ClassifyError(errors.New(errText))).To(Equal(expected))
		},
		Entry("declined card", "status 402: CARD_DECLINED: generic decline",
			"Your card was declined. Please try a different card."),
		Entry("insufficient funds", "status 402: INSUFFICIENT_FUNDS",
			"Insufficient funds on your card."),
		Entry("expired card", "status 402: EXPIRED_CARD",
			"Your card has expired. Please use a different card."),
		Entry("invalid expiration", "status 400: INVALID_EXPIRATION",
			"Invalid card expiration date."),
		Entry("invalid card", "status 400: INVALID_CARD",
			"Invalid card information. Please check your card details."),
		Entry("verification needed", "status 402: VERIFY_NEEDED",
			"Card verification required. Please contact your bank."),
		Entry("authentication required", "status 402: AUTHENTICATION_REQUIRED",
			"Card authentication required. Please try again."),
		Entry("unknown code", "status 500: UNEXPECTED_VALUE",
			"Payment processing failed. Please try again."),
		Entry("network failure", "dial tcp: connection refused",
			"Payment processing failed. Please try again."),
	)

	It("should match case-insensitively", func() {
		Expect(paymentpkg.ClassifyError(errors.New("Card_Declined"))).
			To(Equal("Your card was declined. Please try a different card."))
	})

	It("should prefer the earlier rule when multiple codes appear", func() {
		err := errors.New("INSUFFICIENT_FUNDS after CARD_DECLINED retry")
		Expect(paymentpkg.ClassifyError(err)).
			To(Equal("Your card was declined. Please try a different card."))
	})

	It("should fall back to the generic message for nil", func() {
		Expect(paymentpkg.ClassifyError(nil)).
			To(Equal("Payment processing failed. Please try again."))
	})
})
