package payment

import "strings"

// classificationRule maps a processor error code fragment to the message shown
// to the payer. Order matters: the first match wins.
type classificationRule struct {
	substring string
	message   string
}

var classificationRules = []classificationRule{
	{"card_declined", "Your card was declined. Please try a different card."},
	{"insufficient_funds", "Insufficient funds on your card."},
	{"expired_card", "Your card has expired. Please use a different card."},
	{"invalid_expiration", "Invalid card expiration date."},
	{"invalid_card", "Invalid card information. Please check your card details."},
	{"verify_needed", "Card verification required. Please contact your bank."},
	{"authentication_required", "Card authentication required. Please try again."},
}

const genericFailureMessage = "Payment processing failed. Please try again."

// ClassifyError translates an opaque processor or network error into one of a
// closed set of user-facing messages. Nothing from the underlying error leaks
// to the client; full detail is only ever logged internally.
func ClassifyError(err error) string {
	if err == nil {
		return genericFailureMessage
	}

	message := strings.ToLower(err.Error())
	for _, rule := range classificationRules {
		if strings.Contains(message, rule.substring) {
			return rule.message
		}
	}

	return genericFailureMessage
}
