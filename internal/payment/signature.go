package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// VerifySignature checks that a webhook body genuinely originated from the
// processor. The signature is the base64 HMAC-SHA256 of the canonical
// notification URL concatenated with the raw body, keyed with the shared
// webhook signature key. Comparison is constant-time.
func VerifySignature(signatureKey, notificationURL string, body []byte, signatureHeader string) bool {
	if signatureHeader == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(signatureKey))
	mac.Write([]byte(notificationURL))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signatureHeader))
}
