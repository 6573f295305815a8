package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/camtang26/cre8tiveCA/pkg/logger"
)

// Sign returns the lowercase hex HMAC-SHA256 of payload under secret.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature is exactly the lowercase hex
// HMAC-SHA256 of payload under secret. Empty inputs and wrong lengths yield
// false. The comparison is constant time over the hex text.
func VerifySignature(payload []byte, signature, secret string) bool {
	return verify(slog.Default(), payload, signature, secret)
}

func verify(log *slog.Logger, payload []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}

	expected := Sign(payload, secret)
	if len(signature) != len(expected) {
		log.Warn("webhook signature has unexpected length",
			logger.Event("webhook_signature_malformed"),
			slog.Int("signature_length", len(signature)),
		)
		return false
	}
	return hmac.Equal([]byte(signature), []byte(expected))
}
