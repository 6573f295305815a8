package webhook

import (
	"log/slog"
	"net/http"

	"github.com/camtang26/cre8tiveCA/pkg/config"
)

// SignatureHeaders are checked in order; the first non-empty value is used.
var SignatureHeaders = []string{
	"x-webhook-signature",
	"x-elevenlabs-signature",
	"x-signature",
}

const (
	ReasonMissingSignature = "missing signature"
	ReasonInvalidSignature = "invalid signature"
)

type Kind int

const (
	Authorized Kind = iota
	Unauthorized
	Misconfigured
)

func (k Kind) String() string {
	switch k {
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	case Misconfigured:
		return "misconfigured"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Authorize. Reason is set for Unauthorized only.
type Decision struct {
	Kind   Kind
	Reason string
}

// ExtractSignature returns the first non-empty signature header, or "".
func ExtractSignature(h http.Header) string {
	for _, name := range SignatureHeaders {
		if v := h.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// Authorize decides whether a request carrying headers and rawBody was signed
// with secret. A missing or placeholder secret yields Misconfigured.
func Authorize(headers http.Header, rawBody []byte, secret string) Decision {
	return authorize(slog.Default(), headers, rawBody, secret)
}

func authorize(log *slog.Logger, headers http.Header, rawBody []byte, secret string) Decision {
	if !config.Configured(secret) {
		return Decision{Kind: Misconfigured}
	}

	sig := ExtractSignature(headers)
	if sig == "" {
		return Decision{Kind: Unauthorized, Reason: ReasonMissingSignature}
	}
	if !verify(log, rawBody, sig, secret) {
		return Decision{Kind: Unauthorized, Reason: ReasonInvalidSignature}
	}
	return Decision{Kind: Authorized}
}
