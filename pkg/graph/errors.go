package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrMisconfigured means tenant, client id or secret is missing.
	ErrMisconfigured = errors.New("graph: azure credentials not configured")
	// ErrTokenUnavailable is matched by every *AuthTokenError.
	ErrTokenUnavailable = errors.New("graph: failed to obtain access token")
	// ErrMailRejected is matched by every *APIError.
	ErrMailRejected = errors.New("graph: request rejected")
)

// AuthTokenError reports a failed token request. ErrorCode and Description
// mirror the provider's "error" and "error_description" fields when the
// endpoint returned them. StatusCode is zero for transport failures.
type AuthTokenError struct {
	ErrorCode   string
	Description string
	StatusCode  int
	Err         error
}

func (e *AuthTokenError) Error() string {
	code := e.ErrorCode
	if code == "" {
		code = "unknown_error"
	}
	desc := e.Description
	if desc == "" {
		desc = "no description"
	}
	return fmt.Sprintf("%s: %s - %s", ErrTokenUnavailable, code, desc)
}

func (e *AuthTokenError) Unwrap() error { return e.Err }

func (e *AuthTokenError) Is(target error) bool { return target == ErrTokenUnavailable }

// APIError is a non-success Graph response.
type APIError struct {
	StatusCode int
	Code       string // Graph error.code, e.g. "ErrorInvalidRecipients"
	Message    string // Graph error.message
	RequestID  string
	Body       string // raw response body, truncated
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unexpected response"
	}
	return fmt.Sprintf("graph: status %d: %s", e.StatusCode, msg)
}

func (e *APIError) Is(target error) bool { return target == ErrMailRejected }
