package calcom

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FallbackMessage is used when Cal.com gives no message of its own.
const FallbackMessage = "Failed to book consultation"

var (
	ErrMisconfigured = errors.New("calcom: api key not configured")
	// ErrBookingRejected is matched by every *APIError.
	ErrBookingRejected = errors.New("calcom: booking rejected")
)

// APIError is a Cal.com response that did not yield a booking.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte // raw response body, truncated
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calcom: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool { return target == ErrBookingRejected }

// Details is the response body as JSON when it parses, else as a string.
func (e *APIError) Details() any {
	if len(e.Body) == 0 {
		return nil
	}
	if json.Valid(e.Body) {
		return json.RawMessage(e.Body)
	}
	return string(e.Body)
}
