package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

var ErrNilResponse = HTTPError{Code: http.StatusInternalServerError, Message: "handler returned nil response"}

// HTTPError carries the status code and client-facing message for a failure.
// Details, when set, is echoed in the envelope.
type HTTPError struct {
	Code    int
	Message string
	Details any
	Err     error
}

func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e HTTPError) Unwrap() error { return e.Err }

// NewHTTPError builds an HTTPError. err may be nil.
func NewHTTPError(code int, message string, err error) HTTPError {
	return HTTPError{Code: code, Message: message, Err: err}
}

// WithDetails returns a copy of e carrying details.
func (e HTTPError) WithDetails(details any) HTTPError {
	e.Details = details
	return e
}

var (
	ErrBadRequest       = HTTPError{Code: http.StatusBadRequest, Message: "Invalid request payload"}
	ErrUnauthorized     = HTTPError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrNotFound         = HTTPError{Code: http.StatusNotFound, Message: "Not found"}
	ErrMethodNotAllowed = HTTPError{Code: http.StatusMethodNotAllowed, Message: "Method not allowed"}
	ErrInternal         = HTTPError{Code: http.StatusInternalServerError, Message: "Internal server error"}
)

// ValidationError maps field names to messages.
type ValidationError url.Values

func NewValidationError() ValidationError { return make(ValidationError) }

func (e ValidationError) Add(field, message string) { url.Values(e).Add(field, message) }
func (e ValidationError) Get(field string) string   { return url.Values(e).Get(field) }
func (e ValidationError) Has(field string) bool     { return len(e[field]) > 0 }
func (e ValidationError) IsEmpty() bool             { return len(e) == 0 }

// Error lists the first message per field, sorted by field name.
func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if msgs := e[f]; len(msgs) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", f, msgs[0]))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
