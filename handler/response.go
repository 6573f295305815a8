package handler

import (
	"encoding/json"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the JSON body every bridge endpoint answers with.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type jsonResponse struct {
	status  int
	headers http.Header
	body    any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	for k, vs := range j.headers {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// ResponseOption tweaks a JSON response.
type ResponseOption func(*jsonResponse)

func WithStatus(code int) ResponseOption {
	return func(r *jsonResponse) { r.status = code }
}

func WithHeader(key, value string) ResponseOption {
	return func(r *jsonResponse) {
		if r.headers == nil {
			r.headers = make(http.Header)
		}
		r.headers.Set(key, value)
	}
}

// JSON renders v as-is with status 200 unless overridden.
func JSON(v any, opts ...ResponseOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Success renders a 200 success envelope.
func Success(message string, details any, opts ...ResponseOption) Response {
	return JSON(Envelope{Status: StatusSuccess, Message: message, Details: details}, opts...)
}

// Fail renders an error envelope with the given status.
func Fail(code int, message string, details any) Response {
	return JSON(Envelope{Status: StatusError, Message: message, Details: details}, WithStatus(code))
}

// Error renders err the way the default error handler would, without logging.
func Error(err error) Response {
	info := classifyError(err)
	return Fail(info.StatusCode, info.Message, info.Details)
}

type textResponse struct {
	status int
	body   string
}

func (t textResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(t.status)
	_, err := w.Write([]byte(t.body))
	return err
}

// Text renders a plain-text body, used where callers expect a bare word
// such as "Unauthorized".
func Text(code int, body string) Response {
	return textResponse{status: code, body: body}
}

// Empty renders only a status code.
func Empty(code int) Response {
	return emptyResponse(code)
}

type emptyResponse int

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(int(e))
	return nil
}
