package binder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
)

// DefaultMaxJSONSize caps JSON bodies at 1 MiB.
const DefaultMaxJSONSize = 1 << 20

type jsonOptions struct {
	maxSize       int64
	ignoreInvalid bool
}

// JSONOption configures the JSON binder.
type JSONOption func(*jsonOptions)

// MaxSize overrides DefaultMaxJSONSize.
func MaxSize(n int64) JSONOption {
	return func(o *jsonOptions) {
		if n > 0 {
			o.maxSize = n
		}
	}
}

// IgnoreInvalid makes a malformed or empty body leave the target untouched
// instead of failing the request.
func IgnoreInvalid() JSONOption {
	return func(o *jsonOptions) { o.ignoreInvalid = true }
}

// JSON binds an application/json request body into v.
// Requests without a body (GET, or Content-Length 0) are not applicable.
// A missing Content-Type is treated as JSON; tool-calling agents often omit it.
func JSON(opts ...JSONOption) func(r *http.Request, v any) error {
	o := jsonOptions{maxSize: DefaultMaxJSONSize}
	for _, opt := range opts {
		opt(&o)
	}

	return func(r *http.Request, v any) error {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Body == nil || r.Body == http.NoBody {
			return ErrNotApplicable
		}

		if ct := r.Header.Get("Content-Type"); ct != "" {
			mt, _, err := mime.ParseMediaType(ct)
			if err != nil || mt != "application/json" {
				if o.ignoreInvalid {
					return ErrNotApplicable
				}
				return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, ct)
			}
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, o.maxSize+1))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
		}
		if int64(len(body)) > o.maxSize {
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, o.maxSize)
		}

		if err := decodeInto(body, v); err != nil {
			if o.ignoreInvalid {
				return ErrNotApplicable
			}
			return err
		}
		return nil
	}
}

// decodeInto decodes into a fresh value and only assigns it to v on success,
// so a failed decode never leaves v half-populated.
func decodeInto(body []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer", ErrInvalidJSON)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidJSON)
	}

	tmp := reflect.New(rv.Elem().Type())
	tmp.Elem().Set(rv.Elem())

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(tmp.Interface()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrInvalidJSON)
	}

	rv.Elem().Set(tmp.Elem())
	return nil
}
