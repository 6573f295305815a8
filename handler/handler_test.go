package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camtang26/cre8tiveCA/handler"
	"github.com/camtang26/cre8tiveCA/pkg/binder"
	"github.com/camtang26/cre8tiveCA/pkg/validator"
)

type greetRequest struct {
	Name string `json:"name" query:"name"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) handler.Envelope {
	t.Helper()
	var env handler.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func quietHandler() handler.ErrorHandler {
	return handler.NewErrorHandler(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestWrap_BindsAndRenders(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(ctx handler.Context, req greetRequest) handler.Response {
		return handler.Success("hello "+req.Name, map[string]string{"path": ctx.Request().URL.Path})
	}, handler.WithBinders[greetRequest](binder.Query(), binder.JSON()))

	t.Run("query", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/greet?name=Ada", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"success","message":"hello Ada","details":{"path":"/greet"}}`, rec.Body.String())
	})

	t.Run("json body", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/greet", strings.NewReader(`{"name":"Grace"}`))
		r.Header.Set("Content-Type", "application/json")
		h(rec, r)
		assert.Equal(t, "hello Grace", decodeEnvelope(t, rec).Message)
	})
}

func TestWrap_BindErrorUsesErrorHandler(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(handler.Context, greetRequest) handler.Response {
		t.Fatal("handler must not run")
		return nil
	},
		handler.WithBinders[greetRequest](binder.JSON()),
		handler.WithErrorHandler[greetRequest](quietHandler()),
	)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	h(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, handler.StatusError, env.Status)
	assert.Equal(t, "Invalid request payload", env.Message)
}

func TestWrap_NilResponse(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(handler.Context, greetRequest) handler.Response { return nil },
		handler.WithErrorHandler[greetRequest](quietHandler()))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWrap_DecoratorOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) handler.Decorator[greetRequest] {
		return func(next handler.HandlerFunc[greetRequest]) handler.HandlerFunc[greetRequest] {
			return func(ctx handler.Context, req greetRequest) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	h := handler.Wrap(func(handler.Context, greetRequest) handler.Response {
		order = append(order, "handler")
		return handler.Empty(http.StatusNoContent)
	}, handler.WithDecorators(mark("outer"), mark("inner")))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestError_Classification(t *testing.T) {
	t.Parallel()

	verr := handler.NewValidationError()
	verr.Add("recipient_email", "must be a valid email address")

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", verr, http.StatusBadRequest, "Invalid request payload"},
		{"http error", handler.NewHTTPError(http.StatusBadGateway, "Upstream failed", nil), http.StatusBadGateway, "Upstream failed"},
		{"wrapped http error", errors.Join(errors.New("ctx"), handler.ErrMethodNotAllowed), http.StatusMethodNotAllowed, "Method not allowed"},
		{"too large", binder.ErrBodyTooLarge, http.StatusRequestEntityTooLarge, "Request body too large"},
		{"media type", binder.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, "Content-Type must be application/json"},
		{"unknown", errors.New("secret internals"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			require.NoError(t, handler.Error(tt.err).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
			assert.Equal(t, tt.code, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.Equal(t, tt.message, env.Message)
			assert.NotContains(t, rec.Body.String(), "secret internals")
		})
	}
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: timeout")
	err := handler.NewHTTPError(http.StatusInternalServerError, "Failed to send email", cause).WithDetails("timeout")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to send email: dial tcp: timeout", err.Error())

	rec := httptest.NewRecorder()
	require.NoError(t, handler.Error(err).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.JSONEq(t, `{"status":"error","message":"Failed to send email","details":"timeout"}`, rec.Body.String())
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	verr := handler.NewValidationError()
	assert.True(t, verr.IsEmpty())
	assert.Equal(t, "validation failed", verr.Error())

	verr.Add("b", "second")
	verr.Add("a", "first")
	assert.True(t, verr.Has("a"))
	assert.Equal(t, "first", verr.Get("a"))
	assert.Equal(t, "validation failed: a: first; b: second", verr.Error())
}

func TestResponses(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, handler.Text(http.StatusUnauthorized, "Unauthorized").Render(rec, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Unauthorized", rec.Body.String())
	})

	t.Run("json with header", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		resp := handler.JSON(map[string]int{"n": 1}, handler.WithHeader("Cache-Control", "no-store"), handler.WithStatus(http.StatusAccepted))
		require.NoError(t, resp.Render(rec, nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		assert.JSONEq(t, `{"n":1}`, rec.Body.String())
	})

	t.Run("fail omits empty details", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, handler.Fail(http.StatusInternalServerError, "boom", nil).Render(rec, nil))
		assert.JSONEq(t, `{"status":"error","message":"boom"}`, rec.Body.String())
	})
}

func TestError_ValidatorRules(t *testing.T) {
	t.Parallel()

	err := validator.Apply(validator.ValidEmail("recipient_email", "nope"))
	rec := httptest.NewRecorder()
	require.NoError(t, handler.Error(err).Render(rec, httptest.NewRequest(http.MethodPost, "/", nil)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Invalid request payload","details":{"recipient_email":["must be a valid email address"]}}`, rec.Body.String())
}
