package webhook

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/camtang26/cre8tiveCA/handler"
	"github.com/camtang26/cre8tiveCA/pkg/logger"
)

const defaultMaxBodyBytes = 1 << 20

// Observer receives every authorization decision.
type Observer interface {
	ObserveWebhookDecision(decision string)
}

type middlewareOptions struct {
	log      *slog.Logger
	observer Observer
	maxBody  int64
}

type MiddlewareOption func(*middlewareOptions)

func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(o *middlewareOptions) {
		if l != nil {
			o.log = l
		}
	}
}

func WithObserver(obs Observer) MiddlewareOption {
	return func(o *middlewareOptions) { o.observer = obs }
}

// WithMaxBodyBytes caps the body read for verification. Non-positive values
// keep the 1 MiB default.
func WithMaxBodyBytes(n int64) MiddlewareOption {
	return func(o *middlewareOptions) {
		if n > 0 {
			o.maxBody = n
		}
	}
}

// Middleware authorizes every request with Authorize before calling next.
// The body is buffered and replaced so next can decode it again.
func Middleware(secret string, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	o := middlewareOptions{log: logger.Discard(), maxBody: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log.With(logger.Component("webhook"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var body []byte
			if r.Body != nil {
				var err error
				body, err = io.ReadAll(io.LimitReader(r.Body, o.maxBody+1))
				_ = r.Body.Close()
				if err != nil {
					log.WarnContext(ctx, "failed to read webhook body", logger.Error(err))
					render(w, r, handler.Fail(http.StatusBadRequest, "Invalid request payload", nil), log)
					return
				}
				if int64(len(body)) > o.maxBody {
					render(w, r, handler.Fail(http.StatusRequestEntityTooLarge, "Request body too large", nil), log)
					return
				}
			}

			decision := authorize(log, r.Header, body, secret)
			if o.observer != nil {
				o.observer.ObserveWebhookDecision(decision.Kind.String())
			}

			switch decision.Kind {
			case Misconfigured:
				log.ErrorContext(ctx, "ELEVENLABS_WEBHOOK_SECRET not configured", logger.Event("webhook_misconfigured"))
				render(w, r, handler.Fail(http.StatusInternalServerError, "Webhook authentication not configured", nil), log)
				return
			case Unauthorized:
				log.WarnContext(ctx, "webhook rejected",
					logger.Event("webhook_rejected"),
					slog.String("reason", decision.Reason),
					slog.String("path", r.URL.Path),
				)
				render(w, r, handler.Text(http.StatusUnauthorized, "Unauthorized"), log)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))
			next.ServeHTTP(w, r)
		})
	}
}

func render(w http.ResponseWriter, r *http.Request, resp handler.Response, log *slog.Logger) {
	if err := resp.Render(w, r); err != nil {
		log.ErrorContext(r.Context(), "failed to write webhook response", logger.Error(err))
	}
}
