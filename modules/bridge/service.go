package bridge

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/camtang26/cre8tiveCA/handler"
	"github.com/camtang26/cre8tiveCA/pkg/binder"
	"github.com/camtang26/cre8tiveCA/pkg/calcom"
	"github.com/camtang26/cre8tiveCA/pkg/clientip"
	"github.com/camtang26/cre8tiveCA/pkg/email"
	"github.com/camtang26/cre8tiveCA/pkg/graph"
	"github.com/camtang26/cre8tiveCA/pkg/httpserver"
	"github.com/camtang26/cre8tiveCA/pkg/logger"
	"github.com/camtang26/cre8tiveCA/pkg/metrics"
	"github.com/camtang26/cre8tiveCA/pkg/requestid"
	"github.com/camtang26/cre8tiveCA/pkg/webhook"
)

// BookingCreator books consultations. *calcom.Client satisfies it.
type BookingCreator interface {
	CreateBooking(ctx context.Context, req calcom.BookingRequest) (*calcom.Booking, error)
}

// TokenProber requests a token without touching the cache. *graph.TokenCache
// satisfies it.
type TokenProber interface {
	FetchUncached(ctx context.Context) (graph.CachedToken, error)
}

// Deps are the collaborators of a Service. Mailer and Bookings are required.
// Tokens may be nil when Azure credentials are missing; the auth probe then
// reports the configuration error.
type Deps struct {
	Mailer   email.EmailSender
	Footer   string
	Bookings BookingCreator
	Tokens   TokenProber
	Webhook  webhook.Config
	Checks   []httpserver.Check
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Clock    func() time.Time
	Getenv   func(string) string
}

type Service struct {
	cfg      Config
	mailer   email.EmailSender
	footer   string
	bookings BookingCreator
	tokens   TokenProber
	webhook  webhook.Config
	checks   []httpserver.Check
	metrics  *metrics.Metrics
	log      *slog.Logger
	now      func() time.Time
	getenv   func(string) string

	errorHandler handler.ErrorHandler
}

func NewService(cfg Config, deps Deps) *Service {
	s := &Service{
		cfg:      cfg,
		mailer:   deps.Mailer,
		footer:   deps.Footer,
		bookings: deps.Bookings,
		tokens:   deps.Tokens,
		webhook:  deps.Webhook,
		checks:   deps.Checks,
		metrics:  deps.Metrics,
		log:      deps.Logger,
		now:      deps.Clock,
		getenv:   deps.Getenv,
	}
	if s.metrics == nil {
		s.metrics = metrics.NewNoop()
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.getenv == nil {
		s.getenv = os.Getenv
	}
	if s.cfg.ReadinessTimeout <= 0 {
		s.cfg.ReadinessTimeout = 2 * time.Second
	}
	s.log = s.log.With(logger.Component("bridge"))
	s.errorHandler = handler.NewErrorHandler(s.log)
	return s
}

// Handle builds the complete router, middleware included.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(
		clientip.Middleware,
		requestid.Middleware,
		s.metrics.Middleware,
		middleware.Recoverer,
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, handler.Fail(http.StatusNotFound, "Not found", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, handler.Text(http.StatusMethodNotAllowed, "Method not allowed"))
	})

	r.Get("/", s.root)
	r.Get("/health", s.health)
	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(s.log, s.cfg.ReadinessTimeout, s.checks...))
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	currentTime := handler.Wrap(s.currentTime,
		handler.WithBinders[timeRequest](binder.Query(), binder.JSON(binder.IgnoreInvalid())),
		handler.WithErrorHandler[timeRequest](s.errorHandler),
	)
	r.Get("/api/current-time", currentTime)
	r.Post("/api/current-time", currentTime)

	r.Group(func(r chi.Router) {
		if s.webhook.Enabled {
			r.Use(webhook.Middleware(s.webhook.Secret,
				webhook.WithLogger(s.log),
				webhook.WithObserver(s.metrics),
				webhook.WithMaxBodyBytes(s.webhook.MaxBodyBytes),
			))
		}

		sendEmail := handler.Wrap(s.sendEmail,
			handler.WithBinders[emailRequest](binder.JSON()),
			handler.WithErrorHandler[emailRequest](s.errorHandler),
		)
		r.Post("/api/email", sendEmail)
		r.Post("/webhook/outlook/send_email", sendEmail)

		schedule := handler.Wrap(s.schedule,
			handler.WithBinders[scheduleRequest](binder.JSON()),
			handler.WithErrorHandler[scheduleRequest](s.errorHandler),
		)
		r.Post("/api/schedule", schedule)
		r.Post("/webhook/cal/schedule_consultation", schedule)
	})

	if s.cfg.DiagnosticsEnabled {
		r.Get("/api/debug-env", s.debugEnv)
		r.Get("/api/test-azure-auth", s.testAzureAuth)
	}

	return r
}

func (s *Service) render(w http.ResponseWriter, r *http.Request, resp handler.Response) {
	if err := resp.Render(w, r); err != nil {
		s.log.ErrorContext(r.Context(), "failed to write response", logger.Error(err))
	}
}
