// Command server runs the voice agent bridge: Graph email, Cal.com bookings
// and time lookup behind webhook signature verification.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/camtang26/cre8tiveCA/modules/bridge"
	"github.com/camtang26/cre8tiveCA/pkg/calcom"
	"github.com/camtang26/cre8tiveCA/pkg/clientip"
	"github.com/camtang26/cre8tiveCA/pkg/config"
	"github.com/camtang26/cre8tiveCA/pkg/email"
	"github.com/camtang26/cre8tiveCA/pkg/graph"
	"github.com/camtang26/cre8tiveCA/pkg/httpserver"
	"github.com/camtang26/cre8tiveCA/pkg/logger"
	"github.com/camtang26/cre8tiveCA/pkg/metrics"
	"github.com/camtang26/cre8tiveCA/pkg/requestid"
	"github.com/camtang26/cre8tiveCA/pkg/webhook"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`
}

func main() {
	var app appConfig
	config.MustLoad(&app)
	var bridgeCfg bridge.Config
	config.MustLoad(&bridgeCfg)

	opts := []logger.Option{
		logger.WithEnvironment(app.Env, bridgeCfg.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if app.LogLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(app.LogLevel)); err == nil {
			opts = append(opts, logger.WithLevel(lvl))
		}
	}
	log := logger.New(opts...)
	slog.SetDefault(log)

	if err := run(context.Background(), bridgeCfg, log); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, bridgeCfg bridge.Config, log *slog.Logger) error {
	var (
		srvCfg   httpserver.Config
		graphCfg graph.Config
		mailCfg  email.Config
		calCfg   calcom.Config
		hookCfg  webhook.Config
	)
	if err := errors.Join(
		config.Load(&srvCfg),
		config.Load(&graphCfg),
		config.Load(&mailCfg),
		config.Load(&calCfg),
		config.Load(&hookCfg),
	); err != nil {
		return err
	}

	m := metrics.New(nil)

	// Interfaces stay nil, not typed-nil, when credentials are missing.
	var (
		tokens     bridge.TokenProber
		graphMail  email.GraphMailer
		graphReady = graphCfg.Validate()
	)
	if graphReady == nil {
		cache, err := graph.NewTokenCache(graphCfg,
			graph.WithHTTPClient(&http.Client{Timeout: graphCfg.TokenTimeout}),
			graph.WithLogger(log),
			graph.WithObserver(m),
		)
		if err != nil {
			return err
		}
		tokens = cache
		if config.Configured(mailCfg.SenderUPN) {
			graphMail = graph.NewMailClient(cache, mailCfg.SenderUPN,
				graph.WithMailBaseURL(graphCfg.BaseURL),
				graph.WithMailHTTPClient(&http.Client{Timeout: graphCfg.RequestTimeout}),
				graph.WithMailLogger(log),
				graph.WithMailObserver(m),
			)
		} else {
			log.Warn("SENDER_UPN not configured; graph email disabled")
		}
	} else {
		log.Warn("azure credentials not configured; graph email disabled", logger.Error(graphReady))
	}

	mailer, err := email.NewSender(mailCfg, email.Deps{Graph: graphMail, Logger: log})
	if err != nil {
		return err
	}

	bookings := calcom.NewClient(calCfg, calcom.WithLogger(log), calcom.WithObserver(m))
	if !bookings.Configured() {
		log.Warn("CAL_COM_API_KEY not configured; bookings will fail")
	}
	if hookCfg.Enabled && !config.Configured(hookCfg.Secret) {
		log.Warn("webhook auth enabled without ELEVENLABS_WEBHOOK_SECRET; tool routes will answer 500")
	}

	checks := []httpserver.Check{
		{Name: "calcom", Fn: func(context.Context) error { return calCfg.Validate() }},
	}
	if mailCfg.Driver == "" || mailCfg.Driver == email.DriverGraph {
		checks = append(checks, httpserver.Check{Name: "graph", Fn: func(context.Context) error {
			if graphMail == nil {
				return errors.Join(graph.ErrMisconfigured, graphReady)
			}
			return nil
		}})
	}
	if hookCfg.Enabled {
		checks = append(checks, httpserver.Check{Name: "webhook_secret", Fn: func(context.Context) error {
			if !config.Configured(hookCfg.Secret) {
				return errors.New("ELEVENLABS_WEBHOOK_SECRET not configured")
			}
			return nil
		}})
	}

	svc := bridge.NewService(bridgeCfg, bridge.Deps{
		Mailer:   mailer,
		Footer:   mailCfg.Footer,
		Bookings: bookings,
		Tokens:   tokens,
		Webhook:  hookCfg,
		Checks:   checks,
		Metrics:  m,
		Logger:   log,
	})

	log.Info("starting bridge",
		slog.String("mail_driver", mailCfg.Driver),
		slog.Bool("webhook_auth", hookCfg.Enabled),
		slog.Bool("diagnostics", bridgeCfg.DiagnosticsEnabled),
		logger.Present("azure_tenant_id", graphCfg.TenantID),
		logger.Present("azure_client_secret", graphCfg.ClientSecret),
		logger.Present("cal_com_api_key", calCfg.APIKey),
	)

	srv := httpserver.NewFromConfig(srvCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, svc.Handle())
}
