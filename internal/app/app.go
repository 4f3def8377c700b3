// Package app wires configuration, logging, the data source, the
// dashboard service and the HTTP server into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ncdash/internal/config"
	"ncdash/internal/exporter"
	"ncdash/internal/infrastructure"
	"ncdash/internal/middleware"
	"ncdash/internal/services"
	"ncdash/internal/sheets"
	transport "ncdash/internal/transport/http"
	"ncdash/pkg/contracts"
)

// Application holds the wired components of the running service.
type Application struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
}

// New loads the configuration and wires the full application.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	provider, err := newRowProvider(cfg.Source, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing data source: %w", err)
	}

	builder := exporter.NewBuilder(exporter.Config{
		LogoURL:  cfg.Report.LogoURL,
		Timezone: cfg.Report.Timezone,
	}, nil, logger)

	service := services.NewDashboardService(provider, builder, cfg.Cache.TTL, cfg.Report.DepartmentColors, logger)

	router := newRouter(cfg, logger, service)

	return &Application{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}, nil
}

// newRowProvider selects the configured data source.
func newRowProvider(cfg config.SourceConfig, logger *slog.Logger) (sheets.RowProvider, error) {
	switch cfg.Kind {
	case config.SourceWorkbook:
		return sheets.NewWorkbook(cfg.WorkbookPath, cfg.Worksheet, logger), nil
	default:
		return sheets.NewClient(context.Background(), sheets.Config{
			SpreadsheetID:   cfg.SpreadsheetID,
			Worksheet:       cfg.Worksheet,
			CredentialsFile: cfg.CredentialsFile,
			FetchTimeout:    cfg.FetchTimeout,
		}, logger)
	}
}

func newRouter(cfg *config.Config, logger *slog.Logger, service transport.DashboardService) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

	r.Method(http.MethodGet, "/healthz", transport.NewHealthHandler(contracts.Version))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	dashboard := transport.NewDashboardHandler(service, logger)
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/dashboard", dashboard.Routes())
	})

	return r
}

// Run starts the HTTP server and blocks until shutdown completes.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			slog.String("addr", a.server.Addr),
			slog.String("version", contracts.Version))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		a.logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}
