// Package app wires configuration, logging, observability, services, and the
// HTTP router into a runnable application.
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
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"sheetpulse/internal/config"
	apierrors "sheetpulse/internal/errors"
	"sheetpulse/internal/infrastructure"
	customMiddleware "sheetpulse/internal/middleware"
	"sheetpulse/internal/services"
	"sheetpulse/internal/sheets"
	handlers "sheetpulse/internal/transport/http"
	"sheetpulse/internal/workbook"
	"sheetpulse/pkg/contracts"
)

const AppName = "SheetPulse - Spreadsheet Summary Service"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	SheetService  *services.SheetService
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	fetcher := sheets.NewFetcher(&http.Client{}, logger)

	var apiFetcher services.DatasetFetcher
	if cfg.Sheet.APIKey != "" {
		af, err := sheets.NewAPIFetcher(context.Background(), cfg.Sheet.APIKey, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets API fetcher: %w", err)
		}
		apiFetcher = af
		logger.Info("Sheets values API fetcher enabled")
	}

	sheetService := services.NewSheetService(cfg, fetcher, apiFetcher, logger)
	if cfg.Sheet.WorkbookPath != "" {
		sheetService.WithLocalSource(workbook.NewFetcher(cfg.Sheet.WorkbookPath, logger))
		logger.Info("Local workbook source enabled",
			slog.String("path", cfg.Sheet.WorkbookPath))
	}
	if otelProviders.Meter != nil {
		metrics, err := infrastructure.CreateSheetMetrics(otelProviders.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheet metrics: %w", err)
		}
		sheetService.WithMetrics(metrics)
	}

	app := &Application{
		Config:        cfg,
		SheetService:  sheetService,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	app.setupRouter()
	app.setupServer()
	return app, nil
}

// setupRouter configures the middleware chain and route tree
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)
	sheetHandler := handlers.NewSheetHandler(a.SheetService, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(contracts.Version, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Mount("/sheet", sheetHandler.Routes())
		r.Get("/healthz", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.Version)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.Router = r
}

// setupServer configures the HTTP server
func (a *Application) setupServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the server and blocks until a shutdown signal arrives or the
// server fails.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "Server listening",
			slog.String("address", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry",
				slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file",
			slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application stopped")
	return nil
}
