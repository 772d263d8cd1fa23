package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"dqcli/internal/config"
	apperrors "dqcli/internal/errors"
	"dqcli/internal/infrastructure"
	customMiddleware "dqcli/internal/middleware"
	"dqcli/internal/quality"
	"dqcli/internal/services"
	handlers "dqcli/internal/transport/http"
	"dqcli/pkg/contracts"
)

// Application represents the HTTP inspection service container
type Application struct {
	Config            *config.Config
	Router            *chi.Mux
	Server            *http.Server
	Logger            *slog.Logger
	OTelProviders     *infrastructure.OTelProviders
	Metrics           *infrastructure.InspectionMetrics
	Inspector         *quality.Inspector
	InspectionService *services.InspectionService
	HealthService     *services.HealthService
}

// NewApplication wires telemetry, services, router and server from cfg
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, apperrors.NewConfigError("missing configuration")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	// a nil meter falls back to the global provider, which is a no-op when
	// metrics are disabled
	metrics, err := infrastructure.NewInspectionMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create inspection metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}
	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the inspector and the services that use it
func (a *Application) initializeServices() {
	a.Inspector = quality.NewInspector(a.Logger, quality.WithRecorder(a.Metrics))
	a.InspectionService = services.NewInspectionService(
		a.Inspector,
		a.Config.Inspection,
		a.Config.Ingest.Options(),
		a.Logger,
	)
	a.HealthService = services.NewHealthService(a.Config.Telemetry.ServiceName)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apperrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	// RequestID → RealIP → OTel → Logger → Recoverer
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(errorHandler.Recoverer)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	inspectionHandler := handlers.NewInspectionHandler(a.InspectionService, errorHandler, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/health", healthHandler.HealthCheck)

		r.Group(func(r chi.Router) {
			if a.Config.Server.RateLimit.Enabled {
				r.Use(customMiddleware.NewRateLimiter(
					a.Config.Server.RateLimit.RPS,
					a.Config.Server.RateLimit.Burst,
					a.Logger,
				).Handler)
			}
			r.Use(customMiddleware.BodyLimit(a.Config.Server.MaxBodyBytes))

			r.Mount("/v1/inspections", inspectionHandler.Routes())
		})
	})

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run listens on the configured port and serves until ctx is cancelled
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled or the server fails, then shuts
// down gracefully
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	a.Logger.InfoContext(ctx, "server_starting",
		slog.String("service", a.Config.Telemetry.ServiceName),
		slog.String("version", contracts.Version),
		slog.String("address", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "server_failed", slog.String("error", err.Error()))
			_ = a.shutdownTelemetry(context.Background())
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "shutdown_requested")
	}

	stopErr := a.Stop(context.Background())
	<-errCh
	return stopErr
}

// Stop gracefully stops the server and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	start := time.Now()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := a.shutdownTelemetry(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "telemetry_shutdown_failed", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "shutdown_complete", slog.Duration("duration", time.Since(start)))
	return nil
}

func (a *Application) shutdownTelemetry(ctx context.Context) error {
	if a.OTelProviders == nil {
		return nil
	}
	return a.OTelProviders.Shutdown(ctx)
}
