package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/conneg/internal/binding"
	"github.com/vyrodovalexey/conneg/internal/config"
	"github.com/vyrodovalexey/conneg/internal/formatter"
	"github.com/vyrodovalexey/conneg/internal/health"
	"github.com/vyrodovalexey/conneg/internal/middleware"
	"github.com/vyrodovalexey/conneg/internal/negotiation"
	"github.com/vyrodovalexey/conneg/internal/observability"
	"github.com/vyrodovalexey/conneg/internal/server"
)

// application holds all application components.
type application struct {
	server             *server.Server
	binder             atomic.Pointer[binding.Binder]
	metrics            *observability.Metrics
	negotiationMetrics *negotiation.Metrics
	formatterMetrics   *formatter.Metrics
	health             *health.Checker
	tracer             *observability.Tracer
	logger             observability.Logger
	config             *config.Config
}

// newApplication initializes all application components.
func newApplication(cfg *config.Config, logger observability.Logger) (*application, error) {
	app := &application{
		logger: logger,
		config: cfg,
	}

	namespace := ""
	if cfg.MetricsEnabled() {
		namespace = cfg.Spec.Observability.Metrics.Namespace
	}
	app.metrics = observability.NewMetrics(namespace)
	app.metrics.SetBuildInfo(version, gitCommit, buildTime)

	app.negotiationMetrics = negotiation.NewMetrics(namespace)
	if err := app.negotiationMetrics.Register(app.metrics.Registry()); err != nil {
		return nil, fmt.Errorf("failed to register negotiation metrics: %w", err)
	}
	app.formatterMetrics = formatter.NewMetrics(namespace)
	if err := app.formatterMetrics.Register(app.metrics.Registry()); err != nil {
		return nil, fmt.Errorf("failed to register formatter metrics: %w", err)
	}

	tracer, err := initTracer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	app.tracer = tracer

	binder, err := app.buildBinder(cfg)
	if err != nil {
		return nil, err
	}
	app.binder.Store(binder)

	app.server = server.New(cfg.Spec.Server,
		server.WithLogger(logger),
		server.WithHandlerWrapper(observability.TracingMiddleware(tracer)),
	)
	app.health = health.NewChecker(version)
	app.health.RegisterCheck("formatters", app.checkFormatters)
	app.registerRoutes(app.server.Engine())

	return app, nil
}

// initTracer initializes the tracer.
func initTracer(cfg *config.Config) (*observability.Tracer, error) {
	tracerCfg := observability.TracerConfig{
		ServiceName:    observability.DefaultServiceName,
		ServiceVersion: version,
		SamplingRate:   1.0,
	}

	if cfg.TracingEnabled() {
		tracing := cfg.Spec.Observability.Tracing
		tracerCfg.Enabled = true
		tracerCfg.OTLPEndpoint = tracing.OTLPEndpoint
		if tracing.SamplingRate > 0 {
			tracerCfg.SamplingRate = tracing.SamplingRate
		}
		if tracing.ServiceName != "" {
			tracerCfg.ServiceName = tracing.ServiceName
		}
	}

	return observability.NewTracer(tracerCfg)
}

// buildBinder builds the formatters and negotiator a configuration declares.
func (a *application) buildBinder(cfg *config.Config) (*binding.Binder, error) {
	b, err := binding.NewFromConfig(cfg,
		binding.WithLogger(a.logger),
		binding.WithTracer(a.tracer),
		binding.WithMetrics(a.negotiationMetrics, a.formatterMetrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build binder: %w", err)
	}
	return b, nil
}

// currentBinder returns the binder of the active configuration.
func (a *application) currentBinder() *binding.Binder {
	return a.binder.Load()
}

// checkFormatters reports whether the active binder can negotiate anything.
func (a *application) checkFormatters() health.Check {
	n := len(a.currentBinder().Registry().Formatters())
	if n == 0 {
		return health.Check{Status: health.StatusUnhealthy, Message: "no formatters configured"}
	}
	return health.Check{Status: health.StatusHealthy, Message: strconv.Itoa(n) + " formatters"}
}

// render writes v through the binder of the active configuration.
func (a *application) render(c *gin.Context, status int, v any) {
	a.currentBinder().RenderGin(c, status, v)
}

// registerRoutes registers middleware and routes on the engine.
func (a *application) registerRoutes(engine *gin.Engine) {
	metricsPath := config.DefaultMetricsPath
	if a.config.MetricsEnabled() && a.config.Spec.Observability.Metrics.Path != "" {
		metricsPath = a.config.Spec.Observability.Metrics.Path
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logging(a.logger, metricsPath, healthPath, readyPath, livePath),
		middleware.Recovery(a.logger),
		middleware.Metrics(a.metrics),
	)

	engine.POST("/echo", a.handleEcho)
	engine.POST("/echo/raw", a.handleEchoRaw)
	engine.GET("/greeting", a.handleGreeting)
	engine.GET("/types", a.handleTypes)
	engine.GET("/formatters", a.handleFormatters)
	engine.GET(healthPath, a.health.HealthHandler(a.render))
	engine.GET(readyPath, a.health.ReadinessHandler(a.render))
	engine.GET(livePath, health.LivenessHandler)

	if a.config.MetricsEnabled() {
		engine.GET(metricsPath, gin.WrapH(a.metrics.Handler()))
	}
}

// run starts the server and the config watcher and blocks until ctx is
// done, then shuts down.
func run(ctx context.Context, app *application, configPath string, logger observability.Logger) error {
	if err := app.server.Start(ctx); err != nil {
		return err
	}

	var watcher *config.Watcher
	if configPath != "" {
		watcher = startConfigWatcher(ctx, app, configPath)
	}

	<-ctx.Done()
	logger.Info("received shutdown signal")

	return shutdown(app, watcher)
}

// shutdown stops the watcher, drains the server and flushes the tracer.
func shutdown(app *application, watcher *config.Watcher) error {
	timeout := app.config.Spec.Server.ShutdownTimeout.Duration()
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop config watcher: %w", err))
		}
	}
	if err := app.server.Stop(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := app.tracer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown tracer: %w", err))
	}

	app.logger.Info("conneg stopped",
		observability.Duration("shutdown_timeout", timeout),
		observability.Bool("clean", len(errs) == 0),
	)
	return errors.Join(errs...)
}

const (
	healthPath = "/health"
	readyPath  = "/ready"
	livePath   = "/live"
)
