// Package observability provides logging, metrics, and tracing for the
// content negotiation server.
//
// # Logging
//
// The Logger interface provides structured logging over zap:
//
//	logger, err := observability.NewLogger(observability.DefaultLogConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("negotiated",
//	    observability.String("media_type", "application/json"),
//	)
//
// # Metrics
//
// HTTP metrics live on a private Prometheus registry so that tests and
// multiple servers in one process do not collide:
//
//	metrics := observability.NewMetrics("conneg")
//	mux.Handle("/metrics", metrics.Handler())
//
// # Tracing
//
// OpenTelemetry tracing with OTLP gRPC export. A disabled tracer is safe to
// use and produces no-op spans.
package observability
