// Package middleware provides gin middleware for the content negotiation
// server.
//
//   - RequestID: reads or generates X-Request-ID and stores it in the
//     request context for logging
//   - Logging: one structured log line per request, level by status
//   - Recovery: turns panics into 500 responses
//   - Metrics: request counts, durations and in-flight requests
//
// Register RequestID before Logging so log lines carry the request ID:
//
//	engine.Use(
//	    middleware.RequestID(),
//	    middleware.Logging(logger),
//	    middleware.Recovery(logger),
//	    middleware.Metrics(metrics),
//	)
package middleware
