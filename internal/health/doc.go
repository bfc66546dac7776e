// Package health provides liveness and readiness endpoints whose bodies are
// written in the representation the client negotiates.
//
// Create a checker, register readiness checks and mount the handlers with a
// render function, usually a binder's RenderGin:
//
//	checker := health.NewChecker(version)
//	checker.RegisterCheck("formatters", func() health.Check {
//	    return health.Check{Status: health.StatusHealthy}
//	})
//
//	engine.GET("/health", checker.HealthHandler(render))
//	engine.GET("/ready", checker.ReadinessHandler(render))
//	engine.GET("/live", health.LivenessHandler)
package health
