package health

import (
	"encoding/xml"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Status represents the health status.
type Status string

const (
	// StatusHealthy indicates the service is healthy.
	StatusHealthy Status = "healthy"
	// StatusUnhealthy indicates the service is unhealthy.
	StatusUnhealthy Status = "unhealthy"
	// StatusDegraded indicates the service is degraded but operational.
	StatusDegraded Status = "degraded"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	XMLName   xml.Name  `xml:"health" json:"-" yaml:"-"`
	Status    Status    `xml:"status" json:"status" yaml:"status"`
	Version   string    `xml:"version,omitempty" json:"version,omitempty" yaml:"version,omitempty"`
	Uptime    string    `xml:"uptime,omitempty" json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Timestamp time.Time `xml:"timestamp" json:"timestamp" yaml:"timestamp"`
}

// String renders the status for text/plain.
func (r HealthResponse) String() string {
	return string(r.Status)
}

// ReadinessResponse represents the readiness check response. Checks are
// sorted by name.
type ReadinessResponse struct {
	XMLName   xml.Name  `xml:"readiness" json:"-" yaml:"-"`
	Status    Status    `xml:"status" json:"status" yaml:"status"`
	Checks    []Check   `xml:"check,omitempty" json:"checks,omitempty" yaml:"checks,omitempty"`
	Timestamp time.Time `xml:"timestamp" json:"timestamp" yaml:"timestamp"`
}

// String renders the status and failing checks for text/plain.
func (r ReadinessResponse) String() string {
	var b strings.Builder
	b.WriteString(string(r.Status))
	for _, c := range r.Checks {
		if c.Status != StatusHealthy {
			b.WriteString("\n" + c.Name + ": " + string(c.Status))
			if c.Message != "" {
				b.WriteString(" (" + c.Message + ")")
			}
		}
	}
	return b.String()
}

// Check represents an individual health check result.
type Check struct {
	Name    string `xml:"name,attr" json:"name" yaml:"name"`
	Status  Status `xml:"status" json:"status" yaml:"status"`
	Message string `xml:"message,omitempty" json:"message,omitempty" yaml:"message,omitempty"`
}

// CheckFunc is a function that performs a health check. The returned Name
// is ignored; the registered name is used.
type CheckFunc func() Check

// RenderFunc writes v with status in the negotiated representation.
type RenderFunc func(c *gin.Context, status int, v any)

// Checker provides health and readiness checking functionality.
type Checker struct {
	version   string
	startTime time.Time
	checks    map[string]CheckFunc
	now       func() time.Time
	mu        sync.RWMutex
}

// NewChecker creates a new health checker.
func NewChecker(version string) *Checker {
	return &Checker{
		version:   version,
		startTime: time.Now(),
		checks:    make(map[string]CheckFunc),
		now:       time.Now,
	}
}

// RegisterCheck registers a readiness check.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// UnregisterCheck removes a readiness check.
func (c *Checker) UnregisterCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// Health returns the health status.
func (c *Checker) Health() HealthResponse {
	now := c.now()
	return HealthResponse{
		Status:    StatusHealthy,
		Version:   c.version,
		Uptime:    now.Sub(c.startTime).Round(time.Second).String(),
		Timestamp: now,
	}
}

// Readiness runs all checks. Any unhealthy check makes the service
// unhealthy; otherwise any degraded check makes it degraded.
func (c *Checker) Readiness() ReadinessResponse {
	c.mu.RLock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, fn := range c.checks {
		checks[name] = fn
	}
	c.mu.RUnlock()

	slices.Sort(names)

	response := ReadinessResponse{
		Status:    StatusHealthy,
		Checks:    make([]Check, 0, len(names)),
		Timestamp: c.now(),
	}

	for _, name := range names {
		check := checks[name]()
		check.Name = name
		response.Checks = append(response.Checks, check)

		switch {
		case check.Status == StatusUnhealthy:
			response.Status = StatusUnhealthy
		case check.Status == StatusDegraded && response.Status != StatusUnhealthy:
			response.Status = StatusDegraded
		}
	}

	return response
}

// HealthHandler returns a handler for the health endpoint.
func (c *Checker) HealthHandler(render RenderFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		render(ctx, http.StatusOK, c.Health())
	}
}

// ReadinessHandler returns a handler for the readiness endpoint. It answers
// 503 when the service is unhealthy.
func (c *Checker) ReadinessHandler(render RenderFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		response := c.Readiness()

		status := http.StatusOK
		if response.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		render(ctx, status, response)
	}
}

// LivenessHandler answers a plain "ok" without negotiation.
func LivenessHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
