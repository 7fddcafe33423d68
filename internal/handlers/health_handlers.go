package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// Pinger is implemented by the database pool, the cache and the archiver.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db        Pinger
	cache     Pinger
	storage   Pinger
	version   string
	startedAt time.Time
	timeout   time.Duration
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(db, cache, storage Pinger, version string) *HealthHandlers {
	return &HealthHandlers{
		db:        db,
		cache:     cache,
		storage:   storage,
		version:   version,
		startedAt: time.Now(),
		timeout:   2 * time.Second,
	}
}

func (h *HealthHandlers) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.HealthCheck)
	e.GET("/health/live", h.LivenessCheck)
	e.GET("/health/ready", h.ReadinessCheck)
	e.GET("/health/detailed", h.DetailedHealthCheck)
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

type componentCheck struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// HealthCheck reports every dependency; the database and cache being down
// degrades the status, a missing archive store does not.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	checks := h.runChecks(c.Request().Context())
	health := &HealthStatus{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string, len(checks)),
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		Version:   h.version,
	}
	for name, check := range checks {
		health.Services[name] = check.Status
		if check.Status != statusHealthy && name != "storage" {
			health.Status = statusDegraded
		}
	}
	return c.JSON(statusCodeFor(health.Status), health)
}

// LivenessCheck determines if the application is running (basic liveness probe)
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck only requires the database; the cache falls back to reads
// from PostgreSQL.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	if check := h.check(c.Request().Context(), h.db); check.Status != statusHealthy {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

// DetailedHealthCheck provides detailed health information
func (h *HealthHandlers) DetailedHealthCheck(c echo.Context) error {
	checks := h.runChecks(c.Request().Context())
	overall := statusHealthy
	for name, check := range checks {
		if check.Status != statusHealthy && name != "storage" {
			overall = statusDegraded
		}
	}
	return c.JSON(statusCodeFor(overall), map[string]interface{}{
		"overall_status": overall,
		"checks":         checks,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"version":        h.version,
		"goroutines":     runtime.NumGoroutine(),
	})
}

func (h *HealthHandlers) runChecks(ctx context.Context) map[string]componentCheck {
	return map[string]componentCheck{
		"database": h.check(ctx, h.db),
		"redis":    h.check(ctx, h.cache),
		"storage":  h.check(ctx, h.storage),
	}
}

func (h *HealthHandlers) check(ctx context.Context, p Pinger) componentCheck {
	if p == nil {
		return componentCheck{Status: statusUnhealthy, Message: "not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	check := componentCheck{Status: statusHealthy, LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		check.Status = statusUnhealthy
		check.Message = err.Error()
	}
	return check
}

func statusCodeFor(status string) int {
	if status == statusDegraded {
		return http.StatusPartialContent
	}
	return http.StatusOK
}
