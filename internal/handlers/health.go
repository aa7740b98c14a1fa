package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stwalsh4118/landregistry/internal/middleware"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
	// HealthCheckTimeout is the timeout for dependency health checks
	HealthCheckTimeout = 2 * time.Second
)

// Dependency states reported by the readiness check.
const (
	stateConnected    = "connected"
	stateDisconnected = "disconnected"
	stateDisabled     = "disabled"
)

// PingFunc checks one backing dependency.
type PingFunc func(ctx context.Context) error

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	startTime time.Time
	pingDB    PingFunc
	pingCache PingFunc
	env       string
	dbDriver  string
}

// NewHealthHandler creates a new HealthHandler. pingCache is nil when no
// cache is configured; the cache is then reported as disabled and does not
// affect readiness.
func NewHealthHandler(pingDB, pingCache PingFunc, env, dbDriver string) *HealthHandler {
	return &HealthHandler{
		pingDB:    pingDB,
		pingCache: pingCache,
		startTime: time.Now(),
		env:       env,
		dbDriver:  dbDriver,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version        string `json:"version"`
	Environment    string `json:"environment"`
	Uptime         string `json:"uptime"`
	DatabaseDriver string `json:"database_driver"`
	CacheEnabled   bool   `json:"cache_enabled"`
}

// Health handles GET /health endpoint.
// This is a basic liveness check that always returns 200 OK.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready endpoint.
// Returns 200 OK if the database and, when configured, the cache answer a
// ping within HealthCheckTimeout, 503 Service Unavailable otherwise.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	resp := ReadyResponse{
		Status:   "ready",
		Database: h.check(c, ctx, "database", h.pingDB),
		Cache:    stateDisabled,
	}
	if h.pingCache != nil {
		resp.Cache = h.check(c, ctx, "cache", h.pingCache)
	}

	status := http.StatusOK
	if resp.Database != stateConnected || resp.Cache == stateDisconnected {
		resp.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (h *HealthHandler) check(c *gin.Context, ctx context.Context, name string, ping PingFunc) string {
	if ping == nil {
		return stateDisconnected
	}
	if err := ping(ctx); err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Error("Health check failed", err, map[string]interface{}{
				"dependency": name,
				"timeout":    HealthCheckTimeout.String(),
			})
		}
		return stateDisconnected
	}
	return stateConnected
}

// Info handles GET /api/v1/info endpoint.
// Returns API metadata including version, environment, and uptime.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Version:        APIVersion,
		Environment:    h.env,
		Uptime:         formatUptime(time.Since(h.startTime)),
		DatabaseDriver: h.dbDriver,
		CacheEnabled:   h.pingCache != nil,
	})
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
