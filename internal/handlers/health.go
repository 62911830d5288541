package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/tc108/internal/form"
	"github.com/stwalsh4118/tc108/internal/logger"
	"github.com/stwalsh4118/tc108/internal/middleware"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
	// FormName identifies the form served by the API
	FormName = "TC108"
	// HealthCheckTimeout is the timeout for readiness checks
	HealthCheckTimeout = 2 * time.Second
)

// FormStatus is the part of the form service the health endpoints read.
type FormStatus interface {
	Ready(ctx context.Context) error
	Rules(ctx context.Context) []form.Rule
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	checker    FormStatus
	startTime  time.Time
	env        string
	importMode string
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(checker FormStatus, env, importMode string) *HealthHandler {
	return &HealthHandler{
		checker:    checker,
		startTime:  time.Now(),
		env:        env,
		importMode: importMode,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status string `json:"status"`
	Form   string `json:"form"`
	Rules  int    `json:"rules"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string `json:"version"`
	Form        string `json:"form"`
	Environment string `json:"environment"`
	ImportMode  string `json:"import_mode"`
	Rules       int    `json:"rules"`
	Uptime      string `json:"uptime"`
}

// Health handles GET /health endpoint.
// This is a basic health check that always returns 200 OK.
// It does not check any dependencies and is used for basic liveness checks.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready endpoint.
// Returns 200 OK with the number of conditional rules once the form can
// validate, 503 Service Unavailable otherwise.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	if err := h.checker.Ready(ctx); err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Error("Readiness check failed", err, logger.Fields{
				"timeout": HealthCheckTimeout.String(),
			})
		}

		c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Status: "not_ready",
			Form:   "unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, ReadyResponse{
		Status: "ready",
		Form:   "loaded",
		Rules:  len(h.checker.Rules(ctx)),
	})
}

// Info handles GET /api/v1/info endpoint.
// Returns API metadata including version, environment, import policy and uptime.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Form:        FormName,
		Environment: h.env,
		ImportMode:  h.importMode,
		Rules:       len(h.checker.Rules(c.Request.Context())),
		Uptime:      formatUptime(time.Since(h.startTime)),
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
