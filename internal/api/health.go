// Package api provides the HTTP surface of the belnav server.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/ws"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	svc       GraphBackend
	sessions  SessionRegistry
	hub       *ws.Hub
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
func NewHealthHandler(svc GraphBackend, sessions SessionRegistry, hub *ws.Hub, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		svc:       svc,
		sessions:  sessions,
		hub:       hub,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

// healthResponse is the JSON payload returned by the liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Networks      int     `json:"networks"`
	Sessions      int     `json:"sessions"`
	Viewers       int     `json:"viewers"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       h.version,
		Networks:      len(h.svc.Networks()),
		Sessions:      h.sessions.Count(),
		Viewers:       h.hub.ClientCount(),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// Readiness handles GET /readyz. The server is ready once the data directory
// has been loaded, even if it held no networks.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"catalog": "ok"}
	status := "ready"
	statusCode := http.StatusOK

	if h.svc.Generation() == 0 {
		checks["catalog"] = "not_loaded"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, readinessResponse{Status: status, Checks: checks})
}
