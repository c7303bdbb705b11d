package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/flavorfusion/internal/middleware"
)

// Prober is the connectivity check behind the health endpoint.
type Prober interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and whether the backend answers.
type HealthHandler struct {
	probe      Prober
	workspaces func() int
}

// NewHealthHandler creates a HealthHandler. workspaces may be nil.
func NewHealthHandler(probe Prober, workspaces func() int) *HealthHandler {
	return &HealthHandler{probe: probe, workspaces: workspaces}
}

// Health handles GET /health. The server itself is alive whenever it
// answers; a down backend is reported but does not fail the check.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Backend: "up"}
	if h.workspaces != nil {
		resp.Workspaces = h.workspaces()
	}
	if err := h.probe.Ping(ctx); err != nil {
		middleware.FromContext(ctx).Warn("Backend health probe failed", "error", err)
		resp.Backend = "down"
	}
	return c.JSON(http.StatusOK, resp)
}
