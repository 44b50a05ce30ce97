package http

import (
	"net/http"

	"github.com/go-chi/render"

	"claimsight/internal/services"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	service *services.HealthService
}

// NewHealthHandler creates the handler.
func NewHealthHandler(service *services.HealthService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Check handles GET /api/health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.service.Check())
}
