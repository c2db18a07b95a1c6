package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/stock-market-api/internal/api/response"
	"github.com/ndewijer/stock-market-api/internal/model"
	"github.com/ndewijer/stock-market-api/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// Health checks the health of the system and data source connectivity
//
// Endpoint: GET /health
// Response: 200 OK with model.HealthStatus
// Error: 503 Service Unavailable if the data source cannot be reached
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	source := h.systemService.SourceKind()

	if err := h.systemService.CheckHealth(r.Context()); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("Health check failed")
		response.RespondJSON(w, http.StatusServiceUnavailable, model.HealthStatus{
			Status:   "unhealthy",
			Source:   source,
			Database: "disconnected",
			Error:    "data source unreachable",
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, model.HealthStatus{
		Status:   "healthy",
		Source:   source,
		Database: "connected",
	})
}
