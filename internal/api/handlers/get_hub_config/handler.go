package get_hub_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PickupService/internal/api/handlers"
	"github.com/m04kA/SMC-PickupService/internal/service/config"
)

const (
	msgInvalidHubID   = "Invalid hub ID"
	msgConfigNotFound = "Drive-thru not configured for this hub"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/hubs/{hubId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hubID, err := handlers.PathUUID(r, "hubId")
	if err != nil {
		h.logger.Warn("GET /hubs/{id}/config - Invalid hub ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHubID)
		return
	}

	cfg, err := h.service.GetHubConfig(r.Context(), hubID)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			h.logger.Warn("GET /hubs/{id}/config - Config not found: hub_id=%s", hubID)
			handlers.RespondNotFound(w, msgConfigNotFound)
			return
		}
		h.logger.Error("GET /hubs/{id}/config - Failed to get config: hub_id=%s, error=%v", hubID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /hubs/{id}/config - Config retrieved successfully: hub_id=%s", hubID)
	handlers.RespondJSON(w, http.StatusOK, cfg)
}
