package disable_scheduling

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PickupService/internal/api/handlers"
	"github.com/m04kA/SMC-PickupService/internal/api/middleware"
	"github.com/m04kA/SMC-PickupService/internal/service/config"
)

const (
	msgInvalidHubID   = "Invalid hub ID"
	msgUnauthorized   = "Authentication required."
	msgForbidden      = "Access denied. You can only configure your own hubs."
	msgHubNotFound    = "Hub not found"
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

// Handle DELETE /api/v1/hubs/{hubId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hubID, err := handlers.PathUUID(r, "hubId")
	if err != nil {
		h.logger.Warn("DELETE /hubs/{id}/config - Invalid hub ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHubID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	if err := h.service.DisableScheduling(r.Context(), caller, hubID); err != nil {
		switch {
		case errors.Is(err, config.ErrAccessDenied):
			h.logger.Warn("DELETE /hubs/{id}/config - Access denied: hub_id=%s, user_id=%s", hubID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, config.ErrHubNotFound):
			h.logger.Warn("DELETE /hubs/{id}/config - Hub not found: hub_id=%s", hubID)
			handlers.RespondNotFound(w, msgHubNotFound)

		case errors.Is(err, config.ErrConfigNotFound):
			h.logger.Warn("DELETE /hubs/{id}/config - Config not found: hub_id=%s", hubID)
			handlers.RespondNotFound(w, msgConfigNotFound)

		default:
			h.logger.Error("DELETE /hubs/{id}/config - Failed to disable scheduling: hub_id=%s, error=%v", hubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /hubs/{id}/config - Drive-thru service disabled: hub_id=%s, user_id=%s", hubID, caller.UserID)
	handlers.RespondNoContent(w)
}
