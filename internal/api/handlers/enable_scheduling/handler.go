package enable_scheduling

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PickupService/internal/api/handlers"
	"github.com/m04kA/SMC-PickupService/internal/api/middleware"
	"github.com/m04kA/SMC-PickupService/internal/service/config"
	"github.com/m04kA/SMC-PickupService/internal/service/config/models"
)

const (
	msgInvalidHubID       = "Invalid hub ID"
	msgInvalidRequestBody = "Invalid request body"
	msgUnauthorized       = "Authentication required."
	msgForbidden          = "Access denied. You can only configure your own hubs."
	msgHubNotFound        = "Hub not found"
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

// Handle PUT /api/v1/hubs/{hubId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hubID, err := handlers.PathUUID(r, "hubId")
	if err != nil {
		h.logger.Warn("PUT /hubs/{id}/config - Invalid hub ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHubID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.EnableSchedulingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /hubs/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Caller = caller
	req.HubID = hubID

	cfg, err := h.service.EnableScheduling(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, config.ErrInvalidInput):
			h.logger.Warn("PUT /hubs/{id}/config - Invalid settings: hub_id=%s, %v", hubID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, config.ErrAccessDenied):
			h.logger.Warn("PUT /hubs/{id}/config - Access denied: hub_id=%s, user_id=%s", hubID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, config.ErrHubNotFound):
			h.logger.Warn("PUT /hubs/{id}/config - Hub not found: hub_id=%s", hubID)
			handlers.RespondNotFound(w, msgHubNotFound)

		default:
			h.logger.Error("PUT /hubs/{id}/config - Failed to enable scheduling: hub_id=%s, error=%v", hubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /hubs/{id}/config - Drive-thru service enabled: hub_id=%s, user_id=%s", hubID, caller.UserID)
	handlers.RespondJSON(w, http.StatusOK, cfg)
}
