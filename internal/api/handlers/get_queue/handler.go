package get_queue

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PickupService/internal/api/handlers"
	getQueue "github.com/m04kA/SMC-PickupService/internal/usecase/get_queue"
)

const (
	msgInvalidHubID = "Invalid hub ID"
	msgInvalidDate  = "Invalid date format, expected YYYY-MM-DD"
	msgHubNotFound  = "Hub not found"
)

type Handler struct {
	useCase GetQueueUseCase
	logger  Logger
}

func NewHandler(useCase GetQueueUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/hubs/{hubId}/queue
// Query params: date (optional, YYYY-MM-DD, default today)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hubID, err := handlers.PathUUID(r, "hubId")
	if err != nil {
		h.logger.Warn("GET /hubs/{id}/queue - Invalid hub ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHubID)
		return
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /hubs/{id}/queue - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getQueue.Request{HubID: hubID, Date: date})
	if err != nil {
		if errors.Is(err, getQueue.ErrHubNotFound) {
			h.logger.Warn("GET /hubs/{id}/queue - Hub not found: hub_id=%s", hubID)
			handlers.RespondNotFound(w, msgHubNotFound)
			return
		}
		h.logger.Error("GET /hubs/{id}/queue - Failed to get queue: hub_id=%s, error=%v", hubID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /hubs/{id}/queue - Queue retrieved successfully: hub_id=%s, active=%d", hubID, result.Stats.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
