package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PickupService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-PickupService/internal/usecase/get_available_slots"
)

const (
	msgInvalidHubID         = "Invalid hub ID"
	msgInvalidDate          = "Invalid date format, expected YYYY-MM-DD"
	msgInvalidDays          = "Days must be a number between 1 and 30"
	msgDateInPast           = "Start date cannot be in the past"
	msgHubNotFound          = "Hub not found"
	msgSchedulingNotEnabled = "Drive-thru service not available for this hub"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/hubs/{hubId}/slots
// Query params: date (optional, YYYY-MM-DD), days (optional, 1-30)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hubID, err := handlers.PathUUID(r, "hubId")
	if err != nil {
		h.logger.Warn("GET /hubs/{id}/slots - Invalid hub ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHubID)
		return
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /hubs/{id}/slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	days, err := handlers.QueryInt(r, "days")
	if err != nil {
		h.logger.Warn("GET /hubs/{id}/slots - Invalid days: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDays)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		HubID:     hubID,
		StartDate: date,
		Days:      days,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /hubs/{id}/slots - Invalid input: hub_id=%s, %v", hubID, err)
			handlers.RespondBadRequest(w, msgInvalidDays)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /hubs/{id}/slots - Date in past: hub_id=%s", hubID)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrHubNotFound):
			h.logger.Warn("GET /hubs/{id}/slots - Hub not found: hub_id=%s", hubID)
			handlers.RespondNotFound(w, msgHubNotFound)

		case errors.Is(err, getAvailableSlots.ErrSchedulingNotEnabled):
			h.logger.Warn("GET /hubs/{id}/slots - Scheduling not enabled: hub_id=%s", hubID)
			handlers.RespondNotFound(w, msgSchedulingNotEnabled)

		default:
			h.logger.Error("GET /hubs/{id}/slots - Failed to get slots: hub_id=%s, error=%v", hubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /hubs/{id}/slots - Slots retrieved successfully: hub_id=%s, days_count=%d", hubID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
