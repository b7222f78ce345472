package book_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PickupService/internal/api/handlers"
	"github.com/m04kA/SMC-PickupService/internal/api/middleware"
	bookSlot "github.com/m04kA/SMC-PickupService/internal/usecase/book_slot"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

const (
	msgInvalidRequestBody   = "Invalid request body"
	msgInvalidDate          = "Invalid date format, expected YYYY-MM-DD"
	msgInvalidTime          = "Invalid time format, expected HH:MM"
	msgUnauthorized         = "Authentication required."
	msgHubNotFound          = "Hub not found"
	msgSchedulingNotEnabled = "Drive-thru service not available for this hub"
	msgOrderNotEligible     = "Order not found or not eligible for drive-thru pickup"
	msgDuplicateBooking     = "Order already has a drive-thru booking"
	msgSlotInPast           = "Cannot book past time slots"
	msgDateTooFar           = "Date is beyond the hub's advance booking window"
	msgHubClosed            = "Hub is closed on the selected date"
	msgInvalidTimeSlot      = "Time does not match an available pickup slot"
	msgVehicleInfoRequired  = "Vehicle information is required for drive-thru booking"
	msgSlotFull             = "Time slot is fully booked"
)

type Handler struct {
	useCase BookSlotUseCase
	logger  Logger
}

func NewHandler(useCase BookSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req BookSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(caller)
	if err != nil {
		h.logger.Warn("POST /slots - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	slot, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookSlot.ErrInvalidInput):
			h.logger.Warn("POST /slots - Invalid input: user_id=%s, %v", caller.UserID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, bookSlot.ErrHubNotFound):
			h.logger.Warn("POST /slots - Hub not found: hub_id=%s", req.HubID)
			handlers.RespondNotFound(w, msgHubNotFound)

		case errors.Is(err, bookSlot.ErrSchedulingNotEnabled):
			h.logger.Warn("POST /slots - Scheduling not enabled: hub_id=%s", req.HubID)
			handlers.RespondNotFound(w, msgSchedulingNotEnabled)

		case errors.Is(err, bookSlot.ErrOrderNotFound), errors.Is(err, bookSlot.ErrOrderNotEligible):
			h.logger.Warn("POST /slots - Order not eligible: order_id=%s, user_id=%s", req.OrderID, caller.UserID)
			handlers.RespondNotFound(w, msgOrderNotEligible)

		case errors.Is(err, bookSlot.ErrDuplicateBooking):
			h.logger.Warn("POST /slots - Duplicate booking: order_id=%s", req.OrderID)
			handlers.RespondConflict(w, msgDuplicateBooking)

		case errors.Is(err, bookSlot.ErrSlotFull):
			h.logger.Warn("POST /slots - Slot full: hub_id=%s, date=%s, time=%s", req.HubID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotFull)

		case errors.Is(err, bookSlot.ErrSlotInPast):
			h.logger.Warn("POST /slots - Slot in past: date=%s, time=%s", req.Date, req.Time)
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, bookSlot.ErrDateTooFarInFuture):
			h.logger.Warn("POST /slots - Date too far in future: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, bookSlot.ErrHubClosed):
			h.logger.Warn("POST /slots - Hub closed: hub_id=%s, date=%s", req.HubID, req.Date)
			handlers.RespondBadRequest(w, msgHubClosed)

		case errors.Is(err, bookSlot.ErrInvalidTimeSlot):
			h.logger.Warn("POST /slots - Invalid time slot: hub_id=%s, time=%s", req.HubID, req.Time)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, bookSlot.ErrVehicleInfoRequired):
			h.logger.Warn("POST /slots - Vehicle info required: hub_id=%s", req.HubID)
			handlers.RespondBadRequest(w, msgVehicleInfoRequired)

		default:
			h.logger.Error("POST /slots - Failed to book slot: user_id=%s, hub_id=%s, error=%v",
				caller.UserID, req.HubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots - Slot booked successfully: slot_id=%s, hub_id=%s, queue_position=%d",
		slot.ID, slot.HubID, slot.QueuePosition)
	handlers.RespondJSON(w, http.StatusCreated, slot)
}
