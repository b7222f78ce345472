package slot_actions

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/api/handlers"
	"github.com/m04kA/SMC-PickupService/internal/api/middleware"
	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/service/lifecycle"
	"github.com/m04kA/SMC-PickupService/internal/service/lifecycle/models"
)

const (
	msgInvalidSlotID          = "Invalid slot ID"
	msgInvalidRequestBody     = "Invalid request body"
	msgUnauthorized           = "Authentication required."
	msgNotFound               = "Drive-thru booking not found"
	msgForbidden              = "Access denied. You can only manage your own hub bookings."
	msgAlreadyRated           = "You have already rated this pickup"
	msgCancellationClosed     = "Bookings can only be cancelled at least 30 minutes in advance"
	msgConcurrentModification = "Booking was changed by another request, reload and retry"
	msgOrderUpdateFailed      = "Failed to confirm pickup completion"
)

// Handler HTTP обработчики переходов слота:
// POST /slots/{slotId}/notify|arrive|start|complete|no-show|cancel, PUT /slots/{slotId}/rating
type Handler struct {
	service LifecycleService
	logger  Logger
}

func NewHandler(service LifecycleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type action func(ctx context.Context, caller domain.Caller, slotID uuid.UUID, r *http.Request) (*models.SlotResponse, error)

// Notify POST /api/v1/slots/{slotId}/notify
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /slots/{id}/notify", func(ctx context.Context, c domain.Caller, id uuid.UUID, _ *http.Request) (*models.SlotResponse, error) {
		return h.service.NotifyReady(ctx, c, id)
	})
}

// Arrive POST /api/v1/slots/{slotId}/arrive
func (h *Handler) Arrive(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /slots/{id}/arrive", func(ctx context.Context, c domain.Caller, id uuid.UUID, _ *http.Request) (*models.SlotResponse, error) {
		return h.service.MarkArrived(ctx, c, id)
	})
}

// Start POST /api/v1/slots/{slotId}/start
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /slots/{id}/start", func(ctx context.Context, c domain.Caller, id uuid.UUID, _ *http.Request) (*models.SlotResponse, error) {
		return h.service.StartService(ctx, c, id)
	})
}

// NoShow POST /api/v1/slots/{slotId}/no-show
func (h *Handler) NoShow(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /slots/{id}/no-show", func(ctx context.Context, c domain.Caller, id uuid.UUID, _ *http.Request) (*models.SlotResponse, error) {
		return h.service.MarkNoShow(ctx, c, id)
	})
}

// Complete POST /api/v1/slots/{slotId}/complete
// Body (optional): {"hubRating": 5, "feedback": "..."}
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /slots/{id}/complete", func(ctx context.Context, c domain.Caller, id uuid.UUID, r *http.Request) (*models.SlotResponse, error) {
		var req models.CompleteRequest
		if err := decodeOptional(r, &req); err != nil {
			return nil, err
		}
		return h.service.CompleteService(ctx, c, id, &req)
	})
}

// Cancel POST /api/v1/slots/{slotId}/cancel
// Body (optional): {"reason": "..."}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /slots/{id}/cancel", func(ctx context.Context, c domain.Caller, id uuid.UUID, r *http.Request) (*models.SlotResponse, error) {
		var req models.CancelRequest
		if err := decodeOptional(r, &req); err != nil {
			return nil, err
		}
		return h.service.CancelBooking(ctx, c, id, &req)
	})
}

// Rate PUT /api/v1/slots/{slotId}/rating
// Body: {"rating": 5, "feedback": "..."}
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "PUT /slots/{id}/rating", func(ctx context.Context, c domain.Caller, id uuid.UUID, r *http.Request) (*models.SlotResponse, error) {
		var req models.RateRequest
		if err := handlers.DecodeJSON(r, &req); err != nil {
			return nil, errBadBody
		}
		return h.service.RateExperience(ctx, c, id, &req)
	})
}

var errBadBody = errors.New("invalid request body")

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, route string, do action) {
	slotID, err := handlers.PathUUID(r, "slotId")
	if err != nil {
		h.logger.Warn("%s - Invalid slot ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	slot, err := do(r.Context(), caller, slotID, r)
	if err != nil {
		switch {
		case errors.Is(err, errBadBody):
			h.logger.Warn("%s - Invalid request body: slot_id=%s", route, slotID)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, lifecycle.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: slot_id=%s, %v", route, slotID, err)
			handlers.RespondBadRequest(w, reason(err))

		case errors.Is(err, lifecycle.ErrSlotNotFound):
			h.logger.Warn("%s - Slot not found: slot_id=%s", route, slotID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, lifecycle.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: slot_id=%s, user_id=%s", route, slotID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, lifecycle.ErrInvalidTransition):
			h.logger.Warn("%s - Invalid transition: slot_id=%s, %v", route, slotID, err)
			handlers.RespondUnprocessable(w, reason(err))

		case errors.Is(err, lifecycle.ErrAlreadyRated):
			h.logger.Warn("%s - Already rated: slot_id=%s", route, slotID)
			handlers.RespondUnprocessable(w, msgAlreadyRated)

		case errors.Is(err, lifecycle.ErrCancellationWindowClosed):
			h.logger.Warn("%s - Cancellation window closed: slot_id=%s", route, slotID)
			handlers.RespondUnprocessable(w, msgCancellationClosed)

		case errors.Is(err, lifecycle.ErrConcurrentModification):
			h.logger.Warn("%s - Concurrent modification: slot_id=%s", route, slotID)
			handlers.RespondConflict(w, msgConcurrentModification)

		case errors.Is(err, lifecycle.ErrOrderUpdateFailed):
			h.logger.Error("%s - Order update failed: slot_id=%s, error=%v", route, slotID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgOrderUpdateFailed)

		default:
			h.logger.Error("%s - Failed: slot_id=%s, error=%v", route, slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Success: slot_id=%s, status=%s", route, slotID, slot.Status)
	handlers.RespondJSON(w, http.StatusOK, slot)
}

// decodeOptional тело запроса может отсутствовать
func decodeOptional(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := handlers.DecodeJSON(r, dst); err != nil {
		return errBadBody
	}
	return nil
}

// reason последняя часть цепочки ошибки, пригодная для показа клиенту
func reason(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	runes := []rune(msg)
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}
