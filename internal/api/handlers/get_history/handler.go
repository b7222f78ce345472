package get_history

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PickupService/internal/api/handlers"
	"github.com/m04kA/SMC-PickupService/internal/api/middleware"
	"github.com/m04kA/SMC-PickupService/internal/domain"
	getHistory "github.com/m04kA/SMC-PickupService/internal/usecase/get_history"
)

const (
	msgUnauthorized  = "Authentication required."
	msgInvalidFilter = "Invalid history filter"
	msgForbidden     = "Access denied. You can only access your own resources."
)

type Handler struct {
	useCase GetHistoryUseCase
	logger  Logger
}

func NewHandler(useCase GetHistoryUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots/history
// Query params: customerId, hubId, status, startDate, endDate, page, limit (all optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	req, err := parseRequest(r, caller)
	if err != nil {
		h.logger.Warn("GET /slots/history - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getHistory.ErrInvalidInput):
			h.logger.Warn("GET /slots/history - Invalid input: user_id=%s, %v", caller.UserID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getHistory.ErrAccessDenied):
			h.logger.Warn("GET /slots/history - Access denied: user_id=%s", caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /slots/history - Failed to get history: user_id=%s, error=%v", caller.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots/history - History retrieved successfully: user_id=%s, total=%d",
		caller.UserID, result.Pagination.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func parseRequest(r *http.Request, caller domain.Caller) (*getHistory.Request, error) {
	req := &getHistory.Request{Caller: caller}
	var err error

	if req.CustomerID, err = handlers.QueryUUID(r, "customerId"); err != nil {
		return nil, err
	}
	if req.HubID, err = handlers.QueryUUID(r, "hubId"); err != nil {
		return nil, err
	}
	if req.StartDate, err = handlers.QueryDate(r, "startDate"); err != nil {
		return nil, err
	}
	if req.EndDate, err = handlers.QueryDate(r, "endDate"); err != nil {
		return nil, err
	}
	if req.Page, err = handlers.QueryInt(r, "page"); err != nil {
		return nil, err
	}
	if req.Limit, err = handlers.QueryInt(r, "limit"); err != nil {
		return nil, err
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.SlotStatus(raw)
		req.Status = &status
	}

	return req, nil
}
