package book_slot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PickupService/internal/api/handlers"
	"github.com/m04kA/SMC-PickupService/internal/api/middleware"
	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/service/lifecycle/models"
	bookSlot "github.com/m04kA/SMC-PickupService/internal/usecase/book_slot"
	"github.com/m04kA/SMC-PickupService/pkg/logger"
)

type stubUseCase struct {
	got  *bookSlot.Request
	resp *models.SlotResponse
	err  error
}

func (s *stubUseCase) Execute(ctx context.Context, req *bookSlot.Request) (*models.SlotResponse, error) {
	s.got = req
	return s.resp, s.err
}

func serve(t *testing.T, uc *stubUseCase, userID uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := middleware.Auth(http.HandlerFunc(NewHandler(uc, logger.NewNop()).Handle))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/slots", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderUserID, userID.String())
	req.Header.Set(middleware.HeaderUserRole, string(domain.RoleCustomer))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func bookBody(hubID, orderID uuid.UUID, date, at string) string {
	return fmt.Sprintf(`{"hubId":%q,"orderId":%q,"date":%q,"time":%q,"vehicleInfo":{"make":"Kia","model":"Rio"}}`,
		hubID, orderID, date, at)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandler_Created(t *testing.T) {
	userID, hubID, orderID := uuid.New(), uuid.New(), uuid.New()
	uc := &stubUseCase{resp: &models.SlotResponse{ID: uuid.New(), HubID: hubID, QueuePosition: 1, Status: domain.StatusScheduled}}

	rec := serve(t, uc, userID, bookBody(hubID, orderID, "2025-03-03", "09:20"))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, userID, uc.got.Caller.UserID)
	assert.Equal(t, domain.RoleCustomer, uc.got.Caller.Role)
	assert.Equal(t, hubID, uc.got.HubID)
	assert.Equal(t, "2025-03-03", uc.got.Date.Format(domain.DateFormat))
	assert.Equal(t, "09:20", uc.got.Time.String())
	require.NotNil(t, uc.got.VehicleInfo)
	assert.Equal(t, "Kia", uc.got.VehicleInfo.Make)

	var resp models.SlotResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.QueuePosition)
	assert.Equal(t, domain.StatusScheduled, resp.Status)
}

func TestHandler_BadRequests(t *testing.T) {
	hubID, orderID := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty body", "", msgInvalidRequestBody},
		{"unknown field", `{"hubId":"` + hubID.String() + `","extra":1}`, msgInvalidRequestBody},
		{"bad date", bookBody(hubID, orderID, "03.03.2025", "09:00"), msgInvalidDate},
		{"bad time", bookBody(hubID, orderID, "2025-03-03", "9am"), msgInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(t, uc, uuid.New(), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec).Message)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{bookSlot.ErrHubNotFound, http.StatusNotFound, msgHubNotFound},
		{bookSlot.ErrSchedulingNotEnabled, http.StatusNotFound, msgSchedulingNotEnabled},
		{bookSlot.ErrOrderNotFound, http.StatusNotFound, msgOrderNotEligible},
		{fmt.Errorf("%w: wrong customer", bookSlot.ErrOrderNotEligible), http.StatusNotFound, msgOrderNotEligible},
		{bookSlot.ErrDuplicateBooking, http.StatusConflict, msgDuplicateBooking},
		{bookSlot.ErrSlotFull, http.StatusConflict, msgSlotFull},
		{bookSlot.ErrSlotInPast, http.StatusBadRequest, msgSlotInPast},
		{bookSlot.ErrDateTooFarInFuture, http.StatusBadRequest, msgDateTooFar},
		{bookSlot.ErrHubClosed, http.StatusBadRequest, msgHubClosed},
		{bookSlot.ErrInvalidTimeSlot, http.StatusBadRequest, msgInvalidTimeSlot},
		{bookSlot.ErrVehicleInfoRequired, http.StatusBadRequest, msgVehicleInfoRequired},
		{fmt.Errorf("%w: db down", bookSlot.ErrInternal), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			uc := &stubUseCase{err: tt.err}
			rec := serve(t, uc, uuid.New(), bookBody(uuid.New(), uuid.New(), "2025-03-03", "09:00"))

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestHandler_RequiresIdentity(t *testing.T) {
	h := middleware.Auth(http.HandlerFunc(NewHandler(&stubUseCase{}, logger.NewNop()).Handle))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/slots", strings.NewReader("{}"))
	req.Header.Set(middleware.HeaderUserID, uuid.New().String())
	req.Header.Set(middleware.HeaderUserRole, "guest")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
