package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
)

// Request модели

// CompleteRequest завершение выдачи
type CompleteRequest struct {
	HubRating *int    `json:"hubRating,omitempty"`
	Feedback  *string `json:"feedback,omitempty"`
}

// CancelRequest отмена бронирования клиентом
type CancelRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// RateRequest оценка клиентом завершённого самовывоза
type RateRequest struct {
	Rating   int     `json:"rating"`
	Feedback *string `json:"feedback,omitempty"`
}

// Response модели

// VehicleInfo данные автомобиля
type VehicleInfo struct {
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Color        *string `json:"color,omitempty"`
	LicensePlate *string `json:"licensePlate,omitempty"`
}

// SlotResponse бронирование слота
type SlotResponse struct {
	ID                       uuid.UUID         `json:"id"`
	HubID                    uuid.UUID         `json:"hubId"`
	CustomerID               uuid.UUID         `json:"customerId"`
	OrderID                  uuid.UUID         `json:"orderId"`
	SlotDate                 string            `json:"slotDate"`
	SlotTime                 string            `json:"slotTime"`
	EstimatedDurationMinutes int               `json:"estimatedDurationMinutes"`
	QueuePosition            int               `json:"queuePosition"`
	Status                   domain.SlotStatus `json:"status"`
	VehicleInfo              *VehicleInfo      `json:"vehicleInfo,omitempty"`
	SpecialInstructions      *string           `json:"specialInstructions,omitempty"`
	ActualStartTime          *time.Time        `json:"actualStartTime,omitempty"`
	ActualEndTime            *time.Time        `json:"actualEndTime,omitempty"`
	CustomerRating           *int              `json:"customerRating,omitempty"`
	HubRating                *int              `json:"hubRating,omitempty"`
	Feedback                 *string           `json:"feedback,omitempty"`
	CancellationReason       *string           `json:"cancellationReason,omitempty"`
	CancelledAt              *time.Time        `json:"cancelledAt,omitempty"`
	CreatedAt                time.Time         `json:"createdAt"`
	UpdatedAt                time.Time         `json:"updatedAt"`
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.PickupSlot) *SlotResponse {
	if s == nil {
		return nil
	}

	resp := &SlotResponse{
		ID:                       s.ID,
		HubID:                    s.HubID,
		CustomerID:               s.CustomerID,
		OrderID:                  s.OrderID,
		SlotDate:                 s.SlotDate.Format(domain.DateFormat),
		SlotTime:                 s.SlotTime.String(),
		EstimatedDurationMinutes: s.EstimatedDurationMinutes,
		QueuePosition:            s.QueuePosition,
		Status:                   s.Status,
		SpecialInstructions:      s.SpecialInstructions,
		ActualStartTime:          s.ActualStartTime,
		ActualEndTime:            s.ActualEndTime,
		CustomerRating:           s.CustomerRating,
		HubRating:                s.HubRating,
		Feedback:                 s.Feedback,
		CancellationReason:       s.CancellationReason,
		CancelledAt:              s.CancelledAt,
		CreatedAt:                s.CreatedAt,
		UpdatedAt:                s.UpdatedAt,
	}

	if s.VehicleInfo != nil {
		resp.VehicleInfo = &VehicleInfo{
			Make:         s.VehicleInfo.Make,
			Model:        s.VehicleInfo.Model,
			Color:        s.VehicleInfo.Color,
			LicensePlate: s.VehicleInfo.LicensePlate,
		}
	}

	return resp
}

// FromDomainSlots конвертирует список слотов
func FromDomainSlots(slots []*domain.PickupSlot) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		result = append(result, *FromDomainSlot(s))
	}
	return result
}
