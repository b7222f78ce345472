package get_available_slots

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-PickupService/internal/usecase/get_available_slots"
)

// SlotResponse момент начала слота с загрузкой
type SlotResponse struct {
	Time               string `json:"time"`
	IsAvailable        bool   `json:"isAvailable"`
	ConcurrentBookings int    `json:"concurrentBookings"`
	MaxConcurrent      int    `json:"maxConcurrent"`
}

// DayResponse слоты на одну дату
type DayResponse struct {
	Date    string         `json:"date"`
	Weekday string         `json:"weekday"`
	Slots   []SlotResponse `json:"slots"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	HubID uuid.UUID     `json:"hubId"`
	Days  []DayResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	result := &AvailableSlotsResponse{
		HubID: resp.HubID,
		Days:  make([]DayResponse, 0, len(resp.Days)),
	}
	for _, d := range resp.Days {
		day := DayResponse{
			Date:    d.Date.Format(domain.DateFormat),
			Weekday: d.Weekday,
			Slots:   make([]SlotResponse, 0, len(d.Slots)),
		}
		for _, s := range d.Slots {
			day.Slots = append(day.Slots, SlotResponse{
				Time:               s.Time.String(),
				IsAvailable:        s.IsAvailable,
				ConcurrentBookings: s.ConcurrentBookings,
				MaxConcurrent:      s.MaxConcurrent,
			})
		}
		result.Days = append(result.Days, day)
	}
	return result
}
