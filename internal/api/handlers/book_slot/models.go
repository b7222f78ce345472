package book_slot

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	bookSlot "github.com/m04kA/SMC-PickupService/internal/usecase/book_slot"
	"github.com/m04kA/SMC-PickupService/pkg/types"
)

// VehicleInfoRequest данные автомобиля
type VehicleInfoRequest struct {
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Color        *string `json:"color,omitempty"`
	LicensePlate *string `json:"licensePlate,omitempty"`
}

// BookSlotRequest HTTP request model
type BookSlotRequest struct {
	HubID               uuid.UUID           `json:"hubId"`
	OrderID             uuid.UUID           `json:"orderId"`
	Date                string              `json:"date"` // "2025-10-15"
	Time                string              `json:"time"` // "10:00"
	VehicleInfo         *VehicleInfoRequest `json:"vehicleInfo,omitempty"`
	SpecialInstructions *string             `json:"specialInstructions,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты и времени)
func (r *BookSlotRequest) ToUseCaseRequest(caller domain.Caller) (*bookSlot.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	slotTime, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, errInvalidTime
	}

	req := &bookSlot.Request{
		Caller:              caller,
		HubID:               r.HubID,
		OrderID:             r.OrderID,
		Date:                date,
		Time:                slotTime,
		SpecialInstructions: r.SpecialInstructions,
	}
	if r.VehicleInfo != nil {
		req.VehicleInfo = &domain.VehicleInfo{
			Make:         r.VehicleInfo.Make,
			Model:        r.VehicleInfo.Model,
			Color:        r.VehicleInfo.Color,
			LicensePlate: r.VehicleInfo.LicensePlate,
		}
	}
	return req, nil
}
