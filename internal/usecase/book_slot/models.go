package book_slot

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/pkg/types"
)

// Request модель запроса на бронирование слота
type Request struct {
	Caller              domain.Caller
	HubID               uuid.UUID
	OrderID             uuid.UUID
	Date                time.Time        // Дата слота (без времени)
	Time                types.TimeString // Время начала слота
	VehicleInfo         *domain.VehicleInfo
	SpecialInstructions *string
}
