package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	HubID     uuid.UUID
	StartDate *time.Time // nil = сегодня
	Days      int        // 0 = значение по умолчанию
}

// Response календарь доступных слотов
type Response struct {
	HubID uuid.UUID
	Days  []Day // Только дни, в которых остались слоты
}

// Day слоты на одну дату
type Day struct {
	Date    time.Time
	Weekday string
	Slots   []Slot
}

// Slot момент начала слота с загрузкой
type Slot struct {
	Time               types.TimeString
	IsAvailable        bool
	ConcurrentBookings int
	MaxConcurrent      int
}
