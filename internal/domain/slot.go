package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/pkg/types"
)

// SlotStatus статус бронирования слота самовывоза
type SlotStatus string

const (
	StatusScheduled        SlotStatus = "scheduled"
	StatusCustomerNotified SlotStatus = "customer_notified"
	StatusCustomerArrived  SlotStatus = "customer_arrived"
	StatusInProgress       SlotStatus = "in_progress"
	StatusCompleted        SlotStatus = "completed"
	StatusCancelled        SlotStatus = "cancelled"
	StatusNoShow           SlotStatus = "no_show"
)

// AllStatuses все допустимые статусы
var AllStatuses = []SlotStatus{
	StatusScheduled,
	StatusCustomerNotified,
	StatusCustomerArrived,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ParseSlotStatus проверяет строку и возвращает статус
func ParseSlotStatus(s string) (SlotStatus, bool) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// IsTerminal true для завершённых, отменённых и неявок
func (s SlotStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// OccupiesCapacity true, если слот учитывается в лимите одновременных бронирований
func (s SlotStatus) OccupiesCapacity() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// VehicleInfo данные автомобиля клиента
type VehicleInfo struct {
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Color        *string `json:"color,omitempty"`
	LicensePlate *string `json:"license_plate,omitempty"`
}

// IsComplete проверяет наличие марки и модели
func (v *VehicleInfo) IsComplete() bool {
	return v != nil && v.Make != "" && v.Model != ""
}

// PickupSlot бронирование слота самовывоза.
// Записи никогда не удаляются, только меняют статус.
type PickupSlot struct {
	ID         uuid.UUID
	HubID      uuid.UUID
	CustomerID uuid.UUID
	OrderID    uuid.UUID

	SlotDate                 time.Time
	SlotTime                 types.TimeString
	EstimatedDurationMinutes int
	QueuePosition            int
	Status                   SlotStatus

	VehicleInfo         *VehicleInfo
	SpecialInstructions *string

	ActualStartTime *time.Time
	ActualEndTime   *time.Time

	CustomerRating *int
	HubRating      *int
	Feedback       *string

	CancellationReason *string
	CancelledAt        *time.Time

	// Version счётчик для оптимистичной блокировки
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Bucket ключ емкости, к которому относится слот
func (s *PickupSlot) Bucket() Bucket {
	return Bucket{HubID: s.HubID, Date: DateOnly(s.SlotDate), Time: s.SlotTime}
}

// StartsAt момент начала слота в заданной локации
func (s *PickupSlot) StartsAt(loc *time.Location) time.Time {
	return s.SlotTime.OnDate(s.SlotDate, loc)
}

// IsRated true, если клиент уже оценил самовывоз
func (s *PickupSlot) IsRated() bool {
	return s.CustomerRating != nil
}

// Bucket набор слотов с одинаковыми (hub, date, time), на который действует общий лимит
type Bucket struct {
	HubID uuid.UUID
	Date  time.Time
	Time  types.TimeString
}

// Key строковый ключ корзины (используется для advisory lock и in-memory индексов)
func (b Bucket) Key() string {
	return b.HubID.String() + "/" + b.Date.Format(DateFormat) + "/" + b.Time.String()
}

// DateOnly обнуляет время, сохраняя календарную дату
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LastBookableDate последняя дата горизонта бронирования: сегодня и ещё maxAdvanceDays-1 дней
func LastBookableDate(now time.Time, maxAdvanceDays int) time.Time {
	return DateOnly(now).AddDate(0, 0, maxAdvanceDays-1)
}
