package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/pkg/types"
)

// ErrInvalidConfig конфигурация хаба нарушает ограничения
var ErrInvalidConfig = errors.New("domain: invalid hub schedule config")

// DaySchedule окно работы на день недели
type DaySchedule struct {
	Open    types.TimeString `json:"open"`
	Close   types.TimeString `json:"close"`
	Enabled bool             `json:"enabled"`
}

// WeeklyHours расписание по дням недели
type WeeklyHours struct {
	Monday    *DaySchedule `json:"monday,omitempty"`
	Tuesday   *DaySchedule `json:"tuesday,omitempty"`
	Wednesday *DaySchedule `json:"wednesday,omitempty"`
	Thursday  *DaySchedule `json:"thursday,omitempty"`
	Friday    *DaySchedule `json:"friday,omitempty"`
	Saturday  *DaySchedule `json:"saturday,omitempty"`
	Sunday    *DaySchedule `json:"sunday,omitempty"`
}

// ForWeekday возвращает окно на день недели, nil если день не настроен
func (w WeeklyHours) ForWeekday(day time.Weekday) *DaySchedule {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return nil
	}
}

// OpenOn возвращает окно работы на дату, если день включён
func (w WeeklyHours) OpenOn(date time.Time) (*DaySchedule, bool) {
	day := w.ForWeekday(date.Weekday())
	if day == nil || !day.Enabled {
		return nil, false
	}
	return day, true
}

func (w WeeklyHours) days() map[string]*DaySchedule {
	return map[string]*DaySchedule{
		"monday":    w.Monday,
		"tuesday":   w.Tuesday,
		"wednesday": w.Wednesday,
		"thursday":  w.Thursday,
		"friday":    w.Friday,
		"saturday":  w.Saturday,
		"sunday":    w.Sunday,
	}
}

// Validate проверяет формат и порядок времени в каждом включённом дне
func (w WeeklyHours) Validate() error {
	for name, day := range w.days() {
		if day == nil {
			continue
		}
		if err := day.Open.Validate(); err != nil {
			return fmt.Errorf("%w: %s open: %v", ErrInvalidConfig, name, err)
		}
		if err := day.Close.Validate(); err != nil {
			return fmt.Errorf("%w: %s close: %v", ErrInvalidConfig, name, err)
		}
		if !day.Open.IsBefore(day.Close) {
			return fmt.Errorf("%w: %s opens at %s after closing at %s", ErrInvalidConfig, name, day.Open, day.Close)
		}
	}
	return nil
}

// NotificationSettings какие уведомления ожидает хаб от внешней рассылки
type NotificationSettings struct {
	CustomerBookingConfirmation bool `json:"customer_booking_confirmation"`
	CustomerOrderReady          bool `json:"customer_order_ready"`
	CustomerArrivalReminder     bool `json:"customer_arrival_reminder"`
	HubNewBooking               bool `json:"hub_new_booking"`
	HubCustomerArrived          bool `json:"hub_customer_arrived"`
}

// HubScheduleConfig настройки расписания самовывоза хаба (одна запись на хаб)
type HubScheduleConfig struct {
	HubID                        uuid.UUID
	IsEnabled                    bool
	WeeklyHours                  WeeklyHours
	SlotDurationMinutes          int
	BufferMinutes                int
	ConcurrentCapacity           int
	MaxAdvanceDays               int
	RequiresVehicleInfo          bool
	AutoConfirm                  bool
	SpecialInstructionsMaxLength int
	NotificationSettings         NotificationSettings
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
}

// PitchMinutes шаг между началами соседних слотов
func (c *HubScheduleConfig) PitchMinutes() int {
	return c.SlotDurationMinutes + c.BufferMinutes
}

// Validate проверяет границы настроек
func (c *HubScheduleConfig) Validate() error {
	switch {
	case c.SlotDurationMinutes < MinSlotDurationMinutes || c.SlotDurationMinutes > MaxSlotDurationMinutes:
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidConfig, MinSlotDurationMinutes, MaxSlotDurationMinutes)
	case c.BufferMinutes < MinBufferMinutes || c.BufferMinutes > MaxBufferMinutes:
		return fmt.Errorf("%w: buffer must be between %d and %d minutes",
			ErrInvalidConfig, MinBufferMinutes, MaxBufferMinutes)
	case c.ConcurrentCapacity < MinConcurrentCapacity || c.ConcurrentCapacity > MaxConcurrentCapacity:
		return fmt.Errorf("%w: concurrent capacity must be between %d and %d",
			ErrInvalidConfig, MinConcurrentCapacity, MaxConcurrentCapacity)
	case c.MaxAdvanceDays < MinAdvanceDays || c.MaxAdvanceDays > MaxAdvanceDays:
		return fmt.Errorf("%w: max advance days must be between %d and %d",
			ErrInvalidConfig, MinAdvanceDays, MaxAdvanceDays)
	case c.SpecialInstructionsMaxLength < 0 || c.SpecialInstructionsMaxLength > MaxSpecialInstructionsLength:
		return fmt.Errorf("%w: special instructions limit must be between 0 and %d",
			ErrInvalidConfig, MaxSpecialInstructionsLength)
	}
	return c.WeeklyHours.Validate()
}

// DefaultWeeklyHours расписание по умолчанию: будни 09-18, суббота 10-16, воскресенье выключено
func DefaultWeeklyHours() WeeklyHours {
	weekday := func() *DaySchedule {
		return &DaySchedule{Open: "09:00", Close: "18:00", Enabled: true}
	}
	return WeeklyHours{
		Monday:    weekday(),
		Tuesday:   weekday(),
		Wednesday: weekday(),
		Thursday:  weekday(),
		Friday:    weekday(),
		Saturday:  &DaySchedule{Open: "10:00", Close: "16:00", Enabled: true},
		Sunday:    &DaySchedule{Open: "10:00", Close: "16:00", Enabled: false},
	}
}

// DefaultNotificationSettings все уведомления включены
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		CustomerBookingConfirmation: true,
		CustomerOrderReady:          true,
		CustomerArrivalReminder:     true,
		HubNewBooking:               true,
		HubCustomerArrived:          true,
	}
}

// NewDefaultHubScheduleConfig конфигурация с настройками по умолчанию (выключена)
func NewDefaultHubScheduleConfig(hubID uuid.UUID) *HubScheduleConfig {
	return &HubScheduleConfig{
		HubID:                        hubID,
		IsEnabled:                    false,
		WeeklyHours:                  DefaultWeeklyHours(),
		SlotDurationMinutes:          DefaultSlotDurationMinutes,
		BufferMinutes:                DefaultBufferMinutes,
		ConcurrentCapacity:           DefaultConcurrentCapacity,
		MaxAdvanceDays:               DefaultMaxAdvanceDays,
		RequiresVehicleInfo:          false,
		AutoConfirm:                  true,
		SpecialInstructionsMaxLength: MaxSpecialInstructionsLength,
		NotificationSettings:         DefaultNotificationSettings(),
	}
}
