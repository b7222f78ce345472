package domain

// Значения конфигурации по умолчанию
const (
	DefaultSlotDurationMinutes = 15
	DefaultBufferMinutes       = 5
	DefaultConcurrentCapacity  = 2
	DefaultMaxAdvanceDays      = 7
	DefaultAvailabilityDays    = 7
	DefaultCancellationCutoff  = 30 // минут до начала слота
)

// Ограничения бизнес-валидации
const (
	MinSlotDurationMinutes       = 5
	MaxSlotDurationMinutes       = 60
	MinBufferMinutes             = 0
	MaxBufferMinutes             = 30
	MinConcurrentCapacity        = 1
	MaxConcurrentCapacity        = 10
	MinAdvanceDays               = 1
	MaxAdvanceDays               = 30
	MaxAvailabilityDays          = 30
	MaxSpecialInstructionsLength = 500
	MaxFeedbackLength            = 1000
	MaxCancellationReasonLength  = 500
	MinRating                    = 1
	MaxRating                    = 5
	DefaultHistoryLimit          = 20
	MaxHistoryLimit              = 100
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses статусы, не занимающие емкость корзины
var InactiveStatuses = []SlotStatus{
	StatusCancelled,
	StatusNoShow,
}

// QueueStatuses статусы, отображаемые в очереди хаба
var QueueStatuses = []SlotStatus{
	StatusScheduled,
	StatusCustomerNotified,
	StatusCustomerArrived,
	StatusInProgress,
}

// Статусы заказа во внешнем сервисе заказов
const (
	OrderStatusConfirmed      = "confirmed"
	OrderStatusReadyForPickup = "ready_for_pickup"
	OrderStatusPickedUp       = "picked_up"
)

// EligibleOrderStatuses статусы заказа, допускающие бронирование самовывоза
var EligibleOrderStatuses = []string{
	OrderStatusConfirmed,
	OrderStatusReadyForPickup,
}

// IsOrderEligible проверяет, можно ли забронировать самовывоз для заказа в этом статусе
func IsOrderEligible(status string) bool {
	for _, s := range EligibleOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}
