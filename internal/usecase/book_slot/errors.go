package book_slot

import "errors"

var (
	// ErrHubNotFound возвращается, когда хаб не найден
	ErrHubNotFound = errors.New("hub not found")

	// ErrSchedulingNotEnabled возвращается, когда у хаба нет включённого расписания
	ErrSchedulingNotEnabled = errors.New("pickup scheduling is not enabled for this hub")

	// ErrOrderNotFound возвращается, когда заказ не найден
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderNotEligible возвращается, когда заказ чужой или не готов к самовывозу
	ErrOrderNotEligible = errors.New("order is not eligible for pickup")

	// ErrDuplicateBooking возвращается, когда у заказа уже есть активный слот
	ErrDuplicateBooking = errors.New("order already has an active pickup slot")

	// ErrSlotInPast возвращается, когда начало слота уже прошло
	ErrSlotInPast = errors.New("cannot book a slot in the past")

	// ErrDateTooFarInFuture возвращается, когда дата дальше горизонта бронирования хаба
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrHubClosed возвращается, когда хаб не работает в указанный день
	ErrHubClosed = errors.New("hub is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает с началом слота
	ErrInvalidTimeSlot = errors.New("time does not match a pickup slot")

	// ErrVehicleInfoRequired возвращается, когда хаб требует данные автомобиля
	ErrVehicleInfoRequired = errors.New("vehicle information is required")

	// ErrSlotFull возвращается, когда в корзине не осталось мест
	ErrSlotFull = errors.New("time slot is fully booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
