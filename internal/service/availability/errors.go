package availability

import "errors"

var (
	// ErrSlotFull возвращается, когда в корзине не осталось мест
	ErrSlotFull = errors.New("availability: time slot is fully booked")

	// ErrNotInTransaction возвращается, если резервирование вызвано вне транзакции
	ErrNotInTransaction = errors.New("availability: reserve must run inside a transaction")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
