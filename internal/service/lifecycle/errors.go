package lifecycle

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("lifecycle: slot not found")

	// ErrAccessDenied возвращается, когда у вызывающего нет прав на переход
	ErrAccessDenied = errors.New("lifecycle: access denied")

	// ErrInvalidTransition возвращается, когда переход не разрешён из текущего статуса
	ErrInvalidTransition = errors.New("lifecycle: invalid status transition")

	// ErrAlreadyRated возвращается при повторной оценке
	ErrAlreadyRated = errors.New("lifecycle: pickup already rated")

	// ErrCancellationWindowClosed возвращается, когда до начала слота осталось меньше допустимого
	ErrCancellationWindowClosed = errors.New("lifecycle: cancellation window closed")

	// ErrConcurrentModification возвращается, когда слот изменён параллельным запросом
	ErrConcurrentModification = errors.New("lifecycle: slot was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("lifecycle: invalid input data")

	// ErrOrderUpdateFailed возвращается, если сервис заказов недоступен и заказ нельзя перевести в новый статус
	ErrOrderUpdateFailed = errors.New("lifecycle: failed to update order status")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("lifecycle: internal error")
)
