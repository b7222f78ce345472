package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrDuplicateOrder возвращается, когда у заказа уже есть неотменённый слот
	ErrDuplicateOrder = errors.New("slot.repository: order already has an active slot")

	// ErrConcurrentModification возвращается, когда слот изменён параллельно (версия не совпала)
	ErrConcurrentModification = errors.New("slot.repository: slot was modified concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации JSON полей
	ErrEncode = errors.New("slot.repository: failed to encode json column")
)
