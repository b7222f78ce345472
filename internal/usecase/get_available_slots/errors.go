package get_available_slots

import "errors"

var (
	// ErrHubNotFound возвращается, когда хаб не найден
	ErrHubNotFound = errors.New("hub not found")

	// ErrSchedulingNotEnabled возвращается, когда у хаба нет включённого расписания
	ErrSchedulingNotEnabled = errors.New("pickup scheduling is not enabled for this hub")

	// ErrInvalidDate возвращается, когда начальная дата в прошлом
	ErrInvalidDate = errors.New("invalid start date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
