package hubservice

import "errors"

var (
	// ErrHubNotFound возвращается, когда хаб не найден
	ErrHubNotFound = errors.New("hub not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("hubservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("hubservice client: invalid response")
)
