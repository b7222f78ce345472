package userservice

import "errors"

var (
	// ErrVehicleNotFound возвращается, когда у пользователя нет сохранённого автомобиля
	ErrVehicleNotFound = errors.New("user has no saved vehicle")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation.
	// UserService недоступен, бронирование продолжается без данных профиля.
	ErrServiceDegraded = errors.New("userservice unavailable: graceful degradation applied")
)
