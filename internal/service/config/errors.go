package config

import "errors"

var (
	// ErrConfigNotFound возвращается, когда у хаба нет конфигурации
	ErrConfigNotFound = errors.New("config not found")

	// ErrHubNotFound возвращается, когда хаб отсутствует в справочнике
	ErrHubNotFound = errors.New("hub not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
