package userservice

import "github.com/google/uuid"

// Vehicle автомобиль пользователя из UserService
type Vehicle struct {
	ID           int64     `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	LicensePlate string    `json:"license_plate"`
	Color        string    `json:"color"`
	IsSelected   bool      `json:"is_selected"`
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
