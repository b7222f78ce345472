package orderservice

import "github.com/google/uuid"

// Order заказ из OrderService
type Order struct {
	ID          uuid.UUID `json:"id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	HubID       uuid.UUID `json:"hub_id"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
}

// UpdateStatusRequest тело запроса смены статуса заказа
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ErrorResponse модель ошибки от OrderService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
