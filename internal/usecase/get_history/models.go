package get_history

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/service/lifecycle/models"
)

// Request модель запроса истории бронирований
type Request struct {
	Caller     domain.Caller
	CustomerID *uuid.UUID
	HubID      *uuid.UUID
	Status     *domain.SlotStatus
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int // Номер страницы, начиная с 1 (0 - по умолчанию)
	Limit      int // Размер страницы (0 - по умолчанию)
}

// Pagination параметры страницы
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Response модель ответа
type Response struct {
	Slots      []models.SlotResponse `json:"slots"`
	Pagination Pagination            `json:"pagination"`
}
