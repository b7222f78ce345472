package get_queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/service/lifecycle/models"
)

// Request модель запроса очереди хаба
type Request struct {
	HubID uuid.UUID
	Date  *time.Time // Дата очереди (по умолчанию сегодня)
}

// Stats количество слотов в очереди по статусам
type Stats struct {
	Total      int `json:"total"`
	Scheduled  int `json:"scheduled"`
	Notified   int `json:"notified"`
	Arrived    int `json:"arrived"`
	InProgress int `json:"inProgress"`
}

// Response модель ответа
type Response struct {
	HubID uuid.UUID             `json:"hubId"`
	Date  string                `json:"date"`
	Queue []models.SlotResponse `json:"queue"`
	Stats Stats                 `json:"stats"`
}
