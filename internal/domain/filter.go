package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryFilter фильтр истории бронирований
type HistoryFilter struct {
	CustomerID *uuid.UUID  // Только бронирования клиента (опционально)
	HubID      *uuid.UUID  // Только бронирования хаба (опционально)
	Status     *SlotStatus // Фильтр по статусу (опционально)
	StartDate  *time.Time  // Начало периода включительно (опционально)
	EndDate    *time.Time  // Конец периода включительно (опционально)
	Limit      int
	Offset     int
}

// QueueFilter выборка активных слотов хаба на дату
type QueueFilter struct {
	HubID uuid.UUID
	Date  time.Time
}
