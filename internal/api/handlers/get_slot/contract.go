package get_slot

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/service/lifecycle/models"
)

type SlotService interface {
	GetSlot(ctx context.Context, caller domain.Caller, slotID uuid.UUID) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
