package book_slot

import (
	"context"

	bookSlot "github.com/m04kA/SMC-PickupService/internal/usecase/book_slot"
	"github.com/m04kA/SMC-PickupService/internal/service/lifecycle/models"
)

type BookSlotUseCase interface {
	Execute(ctx context.Context, req *bookSlot.Request) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
