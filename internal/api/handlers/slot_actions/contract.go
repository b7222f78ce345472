package slot_actions

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/service/lifecycle/models"
)

// LifecycleService переходы жизненного цикла слота
type LifecycleService interface {
	NotifyReady(ctx context.Context, caller domain.Caller, slotID uuid.UUID) (*models.SlotResponse, error)
	MarkArrived(ctx context.Context, caller domain.Caller, slotID uuid.UUID) (*models.SlotResponse, error)
	StartService(ctx context.Context, caller domain.Caller, slotID uuid.UUID) (*models.SlotResponse, error)
	CompleteService(ctx context.Context, caller domain.Caller, slotID uuid.UUID, req *models.CompleteRequest) (*models.SlotResponse, error)
	MarkNoShow(ctx context.Context, caller domain.Caller, slotID uuid.UUID) (*models.SlotResponse, error)
	CancelBooking(ctx context.Context, caller domain.Caller, slotID uuid.UUID, req *models.CancelRequest) (*models.SlotResponse, error)
	RateExperience(ctx context.Context, caller domain.Caller, slotID uuid.UUID, req *models.RateRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
