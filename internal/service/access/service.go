package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/integrations/hubservice"
)

// Service проверка прав вызывающего на хаб и на слот.
// Вызывается один раз в начале каждой операции.
type Service struct {
	hubs   HubDirectory
	logger Logger
}

// NewService создает сервис проверки прав
func NewService(hubs HubDirectory, logger Logger) *Service {
	return &Service{hubs: hubs, logger: logger}
}

// HubExists проверяет наличие хаба в справочнике
func (s *Service) HubExists(ctx context.Context, hubID uuid.UUID) error {
	_, err := s.getHub(ctx, hubID)
	return err
}

// CanManageHub администратор или владелец хаба
func (s *Service) CanManageHub(ctx context.Context, caller domain.Caller, hubID uuid.UUID) error {
	hub, err := s.getHub(ctx, hubID)
	if err != nil {
		return err
	}

	if caller.IsAdmin() {
		return nil
	}
	if caller.Role == domain.RoleHubOwner && hub.OwnerID == caller.UserID {
		return nil
	}

	s.logger.Warn("CanManageHub: user=%s role=%s is not allowed to manage hub=%s", caller.UserID, caller.Role, hubID)
	return ErrForbidden
}

// IsSlotCustomer проверяет, что вызывающий оформил бронирование
func (s *Service) IsSlotCustomer(caller domain.Caller, slot *domain.PickupSlot) error {
	if slot.CustomerID == caller.UserID {
		return nil
	}
	s.logger.Warn("IsSlotCustomer: user=%s is not the customer of slot=%s", caller.UserID, slot.ID)
	return ErrForbidden
}

// CanViewSlot клиент бронирования, владелец хаба или администратор
func (s *Service) CanViewSlot(ctx context.Context, caller domain.Caller, slot *domain.PickupSlot) error {
	if slot.CustomerID == caller.UserID || caller.IsAdmin() {
		return nil
	}
	return s.CanManageHub(ctx, caller, slot.HubID)
}

func (s *Service) getHub(ctx context.Context, hubID uuid.UUID) (*hubservice.Hub, error) {
	hub, err := s.hubs.GetHub(ctx, hubID)
	if err != nil {
		if errors.Is(err, hubservice.ErrHubNotFound) {
			return nil, ErrHubNotFound
		}
		s.logger.Error("access: failed to get hub=%s: %v", hubID, err)
		return nil, fmt.Errorf("%w: get hub: %v", ErrInternal, err)
	}
	return hub, nil
}
