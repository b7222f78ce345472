package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	configRepo "github.com/m04kA/SMC-PickupService/internal/infra/storage/config"
	"github.com/m04kA/SMC-PickupService/internal/service/access"
	"github.com/m04kA/SMC-PickupService/internal/service/config/models"
)

// Service сервис настроек расписания хабов
type Service struct {
	configRepo ConfigRepository
	access     AccessChecker
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	configRepo ConfigRepository,
	access AccessChecker,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		configRepo: configRepo,
		access:     access,
		txManager:  txManager,
		logger:     logger,
	}
}

// GetHubConfig получает настройки хаба, доступно всем
func (s *Service) GetHubConfig(ctx context.Context, hubID uuid.UUID) (*models.ConfigResponse, error) {
	cfg, err := s.configRepo.GetByHubID(ctx, hubID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			return nil, ErrConfigNotFound
		}
		s.logger.Error("GetHubConfig: failed to get config for hub=%s: %v", hubID, err)
		return nil, fmt.Errorf("%w: GetHubConfig - get config: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(cfg), nil
}

// EnableScheduling создает конфигурацию хаба или обновляет существующую и включает расписание.
// Доступно владельцу хаба и администратору.
func (s *Service) EnableScheduling(ctx context.Context, req *models.EnableSchedulingRequest) (*models.ConfigResponse, error) {
	s.logger.Info("EnableScheduling: hub=%s by user=%s", req.HubID, req.Caller.UserID)

	// 1. Проверяем права на хаб
	if err := s.checkManage(ctx, req.Caller, req.HubID); err != nil {
		return nil, err
	}

	var result *domain.HubScheduleConfig

	// 2. Читаем текущую конфигурацию и сохраняем обновлённую в одной транзакции
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		cfg, err := s.configRepo.GetByHubID(ctx, req.HubID)
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			cfg = domain.NewDefaultHubScheduleConfig(req.HubID)
		} else if err != nil {
			return fmt.Errorf("%w: EnableScheduling - get config: %w", ErrInternal, err)
		}

		req.ApplyToConfig(cfg)
		cfg.IsEnabled = true

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		result, err = s.configRepo.Upsert(ctx, cfg)
		if err != nil {
			return fmt.Errorf("%w: EnableScheduling - upsert config: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			s.logger.Warn("EnableScheduling: validation failed for hub=%s: %v", req.HubID, err)
		} else {
			s.logger.Error("EnableScheduling: failed for hub=%s: %v", req.HubID, err)
		}
		return nil, err
	}

	s.logger.Info("EnableScheduling: scheduling enabled for hub=%s", req.HubID)
	return models.FromDomainConfig(result), nil
}

// DisableScheduling выключает расписание хаба, существующие бронирования не затрагиваются
func (s *Service) DisableScheduling(ctx context.Context, caller domain.Caller, hubID uuid.UUID) error {
	s.logger.Info("DisableScheduling: hub=%s by user=%s", hubID, caller.UserID)

	if err := s.checkManage(ctx, caller, hubID); err != nil {
		return err
	}

	if err := s.configRepo.SetEnabled(ctx, hubID, false); err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Warn("DisableScheduling: hub=%s has no config", hubID)
			return ErrConfigNotFound
		}
		s.logger.Error("DisableScheduling: failed to disable hub=%s: %v", hubID, err)
		return fmt.Errorf("%w: DisableScheduling - set enabled: %v", ErrInternal, err)
	}

	s.logger.Info("DisableScheduling: scheduling disabled for hub=%s", hubID)
	return nil
}

// UpdateOperatingHours заменяет недельное расписание хаба
func (s *Service) UpdateOperatingHours(ctx context.Context, req *models.UpdateOperatingHoursRequest) (*models.ConfigResponse, error) {
	s.logger.Info("UpdateOperatingHours: hub=%s by user=%s", req.HubID, req.Caller.UserID)

	if err := s.checkManage(ctx, req.Caller, req.HubID); err != nil {
		return nil, err
	}

	if err := req.WeeklyHours.Validate(); err != nil {
		s.logger.Warn("UpdateOperatingHours: invalid hours for hub=%s: %v", req.HubID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.HubScheduleConfig

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		cfg, err := s.configRepo.GetByHubID(ctx, req.HubID)
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			return ErrConfigNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: UpdateOperatingHours - get config: %w", ErrInternal, err)
		}

		cfg.WeeklyHours = req.WeeklyHours

		result, err = s.configRepo.Upsert(ctx, cfg)
		if err != nil {
			return fmt.Errorf("%w: UpdateOperatingHours - upsert config: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrConfigNotFound) {
			s.logger.Error("UpdateOperatingHours: failed for hub=%s: %v", req.HubID, err)
		}
		return nil, err
	}

	s.logger.Info("UpdateOperatingHours: hours updated for hub=%s", req.HubID)
	return models.FromDomainConfig(result), nil
}

func (s *Service) checkManage(ctx context.Context, caller domain.Caller, hubID uuid.UUID) error {
	err := s.access.CanManageHub(ctx, caller, hubID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, access.ErrForbidden):
		return ErrAccessDenied
	case errors.Is(err, access.ErrHubNotFound):
		return ErrHubNotFound
	default:
		return fmt.Errorf("%w: check access: %v", ErrInternal, err)
	}
}
