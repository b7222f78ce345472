package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
)

// Request модели

// EnableSchedulingRequest включение расписания хаба.
// Все настройки опциональны: не переданные берутся из текущей конфигурации или из значений по умолчанию.
type EnableSchedulingRequest struct {
	Caller                       domain.Caller                `json:"-"`
	HubID                        uuid.UUID                    `json:"-"`
	WeeklyHours                  *domain.WeeklyHours          `json:"weeklyHours,omitempty"`
	SlotDurationMinutes          *int                         `json:"slotDurationMinutes,omitempty"`
	BufferMinutes                *int                         `json:"bufferMinutes,omitempty"`
	ConcurrentCapacity           *int                         `json:"concurrentCapacity,omitempty"`
	MaxAdvanceDays               *int                         `json:"maxAdvanceDays,omitempty"`
	RequiresVehicleInfo          *bool                        `json:"requiresVehicleInfo,omitempty"`
	AutoConfirm                  *bool                        `json:"autoConfirm,omitempty"`
	SpecialInstructionsMaxLength *int                         `json:"specialInstructionsMaxLength,omitempty"`
	NotificationSettings         *domain.NotificationSettings `json:"notificationSettings,omitempty"`
}

// UpdateOperatingHoursRequest замена недельного расписания
type UpdateOperatingHoursRequest struct {
	Caller      domain.Caller      `json:"-"`
	HubID       uuid.UUID          `json:"-"`
	WeeklyHours domain.WeeklyHours `json:"weeklyHours"`
}

// ApplyToConfig применяет переданные настройки к конфигурации
func (r *EnableSchedulingRequest) ApplyToConfig(cfg *domain.HubScheduleConfig) {
	if r.WeeklyHours != nil {
		cfg.WeeklyHours = *r.WeeklyHours
	}
	if r.SlotDurationMinutes != nil {
		cfg.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.BufferMinutes != nil {
		cfg.BufferMinutes = *r.BufferMinutes
	}
	if r.ConcurrentCapacity != nil {
		cfg.ConcurrentCapacity = *r.ConcurrentCapacity
	}
	if r.MaxAdvanceDays != nil {
		cfg.MaxAdvanceDays = *r.MaxAdvanceDays
	}
	if r.RequiresVehicleInfo != nil {
		cfg.RequiresVehicleInfo = *r.RequiresVehicleInfo
	}
	if r.AutoConfirm != nil {
		cfg.AutoConfirm = *r.AutoConfirm
	}
	if r.SpecialInstructionsMaxLength != nil {
		cfg.SpecialInstructionsMaxLength = *r.SpecialInstructionsMaxLength
	}
	if r.NotificationSettings != nil {
		cfg.NotificationSettings = *r.NotificationSettings
	}
}

// Response модели

// ConfigResponse настройки расписания хаба
type ConfigResponse struct {
	HubID                        uuid.UUID                   `json:"hubId"`
	IsEnabled                    bool                        `json:"isEnabled"`
	WeeklyHours                  domain.WeeklyHours          `json:"weeklyHours"`
	SlotDurationMinutes          int                         `json:"slotDurationMinutes"`
	BufferMinutes                int                         `json:"bufferMinutes"`
	ConcurrentCapacity           int                         `json:"concurrentCapacity"`
	MaxAdvanceDays               int                         `json:"maxAdvanceDays"`
	RequiresVehicleInfo          bool                        `json:"requiresVehicleInfo"`
	AutoConfirm                  bool                        `json:"autoConfirm"`
	SpecialInstructionsMaxLength int                         `json:"specialInstructionsMaxLength"`
	NotificationSettings         domain.NotificationSettings `json:"notificationSettings"`
	CreatedAt                    time.Time                   `json:"createdAt"`
	UpdatedAt                    time.Time                   `json:"updatedAt"`
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.HubScheduleConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	return &ConfigResponse{
		HubID:                        c.HubID,
		IsEnabled:                    c.IsEnabled,
		WeeklyHours:                  c.WeeklyHours,
		SlotDurationMinutes:          c.SlotDurationMinutes,
		BufferMinutes:                c.BufferMinutes,
		ConcurrentCapacity:           c.ConcurrentCapacity,
		MaxAdvanceDays:               c.MaxAdvanceDays,
		RequiresVehicleInfo:          c.RequiresVehicleInfo,
		AutoConfirm:                  c.AutoConfirm,
		SpecialInstructionsMaxLength: c.SpecialInstructionsMaxLength,
		NotificationSettings:         c.NotificationSettings,
		CreatedAt:                    c.CreatedAt,
		UpdatedAt:                    c.UpdatedAt,
	}
}
