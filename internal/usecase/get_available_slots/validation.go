package get_available_slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.HubID == uuid.Nil {
		return fmt.Errorf("%w: hubID is required", ErrInvalidInput)
	}

	if req.Days < 0 || req.Days > domain.MaxAvailabilityDays {
		return fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, domain.MaxAvailabilityDays)
	}

	return nil
}

// resolveRange возвращает начальную дату и количество дней, обрезанные по горизонту бронирования хаба.
// Если начальная дата за горизонтом, возвращается ноль дней.
func resolveRange(req *Request, now time.Time, defaultDays, maxAdvanceDays int) (time.Time, int, error) {
	today := domain.DateOnly(now)

	start := today
	if req.StartDate != nil {
		start = domain.DateOnly(*req.StartDate)
		if start.Before(today) {
			return time.Time{}, 0, fmt.Errorf("%w: %s is in the past", ErrInvalidDate, start.Format(domain.DateFormat))
		}
	}

	days := req.Days
	if days == 0 {
		days = defaultDays
	}

	lastDate := domain.LastBookableDate(now, maxAdvanceDays)
	if start.After(lastDate) {
		return start, 0, nil
	}
	if left := int(lastDate.Sub(start).Hours()/24) + 1; days > left {
		days = left
	}

	return start, days, nil
}
