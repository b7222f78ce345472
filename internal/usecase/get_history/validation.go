package get_history

import (
	"fmt"

	"github.com/m04kA/SMC-PickupService/internal/domain"
)

// validateRequest проверяет фильтр и подставляет значения пагинации по умолчанию
func validateRequest(req *Request) error {
	if req.Page < 0 {
		return fmt.Errorf("%w: page must be at least 1", ErrInvalidInput)
	}
	if req.Page == 0 {
		req.Page = 1
	}

	if req.Limit < 0 || req.Limit > domain.MaxHistoryLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, domain.MaxHistoryLimit)
	}
	if req.Limit == 0 {
		req.Limit = domain.DefaultHistoryLimit
	}

	if req.Status != nil {
		if _, ok := domain.ParseSlotStatus(string(*req.Status)); !ok {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	return nil
}
