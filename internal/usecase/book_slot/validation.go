package book_slot

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

	if req.OrderID == uuid.Nil {
		return fmt.Errorf("%w: orderID is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Time.IsZero() {
		return fmt.Errorf("%w: time is required", ErrInvalidInput)
	}

	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}

	if req.VehicleInfo != nil && !req.VehicleInfo.IsComplete() {
		return fmt.Errorf("%w: vehicle make and model are required", ErrInvalidInput)
	}

	if req.SpecialInstructions != nil && len([]rune(*req.SpecialInstructions)) > domain.MaxSpecialInstructionsLength {
		return fmt.Errorf("%w: special instructions must be at most %d characters",
			ErrInvalidInput, domain.MaxSpecialInstructionsLength)
	}

	return nil
}

// validateDate проверяет, что дата попадает в горизонт бронирования хаба.
// Горизонт совпадает с календарём доступности: сегодня и ещё maxAdvanceDays-1 дней.
func validateDate(date time.Time, now time.Time, maxAdvanceDays int) error {
	lastDate := domain.LastBookableDate(now, maxAdvanceDays)
	if domain.DateOnly(date).After(lastDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxAdvanceDays)
	}
	return nil
}

// validateInstructions проверяет длину пожеланий по настройке хаба
func validateInstructions(instructions *string, maxLength int) error {
	if instructions == nil {
		return nil
	}
	if len([]rune(*instructions)) > maxLength {
		return fmt.Errorf("%w: special instructions must be at most %d characters", ErrInvalidInput, maxLength)
	}
	return nil
}
