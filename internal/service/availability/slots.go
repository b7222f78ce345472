package availability

import (
	"time"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/pkg/types"
)

// GenerateSlotTimes генерирует начала слотов в окне работы.
// Шаг равен duration+buffer, слот, не помещающийся до закрытия целиком, отбрасывается.
func GenerateSlotTimes(day domain.DaySchedule, durationMinutes, bufferMinutes int) []types.TimeString {
	result := make([]types.TimeString, 0)
	if !day.Enabled || durationMinutes <= 0 {
		return result
	}

	openAt := day.Open.Minutes()
	closeAt := day.Close.Minutes()
	pitch := durationMinutes + bufferMinutes

	for start := openAt; start+durationMinutes <= closeAt; start += pitch {
		ts, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			break
		}
		result = append(result, ts)
	}

	return result
}

// SlotTimesForDate возвращает начала слотов на дату и признак того, что хаб работает в этот день
func SlotTimesForDate(cfg *domain.HubScheduleConfig, date time.Time) ([]types.TimeString, bool) {
	day, open := cfg.WeeklyHours.OpenOn(date)
	if !open {
		return nil, false
	}
	return GenerateSlotTimes(*day, cfg.SlotDurationMinutes, cfg.BufferMinutes), true
}

// IsSlotBoundary проверяет, что время совпадает с одним из сгенерированных начал слотов
func IsSlotBoundary(cfg *domain.HubScheduleConfig, date time.Time, t types.TimeString) bool {
	times, open := SlotTimesForDate(cfg, date)
	if !open {
		return false
	}
	for _, candidate := range times {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsPast проверяет, что начало слота уже наступило
func IsPast(date time.Time, t types.TimeString, now time.Time) bool {
	return t.OnDate(date, now.Location()).Before(now)
}

// HasCapacity сравнивает занятость корзины с лимитом
func HasCapacity(count int, capacity int) bool {
	return count < capacity
}
