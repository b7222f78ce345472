package availability

import "github.com/m04kA/SMC-PickupService/pkg/types"

// TimePoint момент начала слота с текущей загрузкой
type TimePoint struct {
	Time               types.TimeString
	IsAvailable        bool
	ConcurrentBookings int
	MaxConcurrent      int
}
