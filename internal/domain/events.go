package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventName имя доменного события (используется как routing key)
type EventName string

const (
	EventSlotBooked       EventName = "slot.booked"
	EventCustomerNotified EventName = "slot.customer_notified"
	EventCustomerArrived  EventName = "slot.customer_arrived"
	EventServiceStarted   EventName = "slot.service_started"
	EventPickupCompleted  EventName = "slot.completed"
	EventMarkedNoShow     EventName = "slot.no_show"
	EventBookingCancelled EventName = "slot.cancelled"
	EventExperienceRated  EventName = "slot.rated"
)

// EventForAction событие, публикуемое после успешного перехода
var EventForAction = map[Action]EventName{
	ActionNotify:   EventCustomerNotified,
	ActionArrive:   EventCustomerArrived,
	ActionStart:    EventServiceStarted,
	ActionComplete: EventPickupCompleted,
	ActionNoShow:   EventMarkedNoShow,
	ActionCancel:   EventBookingCancelled,
	ActionRate:     EventExperienceRated,
}

// SlotEvent полезная нагрузка события для внешней рассылки уведомлений
type SlotEvent struct {
	SlotID        uuid.UUID             `json:"slot_id"`
	HubID         uuid.UUID             `json:"hub_id"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	OrderID       uuid.UUID             `json:"order_id"`
	SlotDate      string                `json:"slot_date"`
	SlotTime      string                `json:"slot_time"`
	Status        SlotStatus            `json:"status"`
	QueuePosition int                   `json:"queue_position"`
	ActorID       uuid.UUID             `json:"actor_id"`
	Reason        *string               `json:"reason,omitempty"`
	Rating        *int                  `json:"rating,omitempty"`
	AutoConfirm   *bool                 `json:"auto_confirm,omitempty"`
	Notifications *NotificationSettings `json:"notifications,omitempty"`
	OccurredAt    time.Time             `json:"occurred_at"`
}

// NewSlotEvent собирает событие из состояния слота
func NewSlotEvent(slot *PickupSlot, actor uuid.UUID, at time.Time) SlotEvent {
	return SlotEvent{
		SlotID:        slot.ID,
		HubID:         slot.HubID,
		CustomerID:    slot.CustomerID,
		OrderID:       slot.OrderID,
		SlotDate:      slot.SlotDate.Format(DateFormat),
		SlotTime:      slot.SlotTime.String(),
		Status:        slot.Status,
		QueuePosition: slot.QueuePosition,
		ActorID:       actor,
		OccurredAt:    at,
	}
}
