package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition переход не разрешён из текущего статуса
var ErrInvalidTransition = errors.New("domain: invalid slot status transition")

// Action событие жизненного цикла слота
type Action string

const (
	ActionNotify   Action = "notify"
	ActionArrive   Action = "customer_arrives"
	ActionStart    Action = "start_service"
	ActionComplete Action = "complete"
	ActionNoShow   Action = "no_show"
	ActionCancel   Action = "cancel"
	ActionRate     Action = "rate"
)

type transition struct {
	from []SlotStatus
	to   SlotStatus
}

var transitionTable = map[Action]transition{
	ActionNotify: {
		from: []SlotStatus{StatusScheduled},
		to:   StatusCustomerNotified,
	},
	ActionArrive: {
		from: []SlotStatus{StatusCustomerNotified},
		to:   StatusCustomerArrived,
	},
	ActionStart: {
		from: []SlotStatus{StatusCustomerArrived},
		to:   StatusInProgress,
	},
	ActionComplete: {
		from: []SlotStatus{StatusCustomerNotified, StatusCustomerArrived, StatusInProgress},
		to:   StatusCompleted,
	},
	ActionNoShow: {
		from: []SlotStatus{StatusScheduled, StatusCustomerNotified},
		to:   StatusNoShow,
	},
	ActionCancel: {
		from: []SlotStatus{StatusScheduled, StatusCustomerNotified, StatusCustomerArrived, StatusInProgress},
		to:   StatusCancelled,
	},
	ActionRate: {
		from: []SlotStatus{StatusCompleted},
		to:   StatusCompleted,
	},
}

// ValidTransition проверяет, разрешено ли действие из статуса
func ValidTransition(action Action, from SlotStatus) bool {
	t, ok := transitionTable[action]
	if !ok {
		return false
	}
	for _, status := range t.from {
		if status == from {
			return true
		}
	}
	return false
}

// NextStatus возвращает целевой статус или ErrInvalidTransition с текущим и запрошенным состоянием
func NextStatus(action Action, from SlotStatus) (SlotStatus, error) {
	if !ValidTransition(action, from) {
		return "", fmt.Errorf("%w: cannot %s a slot in status %s", ErrInvalidTransition, action, from)
	}
	return transitionTable[action].to, nil
}
