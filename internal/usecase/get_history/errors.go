package get_history

import "errors"

var (
	ErrAccessDenied = errors.New("get_history: access denied")
	ErrInvalidInput = errors.New("get_history: invalid input")
	ErrInternal     = errors.New("get_history: internal error")
)
