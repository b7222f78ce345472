package get_queue

import "errors"

var (
	ErrHubNotFound  = errors.New("get_queue: hub not found")
	ErrInvalidInput = errors.New("get_queue: invalid input")
	ErrInternal     = errors.New("get_queue: internal error")
)
