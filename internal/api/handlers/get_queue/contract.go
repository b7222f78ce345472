package get_queue

import (
	"context"

	getQueue "github.com/m04kA/SMC-PickupService/internal/usecase/get_queue"
)

type GetQueueUseCase interface {
	Execute(ctx context.Context, req *getQueue.Request) (*getQueue.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
