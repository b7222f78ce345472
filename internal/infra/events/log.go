package events

import (
	"context"
	"encoding/json"
)

// LogPublisher пишет события в лог вместо брокера
type LogPublisher struct {
	logger Logger
}

// NewLogPublisher создает публикатор в лог
func NewLogPublisher(logger Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	p.logger.Info("event %s: %s", key, string(b))
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
