package events

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/pkg/metrics"
)

const publishTimeout = 3 * time.Second

// Publisher транспорт событий
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type envelope struct {
	ctx   context.Context
	name  domain.EventName
	event domain.SlotEvent
}

// Emitter отправляет доменные события после фиксации изменений.
// Ошибки публикации только логируются: переход слота к этому моменту уже сохранён.
type Emitter struct {
	publisher Publisher
	logger    Logger
	metrics   *metrics.Metrics

	mu     sync.RWMutex
	closed bool
	queue  chan envelope
	done   chan struct{}
}

// NewEmitter создает эмиттер, публикующий событие в вызывающей горутине, metrics может быть nil
func NewEmitter(publisher Publisher, logger Logger, m *metrics.Metrics) *Emitter {
	return &Emitter{
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}
}

// NewAsyncEmitter создает эмиттер с фоновой публикацией через очередь размера bufferSize.
// Emit не ждёт брокер; при заполненной очереди событие отбрасывается.
// Close дожидается публикации уже поставленных событий.
func NewAsyncEmitter(publisher Publisher, logger Logger, m *metrics.Metrics, bufferSize int) *Emitter {
	if bufferSize <= 0 {
		bufferSize = 1
	}

	e := NewEmitter(publisher, logger, m)
	e.queue = make(chan envelope, bufferSize)
	e.done = make(chan struct{})

	go e.loop()

	return e
}

// Emit публикует событие, не возвращая ошибок
func (e *Emitter) Emit(ctx context.Context, name domain.EventName, event domain.SlotEvent) {
	ctx = context.WithoutCancel(ctx)

	if e.queue == nil {
		e.publish(ctx, name, event)
		return
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		e.logger.Warn("Emit: emitter is closed, dropping %s for slot %s", name, event.SlotID)
		e.metrics.IncEvent(string(name), "dropped")
		return
	}

	select {
	case e.queue <- envelope{ctx: ctx, name: name, event: event}:
	default:
		e.logger.Error("Emit: queue is full, dropping %s for slot %s", name, event.SlotID)
		e.metrics.IncEvent(string(name), "dropped")
	}
}

// Close останавливает фоновую публикацию, дожидаясь отправки очереди
func (e *Emitter) Close() {
	if e.queue == nil {
		return
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		<-e.done
		return
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	<-e.done
}

func (e *Emitter) loop() {
	defer close(e.done)

	for env := range e.queue {
		e.publish(env.ctx, env.name, env.event)
	}
}

func (e *Emitter) publish(ctx context.Context, name domain.EventName, event domain.SlotEvent) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := e.publisher.PublishJSON(ctx, string(name), event); err != nil {
		e.logger.Error("Emit: failed to publish %s for slot %s: %v", name, event.SlotID, err)
		e.metrics.IncEvent(string(name), "error")
		return
	}

	e.metrics.IncEvent(string(name), "success")
}
