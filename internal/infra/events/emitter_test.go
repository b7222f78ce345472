package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/pkg/logger"
	"github.com/m04kA/SMC-PickupService/pkg/metrics"
)

type stubPublisher struct {
	keys []string
	err  error
}

func (p *stubPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	p.keys = append(p.keys, key)
	return p.err
}

func testEvent() domain.SlotEvent {
	slot := &domain.PickupSlot{
		ID:       uuid.New(),
		HubID:    uuid.New(),
		SlotDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		SlotTime: "09:00",
		Status:   domain.StatusScheduled,
	}
	return domain.NewSlotEvent(slot, uuid.New(), time.Now())
}

func TestEmitter_Emit(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer("pickup_test", reg)
	pub := &stubPublisher{}

	e := NewEmitter(pub, logger.NewNop(), m)
	e.Emit(context.Background(), domain.EventSlotBooked, testEvent())

	require.Equal(t, []string{"slot.booked"}, pub.keys)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsTotal.WithLabelValues("slot.booked", "success")))
}

func TestEmitter_EmitSwallowsPublishErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer("pickup_test", reg)
	pub := &stubPublisher{err: errors.New("broker down")}

	e := NewEmitter(pub, logger.NewNop(), m)

	assert.NotPanics(t, func() {
		e.Emit(context.Background(), domain.EventBookingCancelled, testEvent())
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsTotal.WithLabelValues("slot.cancelled", "error")))
}

func TestLogPublisher_PublishJSON(t *testing.T) {
	p := NewLogPublisher(logger.NewNop())
	assert.NoError(t, p.PublishJSON(context.Background(), "slot.booked", testEvent()))
	assert.NoError(t, p.Close())
}

// gatedPublisher держит публикацию до закрытия release
type gatedPublisher struct {
	mu      sync.Mutex
	keys    []string
	started chan struct{}
	release chan struct{}
}

func newGatedPublisher() *gatedPublisher {
	return &gatedPublisher{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (p *gatedPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	p.started <- struct{}{}
	<-p.release

	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *gatedPublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func TestAsyncEmitter_DoesNotWaitForBroker(t *testing.T) {
	pub := newGatedPublisher()
	e := NewAsyncEmitter(pub, logger.NewNop(), nil, 8)

	emitted := make(chan struct{})
	go func() {
		e.Emit(context.Background(), domain.EventSlotBooked, testEvent())
		e.Emit(context.Background(), domain.EventPickupCompleted, testEvent())
		close(emitted)
	}()

	select {
	case <-emitted:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on the publisher")
	}
	assert.Empty(t, pub.Keys())

	close(pub.release)
	e.Close()

	assert.Equal(t, []string{"slot.booked", "slot.completed"}, pub.Keys())
}

func TestAsyncEmitter_DropsWhenQueueIsFull(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer("pickup_test", reg)
	pub := newGatedPublisher()
	e := NewAsyncEmitter(pub, logger.NewNop(), m, 1)

	e.Emit(context.Background(), domain.EventSlotBooked, testEvent())
	<-pub.started

	e.Emit(context.Background(), domain.EventCustomerNotified, testEvent())
	e.Emit(context.Background(), domain.EventCustomerArrived, testEvent())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsTotal.WithLabelValues("slot.customer_arrived", "dropped")))

	close(pub.release)
	e.Close()

	assert.Equal(t, []string{"slot.booked", "slot.customer_notified"}, pub.Keys())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsTotal.WithLabelValues("slot.customer_notified", "success")))
}

func TestAsyncEmitter_EmitAfterClose(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer("pickup_test", reg)
	pub := &stubPublisher{}
	e := NewAsyncEmitter(pub, logger.NewNop(), m, 4)

	e.Close()
	e.Close()

	assert.NotPanics(t, func() {
		e.Emit(context.Background(), domain.EventSlotBooked, testEvent())
	})
	assert.Empty(t, pub.keys)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsTotal.WithLabelValues("slot.booked", "dropped")))
}
