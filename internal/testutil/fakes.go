// Package testutil фейковые внешние сервисы и часы для тестов
package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/integrations/hubservice"
	"github.com/m04kA/SMC-PickupService/internal/integrations/orderservice"
)

// Clock управляемые часы
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock часы, показывающие t
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set переставляет часы
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Hubs справочник хабов в памяти
type Hubs struct {
	mu   sync.Mutex
	hubs map[uuid.UUID]hubservice.Hub
	Err  error
}

func NewHubs() *Hubs {
	return &Hubs{hubs: make(map[uuid.UUID]hubservice.Hub)}
}

// Add регистрирует хаб владельца и возвращает его ID
func (h *Hubs) Add(ownerID uuid.UUID) uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := uuid.New()
	h.hubs[id] = hubservice.Hub{ID: id, Name: "hub " + id.String()[:8], OwnerID: ownerID}
	return id
}

func (h *Hubs) GetHub(ctx context.Context, hubID uuid.UUID) (*hubservice.Hub, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return nil, h.Err
	}
	hub, ok := h.hubs[hubID]
	if !ok {
		return nil, hubservice.ErrHubNotFound
	}
	return &hub, nil
}

// Orders сервис заказов в памяти
type Orders struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]orderservice.Order
	GetErr    error
	StatusErr error
}

func NewOrders() *Orders {
	return &Orders{orders: make(map[uuid.UUID]orderservice.Order)}
}

// Add создает заказ клиента в статусе status и возвращает его ID
func (o *Orders) Add(customerID uuid.UUID, status string) uuid.UUID {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := uuid.New()
	o.orders[id] = orderservice.Order{ID: id, CustomerID: customerID, Status: status, TotalAmount: 10}
	return id
}

// Status текущий статус заказа
func (o *Orders) Status(orderID uuid.UUID) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.orders[orderID].Status
}

func (o *Orders) GetOrder(ctx context.Context, orderID uuid.UUID) (*orderservice.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.GetErr != nil {
		return nil, o.GetErr
	}
	order, ok := o.orders[orderID]
	if !ok {
		return nil, orderservice.ErrOrderNotFound
	}
	return &order, nil
}

func (o *Orders) SetOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.StatusErr != nil {
		return o.StatusErr
	}
	order, ok := o.orders[orderID]
	if !ok {
		return orderservice.ErrOrderNotFound
	}
	order.Status = status
	o.orders[orderID] = order
	return nil
}

// Publisher запоминает опубликованные события
type Publisher struct {
	mu     sync.Mutex
	events []domain.SlotEvent
	keys   []string
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var event domain.SlotEvent
	if err := json.Unmarshal(b, &event); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, event)
	return nil
}

// Keys имена опубликованных событий в порядке публикации
func (p *Publisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

// Last последнее опубликованное событие
func (p *Publisher) Last() (domain.SlotEvent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return domain.SlotEvent{}, false
	}
	return p.events[len(p.events)-1], true
}
