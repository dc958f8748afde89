package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"bistro-backend/internal/models"
	"bistro-backend/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type published struct {
	exchange string
	key      string
	body     []byte
}

type fakeBroker struct {
	mu   sync.Mutex
	msgs []published
	err  error
	done chan struct{}
}

func (f *fakeBroker) Publish(_ context.Context, exchange, key string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, published{exchange, key, body})
	if f.done != nil {
		f.done <- struct{}{}
	}
	return f.err
}

func (f *fakeBroker) Close() error { return nil }

func testOrder(t models.OrderType, status models.OrderStatus) *models.Order {
	var f models.Fulfillment
	switch t {
	case models.OrderTypeDelivery:
		f = models.Delivery{CustomerName: "Ann", DeliveryAddress: "1 Main St", DriverID: "drv-1"}
	case models.OrderTypePickup:
		f = models.Pickup{CustomerName: "Di", PickupCode: "P-0001"}
	default:
		f = models.DineIn{TableID: 4}
	}
	o, err := models.NewOrder("ord-1", f, []models.OrderItem{{MenuItemID: "m1", Name: "Soup", Price: decimal.NewFromInt(6), Quantity: 1}}, "", time.Now())
	if err != nil {
		panic(err)
	}
	o.Status = status
	return &o
}

func TestRoutingKey(t *testing.T) {
	tests := []struct {
		typ    models.OrderType
		status models.OrderStatus
		want   string
	}{
		{models.OrderTypeDineIn, models.OrderStatusPending, "order.dine_in.pending"},
		{models.OrderTypeDelivery, models.OrderStatusReady, "order.delivery.ready"},
		{models.OrderTypePickup, models.OrderStatusCompleted, "order.pickup.completed"},
	}
	for _, tt := range tests {
		if got := RoutingKey(*testOrder(tt.typ, tt.status)); got != tt.want {
			t.Errorf("RoutingKey = %q, want %q", got, tt.want)
		}
	}
}

func TestPublisherPublishesOrderEvents(t *testing.T) {
	broker := &fakeBroker{done: make(chan struct{}, 4)}
	p := NewPublisher(broker, zap.NewNop(), 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	p.Handle(store.Event{Type: store.EventTableUpdated, Table: &models.Table{ID: 1}})
	p.Handle(store.Event{
		Type:     store.EventOrderStatusChanged,
		Order:    testOrder(models.OrderTypeDelivery, models.OrderStatusReady),
		Previous: models.OrderStatusCooking,
	})

	select {
	case <-broker.done:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not published")
	}

	broker.mu.Lock()
	defer broker.mu.Unlock()
	if len(broker.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(broker.msgs))
	}
	got := broker.msgs[0]
	if got.exchange != Exchange || got.key != "order.delivery.ready" {
		t.Errorf("published to %s/%s", got.exchange, got.key)
	}
	var msg Message
	if err := json.Unmarshal(got.body, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Event != store.EventOrderStatusChanged || msg.PreviousStatus != models.OrderStatusCooking {
		t.Errorf("unexpected message: %+v", msg)
	}
	if msg.Order.ID != "ord-1" || msg.Order.DriverID != "drv-1" {
		t.Errorf("unexpected order payload: %+v", msg.Order)
	}
}

func TestPublisherDropsWhenFull(t *testing.T) {
	broker := &fakeBroker{}
	p := NewPublisher(broker, zap.NewNop(), 1)

	ev := store.Event{Type: store.EventOrderCreated, Order: testOrder(models.OrderTypePickup, models.OrderStatusPending)}
	p.Handle(ev)
	p.Handle(ev)

	if len(p.queue) != 1 {
		t.Errorf("expected 1 queued event, got %d", len(p.queue))
	}
}

func TestPublisherDrainsOnShutdown(t *testing.T) {
	broker := &fakeBroker{err: errors.New("broker down")}
	p := NewPublisher(broker, zap.NewNop(), 8)
	for i := 0; i < 3; i++ {
		p.Handle(store.Event{Type: store.EventOrderCreated, Order: testOrder(models.OrderTypeDineIn, models.OrderStatusPending)})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Run(ctx)

	if len(broker.msgs) != 3 {
		t.Errorf("expected 3 publish attempts, got %d", len(broker.msgs))
	}
}
