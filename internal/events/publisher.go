// Package events mirrors order lifecycle events from the store to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bistro-backend/internal/models"
	"bistro-backend/internal/store"

	"go.uber.org/zap"
)

const (
	defaultBuffer  = 256
	publishTimeout = 5 * time.Second
)

// Message is the JSON body of a published order event
type Message struct {
	Event          store.EventType      `json:"event"`
	PreviousStatus models.OrderStatus   `json:"previous_status,omitempty"`
	Order          models.OrderResponse `json:"order"`
	DriverID       string               `json:"driver_id,omitempty"`
	At             time.Time            `json:"at"`
}

// RoutingKey is order.<type>.<status> in lower case, e.g. order.delivery.ready
func RoutingKey(o models.Order) string {
	return fmt.Sprintf("order.%s.%s", strings.ToLower(string(o.Type)), strings.ToLower(string(o.Status)))
}

// Publisher queues store events and publishes them from a single worker.
// When the queue is full the event is dropped and logged; the store never waits
// on the broker.
type Publisher struct {
	broker Broker
	logger *zap.Logger
	queue  chan store.Event
}

func NewPublisher(broker Broker, logger *zap.Logger, buffer int) *Publisher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Publisher{
		broker: broker,
		logger: logger,
		queue:  make(chan store.Event, buffer),
	}
}

// Handle is a store.Subscriber. Only order events are queued.
func (p *Publisher) Handle(ev store.Event) {
	if ev.Order == nil {
		return
	}
	select {
	case p.queue <- ev:
	default:
		p.logger.Warn("event queue full, dropping order event",
			zap.String("event", string(ev.Type)),
			zap.String("order_id", ev.Order.ID))
	}
}

// Run publishes queued events until ctx is cancelled, then drains what is
// already queued.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case ev := <-p.queue:
			p.publish(ctx, ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-p.queue:
					p.publish(context.Background(), ev)
				default:
					return
				}
			}
		}
	}
}

func (p *Publisher) publish(ctx context.Context, ev store.Event) {
	msg := Message{
		Event:          ev.Type,
		PreviousStatus: ev.Previous,
		Order:          ev.Order.ToOrderResponse(),
		At:             ev.At,
	}
	if ev.Driver != nil {
		msg.DriverID = ev.Driver.ID
	}
	body, err := json.Marshal(msg)
	if err != nil {
		p.logger.Error("failed to encode order event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	key := RoutingKey(*ev.Order)
	if err := p.broker.Publish(ctx, Exchange, key, body); err != nil {
		p.logger.Error("failed to publish order event",
			zap.String("routing_key", key),
			zap.String("order_id", ev.Order.ID),
			zap.Error(err))
		return
	}
	p.logger.Debug("published order event", zap.String("routing_key", key))
}
