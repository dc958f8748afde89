package services

import (
	"context"
	"time"

	"bistro-backend/internal/models"
	"bistro-backend/internal/store"

	"go.uber.org/zap"
)

// Pusher sends phone notifications to drivers
type Pusher interface {
	SendDeliveryAssigned(ctx context.Context, token string, order models.Order) error
	SendDeliveryReady(ctx context.Context, tokens []string, order models.Order) error
}

const pushTimeout = 10 * time.Second

// DriverNotifier turns store events into driver pushes. Pushes are sent off
// the store's notification path.
type DriverNotifier struct {
	store  *store.Store
	pusher Pusher
	logger *zap.Logger
	// run is replaceable in tests to send synchronously
	run func(func())
}

func NewDriverNotifier(st *store.Store, pusher Pusher, logger *zap.Logger) *DriverNotifier {
	return &DriverNotifier{
		store:  st,
		pusher: pusher,
		logger: logger,
		run:    func(f func()) { go f() },
	}
}

// Handle is a store.Subscriber
func (n *DriverNotifier) Handle(ev store.Event) {
	if ev.Order == nil || ev.Order.Type != models.OrderTypeDelivery {
		return
	}
	order := *ev.Order

	switch ev.Type {
	case store.EventOrderDriverAssigned:
		if ev.Driver == nil {
			return
		}
		driver, err := n.store.Driver(ev.Driver.ID)
		if err != nil || driver.DeviceToken == "" {
			return
		}
		n.run(func() {
			ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
			defer cancel()
			if err := n.pusher.SendDeliveryAssigned(ctx, driver.DeviceToken, order); err != nil {
				n.logger.Warn("driver push failed", zap.String("driver_id", driver.ID), zap.Error(err))
			}
		})

	case store.EventOrderStatusChanged:
		if order.Status != models.OrderStatusReady || order.DriverID() != "" {
			return
		}
		var tokens []string
		for _, d := range n.store.Drivers() {
			if d.Status == models.DriverStatusAvailable && d.DeviceToken != "" {
				tokens = append(tokens, d.DeviceToken)
			}
		}
		if len(tokens) == 0 {
			return
		}
		n.run(func() {
			ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
			defer cancel()
			if err := n.pusher.SendDeliveryReady(ctx, tokens, order); err != nil {
				n.logger.Warn("delivery ready push failed", zap.String("order_id", order.ID), zap.Error(err))
			}
		})
	}
}
