package database

import (
	"context"
	"time"

	"bistro-backend/internal/models"
	"bistro-backend/internal/store"

	"go.uber.org/zap"
)

const (
	archiverBuffer = 512
	writeTimeout   = 5 * time.Second
)

// Writer is the write side of the archive
type Writer interface {
	ArchiveOrder(ctx context.Context, o models.Order, closedAt time.Time) error
	LogStatus(ctx context.Context, orderID string, from, to models.OrderStatus, at time.Time) error
}

// Archiver records order status changes and archives orders once they finish.
// Writes happen on one goroutine in event order.
type Archiver struct {
	writer Writer
	logger *zap.Logger
	queue  chan store.Event
}

func NewArchiver(w Writer, logger *zap.Logger) *Archiver {
	return &Archiver{writer: w, logger: logger, queue: make(chan store.Event, archiverBuffer)}
}

// Handle is a store.Subscriber
func (a *Archiver) Handle(ev store.Event) {
	if ev.Order == nil {
		return
	}
	if ev.Type != store.EventOrderCreated && ev.Type != store.EventOrderStatusChanged {
		return
	}
	select {
	case a.queue <- ev:
	default:
		a.logger.Warn("archive queue full, dropping event",
			zap.String("order_id", ev.Order.ID),
			zap.String("status", string(ev.Order.Status)))
	}
}

// Run writes queued events until ctx is cancelled, then drains the queue
func (a *Archiver) Run(ctx context.Context) {
	for {
		select {
		case ev := <-a.queue:
			a.write(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-a.queue:
					a.write(ev)
				default:
					return
				}
			}
		}
	}
}

func (a *Archiver) write(ev store.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	o := *ev.Order
	if err := a.writer.LogStatus(ctx, o.ID, ev.Previous, o.Status, ev.At); err != nil {
		a.logger.Error("failed to log order status", zap.String("order_id", o.ID), zap.Error(err))
	}
	if !o.Status.IsTerminal() {
		return
	}
	if err := a.writer.ArchiveOrder(ctx, o, ev.At); err != nil {
		a.logger.Error("failed to archive order", zap.String("order_id", o.ID), zap.Error(err))
		return
	}
	a.logger.Info("order archived", zap.String("order_id", o.ID), zap.String("status", string(o.Status)))
}
