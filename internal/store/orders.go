package store

import (
	"fmt"
	"time"

	"bistro-backend/internal/models"
)

// insertOrder must be called with mu held
func (s *Store) insertOrder(o *models.Order) {
	s.orders = append(s.orders, o)
	s.orderIndex[o.ID] = o
}

// Orders returns copies of every order in insertion order
func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out
}

func (s *Store) Order(id string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orderIndex[id]
	if !ok {
		return models.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return o.Clone(), nil
}

// CreateOrder stores a new PENDING order. Dine-in orders go through the POS
// draft instead so the table stays consistent.
func (s *Store) CreateOrder(f models.Fulfillment, items []models.OrderItem, note string) (models.Order, error) {
	if f != nil && f.OrderType() == models.OrderTypeDineIn {
		return models.Order{}, fmt.Errorf("%w: dine-in orders are submitted from the table", models.ErrInvalidFulfillment)
	}

	s.mu.Lock()
	now := s.now()
	o, err := models.NewOrder(s.newID(), f, items, note, now)
	if err != nil {
		s.mu.Unlock()
		return models.Order{}, err
	}
	s.insertOrder(&o)
	ev := orderEvent(EventOrderCreated, &o, "", now)
	out := o.Clone()
	s.mu.Unlock()

	s.notify([]Event{ev})
	return out, nil
}

// NextStatus picks the target status from a copy of the current order, or rejects it
type NextStatus func(current models.Order) (models.OrderStatus, error)

// To always moves to status
func To(status models.OrderStatus) NextStatus {
	return func(models.Order) (models.OrderStatus, error) { return status, nil }
}

// TransitionOrder moves an order through the lifecycle. The target is checked
// against the transition table; a rejected move changes nothing.
//
// Reaching COMPLETED or CANCELLED releases the order's resources: a dine-in
// table holding this order becomes DIRTY and a delivery driver gets one active
// order back.
func (s *Store) TransitionOrder(id string, next NextStatus) (models.Order, error) {
	s.mu.Lock()
	o, ok := s.orderIndex[id]
	if !ok {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	target, err := next(o.Clone())
	if err != nil {
		s.mu.Unlock()
		return models.Order{}, err
	}
	if err := models.ValidateTransition(o.Status, target); err != nil {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("order %s: %w", id, err)
	}

	now := s.now()
	prev := o.Status
	o.Status = target
	events := []Event{orderEvent(EventOrderStatusChanged, o, prev, now)}
	if target.IsTerminal() {
		events = append(events, s.release(o, now)...)
	}
	out := o.Clone()
	s.mu.Unlock()

	s.notify(events)
	return out, nil
}

// release must be called with mu held
func (s *Store) release(o *models.Order, now time.Time) []Event {
	var events []Event
	switch f := o.Fulfillment.(type) {
	case models.DineIn:
		if t, ok := s.tables[f.TableID]; ok && t.CurrentOrderID == o.ID {
			t.Status = models.TableStatusDirty
			t.CurrentOrderID = ""
			events = append(events, tableEvent(t, now))
		}
	case models.Delivery:
		if d, ok := s.drivers[f.DriverID]; ok && f.DriverID != "" {
			if d.ActiveOrders > 0 {
				d.ActiveOrders--
			}
			if d.ActiveOrders == 0 && d.Status == models.DriverStatusBusy {
				d.Status = models.DriverStatusAvailable
			}
			events = append(events, driverEvent(d, now))
		}
	}
	return events
}

// AssignDriver attaches an available or busy driver to an unassigned,
// unfinished delivery order.
func (s *Store) AssignDriver(orderID, driverID string) (models.Order, error) {
	s.mu.Lock()
	o, ok := s.orderIndex[orderID]
	if !ok {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	delivery, ok := o.Fulfillment.(models.Delivery)
	if !ok {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotDelivery)
	}
	if o.Status.IsTerminal() {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("%w: order %s is %s", models.ErrInvalidTransition, orderID, o.Status)
	}
	if delivery.DriverID != "" {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("order %s: %w", orderID, ErrAlreadyAssigned)
	}
	d, ok := s.drivers[driverID]
	if !ok {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("driver %s: %w", driverID, ErrNotFound)
	}
	if !d.CanTakeOrders() {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("%s: %w", d.Name, ErrDriverOffline)
	}

	now := s.now()
	delivery.DriverID = driverID
	o.Fulfillment = delivery
	d.ActiveOrders++
	d.Status = models.DriverStatusBusy

	assigned := orderEvent(EventOrderDriverAssigned, o, o.Status, now)
	assigned.Driver = &models.Driver{}
	*assigned.Driver = *d
	events := []Event{assigned, driverEvent(d, now)}
	out := o.Clone()
	s.mu.Unlock()

	s.notify(events)
	return out, nil
}
