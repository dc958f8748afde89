package store

import (
	"fmt"
	"strings"

	"bistro-backend/internal/models"
)

func (s *Store) Drivers() []models.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Driver, 0, len(s.driverOrder))
	for _, id := range s.driverOrder {
		out = append(out, *s.drivers[id])
	}
	return out
}

func (s *Store) Driver(id string) (models.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drivers[id]
	if !ok {
		return models.Driver{}, fmt.Errorf("driver %s: %w", id, ErrNotFound)
	}
	return *d, nil
}

// CreateDriver adds a driver with no active orders. An empty status means AVAILABLE.
func (s *Store) CreateDriver(d models.Driver) (models.Driver, error) {
	if strings.TrimSpace(d.Name) == "" {
		return models.Driver{}, models.ErrMissingName
	}
	if d.Status == "" {
		d.Status = models.DriverStatusAvailable
	}
	if d.Status == models.DriverStatusBusy {
		return models.Driver{}, fmt.Errorf("%w: new drivers cannot start BUSY", models.ErrInvalidDriverStatus)
	}

	s.mu.Lock()
	d.ID = s.newID()
	d.ActiveOrders = 0
	s.drivers[d.ID] = &d
	s.driverOrder = append(s.driverOrder, d.ID)
	ev := driverEvent(&d, s.now())
	out := d
	s.mu.Unlock()

	s.notify([]Event{ev})
	return out, nil
}

// SetDriverStatus changes a driver's shift status. A driver with active
// orders cannot go OFFLINE or AVAILABLE.
func (s *Store) SetDriverStatus(id string, status models.DriverStatus) (models.Driver, error) {
	s.mu.Lock()
	d, ok := s.drivers[id]
	if !ok {
		s.mu.Unlock()
		return models.Driver{}, fmt.Errorf("driver %s: %w", id, ErrNotFound)
	}
	if d.ActiveOrders > 0 && status != models.DriverStatusBusy {
		s.mu.Unlock()
		return models.Driver{}, fmt.Errorf("%s: %w", d.Name, ErrDriverHasOrders)
	}
	d.Status = status
	ev := driverEvent(d, s.now())
	out := *d
	s.mu.Unlock()

	s.notify([]Event{ev})
	return out, nil
}

// SetDriverDeviceToken stores the push token of the driver's phone
func (s *Store) SetDriverDeviceToken(id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drivers[id]
	if !ok {
		return fmt.Errorf("driver %s: %w", id, ErrNotFound)
	}
	d.DeviceToken = token
	return nil
}
