package store

import (
	"fmt"
	"strings"

	"bistro-backend/internal/models"
)

func (s *Store) Reservations() []models.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Reservation, 0, len(s.reservationOrder))
	for _, id := range s.reservationOrder {
		out = append(out, cloneReservation(s.reservations[id]))
	}
	return out
}

func (s *Store) Reservation(id string) (models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reservations[id]
	if !ok {
		return models.Reservation{}, fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}
	return cloneReservation(r), nil
}

// CreateReservation stores a PENDING booking without a table
func (s *Store) CreateReservation(r models.Reservation) (models.Reservation, error) {
	if strings.TrimSpace(r.CustomerName) == "" {
		return models.Reservation{}, models.ErrMissingName
	}
	if r.Pax < 1 {
		return models.Reservation{}, fmt.Errorf("%w: party size must be at least 1", models.ErrInvalidQuantity)
	}
	if r.Date.IsZero() {
		return models.Reservation{}, models.ErrMissingDate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.newID()
	r.Status = models.ReservationStatusPending
	r.TableID = nil
	s.reservations[r.ID] = &r
	s.reservationOrder = append(s.reservationOrder, r.ID)
	return cloneReservation(&r), nil
}

// TransitionReservation moves a reservation to next. Confirming with a table
// marks that table RESERVED; it must be AVAILABLE. Completing or cancelling
// gives a still-RESERVED table back to the floor.
func (s *Store) TransitionReservation(id string, next models.ReservationStatus, tableID *int) (models.Reservation, error) {
	s.mu.Lock()
	r, ok := s.reservations[id]
	if !ok {
		s.mu.Unlock()
		return models.Reservation{}, fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}
	if err := models.ValidateReservationTransition(r.Status, next); err != nil {
		s.mu.Unlock()
		return models.Reservation{}, err
	}

	now := s.now()
	var events []Event
	switch next {
	case models.ReservationStatusConfirmed:
		if tableID != nil {
			t, ok := s.tables[*tableID]
			if !ok {
				s.mu.Unlock()
				return models.Reservation{}, fmt.Errorf("table %d: %w", *tableID, ErrNotFound)
			}
			if t.Status != models.TableStatusAvailable {
				s.mu.Unlock()
				return models.Reservation{}, fmt.Errorf("%w: table %s is %s", ErrInvalidTableState, t.Name, t.Status)
			}
			t.Status = models.TableStatusReserved
			id := t.ID
			r.TableID = &id
			events = append(events, tableEvent(t, now))
		}
	case models.ReservationStatusCompleted, models.ReservationStatusCancelled:
		if r.TableID != nil {
			if t, ok := s.tables[*r.TableID]; ok && t.Status == models.TableStatusReserved {
				t.Status = models.TableStatusAvailable
				events = append(events, tableEvent(t, now))
			}
		}
	}
	r.Status = next
	out := cloneReservation(r)
	s.mu.Unlock()

	s.notify(events)
	return out, nil
}

func cloneReservation(r *models.Reservation) models.Reservation {
	c := *r
	if r.TableID != nil {
		id := *r.TableID
		c.TableID = &id
	}
	return c
}
