package models

import (
	"errors"
	"fmt"
	"time"
)

// ReservationStatus tracks a booking from request to visit
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

var (
	ErrInvalidReservationTransition = errors.New("invalid reservation transition")
	ErrMissingDate                  = errors.New("reservation date is required")
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCompleted, ReservationStatusCancelled},
}

// ValidateReservationTransition checks if a reservation may move from current to next
func ValidateReservationTransition(current, next ReservationStatus) error {
	for _, s := range reservationTransitions[current] {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidReservationTransition, current, next)
}

// Reservation is a table booking
type Reservation struct {
	ID           string            `json:"id"`
	CustomerName string            `json:"customer_name"`
	Pax          int               `json:"pax"`
	Date         time.Time         `json:"date"`
	Status       ReservationStatus `json:"status"`
	TableID      *int              `json:"table_id,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	Phone        string            `json:"phone"`
}

// IsUpcoming returns true while the booking is still expected to happen
func (r *Reservation) IsUpcoming() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}
