package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"bistro-backend/internal/models"
	"bistro-backend/internal/store"
)

type ReservationInput struct {
	CustomerName string    `json:"customer_name"`
	Pax          int       `json:"pax"`
	Date         time.Time `json:"date"`
	Notes        string    `json:"notes"`
	Phone        string    `json:"phone"`
}

// ReservationBook splits bookings into upcoming (soonest first) and past (latest first)
type ReservationBook struct {
	Upcoming []models.Reservation `json:"upcoming"`
	Past     []models.Reservation `json:"past"`
}

type ReservationService struct {
	store *store.Store
}

func NewReservationService(st *store.Store) *ReservationService {
	return &ReservationService{store: st}
}

func (r *ReservationService) Book() ReservationBook {
	book := ReservationBook{Upcoming: []models.Reservation{}, Past: []models.Reservation{}}
	for _, res := range r.store.Reservations() {
		if res.IsUpcoming() {
			book.Upcoming = append(book.Upcoming, res)
		} else {
			book.Past = append(book.Past, res)
		}
	}
	sort.SliceStable(book.Upcoming, func(i, j int) bool { return book.Upcoming[i].Date.Before(book.Upcoming[j].Date) })
	sort.SliceStable(book.Past, func(i, j int) bool { return book.Past[i].Date.After(book.Past[j].Date) })
	return book
}

func (r *ReservationService) Create(in ReservationInput) (models.Reservation, error) {
	return r.store.CreateReservation(models.Reservation{
		CustomerName: strings.TrimSpace(in.CustomerName),
		Pax:          in.Pax,
		Date:         in.Date,
		Notes:        strings.TrimSpace(in.Notes),
		Phone:        strings.TrimSpace(in.Phone),
	})
}

// Confirm accepts a pending booking, optionally holding a table for it
func (r *ReservationService) Confirm(id string, tableID *int) (models.Reservation, error) {
	return r.store.TransitionReservation(id, models.ReservationStatusConfirmed, tableID)
}

// Decline rejects a booking that was never confirmed
func (r *ReservationService) Decline(id string) (models.Reservation, error) {
	res, err := r.store.Reservation(id)
	if err != nil {
		return models.Reservation{}, err
	}
	if res.Status != models.ReservationStatusPending {
		return models.Reservation{}, fmt.Errorf("%w: only pending reservations can be declined", models.ErrInvalidReservationTransition)
	}
	return r.store.TransitionReservation(id, models.ReservationStatusCancelled, nil)
}

func (r *ReservationService) Complete(id string) (models.Reservation, error) {
	return r.store.TransitionReservation(id, models.ReservationStatusCompleted, nil)
}

func (r *ReservationService) Cancel(id string) (models.Reservation, error) {
	return r.store.TransitionReservation(id, models.ReservationStatusCancelled, nil)
}
