package handlers

import (
	"net/http"

	"bistro-backend/internal/models"
	"bistro-backend/internal/services"
	"bistro-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

type ConfirmReservationRequest struct {
	TableID *int `json:"table_id"`
}

func GetReservations(reservations *services.ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondData(w, http.StatusOK, reservations.Book())
	}
}

func CreateReservation(reservations *services.ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.ReservationInput
		if !decode(w, r, &req) {
			return
		}
		res, err := reservations.Create(req)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusCreated, res)
	}
}

// ConfirmReservation accepts a booking; table_id optionally holds a table
func ConfirmReservation(reservations *services.ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConfirmReservationRequest
		if r.ContentLength > 0 && !decode(w, r, &req) {
			return
		}
		res, err := reservations.Confirm(chi.URLParam(r, "id"), req.TableID)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, res)
	}
}

func reservationAction(fn func(id string) (models.Reservation, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fn(chi.URLParam(r, "id"))
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, res)
	}
}

func DeclineReservation(reservations *services.ReservationService) http.HandlerFunc {
	return reservationAction(reservations.Decline)
}

func CompleteReservation(reservations *services.ReservationService) http.HandlerFunc {
	return reservationAction(reservations.Complete)
}

func CancelReservation(reservations *services.ReservationService) http.HandlerFunc {
	return reservationAction(reservations.Cancel)
}
