package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"bistro-backend/internal/models"
	"bistro-backend/internal/services"
	"bistro-backend/internal/store"
	"bistro-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var (
	conflictErrors = []error{
		models.ErrInvalidTransition,
		models.ErrInvalidReservationTransition,
		store.ErrDuplicate,
		store.ErrTableNotReady,
		store.ErrTableBusy,
		store.ErrItemUnavailable,
		store.ErrAlreadyAssigned,
		store.ErrDriverOffline,
		store.ErrDriverHasOrders,
		store.ErrInvalidTableState,
		services.ErrNoDriver,
	}
	badRequestErrors = []error{
		models.ErrInvalidOrderType,
		models.ErrInvalidOrderStatus,
		models.ErrInvalidQuantity,
		models.ErrInvalidFulfillment,
		models.ErrEmptyOrder,
		models.ErrInvalidCategory,
		models.ErrInvalidPrice,
		models.ErrMissingName,
		models.ErrMissingDate,
		models.ErrInvalidTableStatus,
		models.ErrInvalidDriverStatus,
		store.ErrUnknownCategory,
		store.ErrNotDelivery,
		services.ErrInvalidInput,
		services.ErrWrongOrderType,
		services.ErrPickupCodeMismatch,
		services.ErrNoDescription,
	}
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrMediaUnavailable):
		return http.StatusBadGateway
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// respondErr writes err with its mapped status. Unexpected errors are logged
// and hidden from the client.
func respondErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("unexpected handler error", zap.Error(err))
		utils.RespondError(w, status, "Internal server error")
		return
	}
	utils.RespondError(w, status, err.Error())
}

func tableIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decode reads the body into dst or writes a 400
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.DecodeJSON(r, dst); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
