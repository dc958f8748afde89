package handlers

import (
	"net/http"

	"bistro-backend/internal/services"
	"bistro-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
}

type CollectPickupRequest struct {
	PickupCode string `json:"pickup_code"`
}

func GetDeliveryBoard(delivery *services.DeliveryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondData(w, http.StatusOK, delivery.Board())
	}
}

func AssignDriver(delivery *services.DeliveryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AssignDriverRequest
		if !decode(w, r, &req) {
			return
		}
		if req.DriverID == "" {
			utils.RespondError(w, http.StatusBadRequest, "driver_id is required")
			return
		}
		order, err := delivery.Assign(chi.URLParam(r, "id"), req.DriverID)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, order.ToOrderResponse())
	}
}

func CompleteDelivery(delivery *services.DeliveryService) http.HandlerFunc {
	return orderAction(delivery.Complete)
}

func GetPickupBoard(pickup *services.PickupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondData(w, http.StatusOK, pickup.Board())
	}
}

// CollectPickup hands over a READY pickup order. The code is optional.
func CollectPickup(pickup *services.PickupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CollectPickupRequest
		if r.ContentLength > 0 && !decode(w, r, &req) {
			return
		}
		order, err := pickup.Collect(chi.URLParam(r, "id"), req.PickupCode)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, order.ToOrderResponse())
	}
}
