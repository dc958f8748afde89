package handlers

import (
	"net/http"

	"bistro-backend/internal/services"
	"bistro-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

type DriverStatusRequest struct {
	Status string `json:"status"`
}

type DeviceTokenRequest struct {
	Token string `json:"token"`
}

func GetDrivers(drivers *services.DriverService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondData(w, http.StatusOK, drivers.List())
	}
}

func CreateDriver(drivers *services.DriverService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.DriverInput
		if !decode(w, r, &req) {
			return
		}
		driver, err := drivers.Create(req)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusCreated, driver)
	}
}

func UpdateDriverStatus(drivers *services.DriverService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DriverStatusRequest
		if !decode(w, r, &req) {
			return
		}
		driver, err := drivers.SetStatus(chi.URLParam(r, "id"), req.Status)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, driver)
	}
}

// RegisterDriverDevice stores the FCM token used for delivery pushes
func RegisterDriverDevice(drivers *services.DriverService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeviceTokenRequest
		if !decode(w, r, &req) {
			return
		}
		if req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "token is required")
			return
		}
		if err := drivers.RegisterDevice(chi.URLParam(r, "id"), req.Token); err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}
