package handlers

import (
	"net/http"

	"bistro-backend/internal/services"
	"bistro-backend/pkg/utils"
)

func GetKitchenBoard(kitchen *services.KitchenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondData(w, http.StatusOK, kitchen.Board())
	}
}

// AdvanceOrder moves a ticket to the next kitchen column
func AdvanceOrder(kitchen *services.KitchenService) http.HandlerFunc {
	return orderAction(kitchen.Advance)
}
