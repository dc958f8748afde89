package handlers

import (
	"net/http"

	"bistro-backend/internal/services"
	"bistro-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

type AddDraftItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
}

type SubmitDraftRequest struct {
	Note string `json:"note"`
}

// GetDraft returns the table's unsent lines with subtotal, tax and total
func GetDraft(pos *services.POSService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, ok := tableIDParam(r)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "Invalid table id")
			return
		}
		checkout, err := pos.Draft(tableID)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, checkout)
	}
}

func AddDraftItem(pos *services.POSService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, ok := tableIDParam(r)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "Invalid table id")
			return
		}
		var req AddDraftItemRequest
		if !decode(w, r, &req) {
			return
		}
		if req.MenuItemID == "" {
			utils.RespondError(w, http.StatusBadRequest, "menu_item_id is required")
			return
		}
		checkout, err := pos.AddItem(tableID, req.MenuItemID)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, checkout)
	}
}

func RemoveDraftItem(pos *services.POSService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, ok := tableIDParam(r)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "Invalid table id")
			return
		}
		checkout, err := pos.RemoveItem(tableID, chi.URLParam(r, "menuItemId"))
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, checkout)
	}
}

// SubmitDraft sends the table's draft to the kitchen. The body is optional.
func SubmitDraft(pos *services.POSService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, ok := tableIDParam(r)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "Invalid table id")
			return
		}
		var req SubmitDraftRequest
		if r.ContentLength > 0 && !decode(w, r, &req) {
			return
		}
		order, err := pos.Submit(tableID, req.Note)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusCreated, order.ToOrderResponse())
	}
}
