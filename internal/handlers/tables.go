package handlers

import (
	"net/http"
	"strings"

	"bistro-backend/internal/models"
	"bistro-backend/internal/store"
	"bistro-backend/pkg/utils"
)

type TableStatusRequest struct {
	Status string `json:"status"`
}

func GetTables(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondData(w, http.StatusOK, st.Tables())
	}
}

// UpdateTableStatus sets a table status by hand, e.g. RESERVED for a walk-in hold
func UpdateTableStatus(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := tableIDParam(r)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "Invalid table id")
			return
		}
		var req TableStatusRequest
		if !decode(w, r, &req) {
			return
		}
		status, err := models.ParseTableStatus(strings.ToUpper(req.Status))
		if err != nil {
			respondErr(w, err)
			return
		}
		table, err := st.SetTableStatus(id, status)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, table)
	}
}

func CleanTable(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := tableIDParam(r)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "Invalid table id")
			return
		}
		table, err := st.CleanTable(id)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, table)
	}
}
