package handlers

import (
	"net/http"

	"bistro-backend/internal/services"
	"bistro-backend/pkg/utils"
)

func GetDashboard(dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondData(w, http.StatusOK, dashboard.Stats())
	}
}

// GetDashboardInsight always answers; the assistant falls back to a canned tip
func GetDashboardInsight(dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondData(w, http.StatusOK, map[string]string{"insight": dashboard.Insight(r.Context())})
	}
}
