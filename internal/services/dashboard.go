package services

import (
	"context"
	"time"

	"bistro-backend/internal/helpers"
	"bistro-backend/internal/models"
	"bistro-backend/internal/services/assist"
	"bistro-backend/internal/store"

	"github.com/shopspring/decimal"
)

const popularItemLimit = 5

type DashboardStats struct {
	Revenue      decimal.Decimal       `json:"revenue"`
	TotalOrders  int                   `json:"total_orders"`
	Preparing    int                   `json:"preparing"`
	Ready        int                   `json:"ready"`
	Pipeline     []models.StatusBucket `json:"pipeline"`
	HourlySales  []models.SalesPoint   `json:"hourly_sales"`
	PopularItems []string              `json:"popular_items"`
}

type DashboardService struct {
	store     *store.Store
	assistant assist.Assistant
	loc       *time.Location
}

func NewDashboardService(st *store.Store, assistant assist.Assistant, loc *time.Location) *DashboardService {
	return &DashboardService{store: st, assistant: assistant, loc: loc}
}

// Stats summarizes the live orders. Cancelled orders count toward the total
// but not toward revenue or sales.
func (d *DashboardService) Stats() DashboardStats {
	orders := d.store.Orders()
	billed := helpers.FilterOrders(orders, helpers.NotStatus(models.OrderStatusCancelled))
	counts := helpers.CountByStatus(orders)

	return DashboardStats{
		Revenue:      helpers.Revenue(billed),
		TotalOrders:  len(orders),
		Preparing:    counts[models.OrderStatusPending] + counts[models.OrderStatusCooking],
		Ready:        counts[models.OrderStatusReady],
		Pipeline:     helpers.Pipeline(orders),
		HourlySales:  helpers.HourlySales(billed, d.loc),
		PopularItems: helpers.PopularItems(orders, popularItemLimit),
	}
}

// Insight asks the assistant for one tip about today's sales
func (d *DashboardService) Insight(ctx context.Context) string {
	stats := d.Stats()
	return d.assistant.AnalyzeSales(ctx, stats.HourlySales, stats.PopularItems)
}
