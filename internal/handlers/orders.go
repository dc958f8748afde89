package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"bistro-backend/internal/database"
	"bistro-backend/internal/models"
	"bistro-backend/internal/services"
	"bistro-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// HistoryReader reads the order archive. Nil when the archive is disabled.
type HistoryReader interface {
	ListArchived(ctx context.Context, f database.HistoryFilter) ([]database.ArchivedOrder, error)
	StatusLog(ctx context.Context, orderID string) ([]database.StatusChange, error)
}

func toResponses(orders []models.Order) []models.OrderResponse {
	out := make([]models.OrderResponse, len(orders))
	for i := range orders {
		out[i] = orders[i].ToOrderResponse()
	}
	return out
}

// GetOrders lists live orders, optionally filtered by ?status= and ?type=
func GetOrders(orders *services.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list, err := orders.List(services.OrderFilter{Type: q.Get("type"), Status: q.Get("status")})
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, toResponses(list))
	}
}

func GetOrder(orders *services.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := orders.Get(chi.URLParam(r, "id"))
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, order.ToOrderResponse())
	}
}

// CreateOrder takes a delivery or pickup order
func CreateOrder(orders *services.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.CreateOrderInput
		if !decode(w, r, &req) {
			return
		}
		order, err := orders.Create(req)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusCreated, order.ToOrderResponse())
	}
}

// orderAction adapts a single-id order operation to a handler
func orderAction(fn func(id string) (models.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := fn(chi.URLParam(r, "id"))
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, order.ToOrderResponse())
	}
}

func ConfirmOrder(orders *services.OrderService) http.HandlerFunc { return orderAction(orders.Confirm) }
func CancelOrder(orders *services.OrderService) http.HandlerFunc  { return orderAction(orders.Cancel) }
func ServeOrder(orders *services.OrderService) http.HandlerFunc   { return orderAction(orders.Serve) }
func CloseOrder(orders *services.OrderService) http.HandlerFunc   { return orderAction(orders.Close) }

// GetOrderHistory reads finished orders from the archive (?type=&limit=)
func GetOrderHistory(history HistoryReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if history == nil {
			utils.RespondError(w, http.StatusServiceUnavailable, "Order archive is not configured")
			return
		}

		var f database.HistoryFilter
		if t := r.URL.Query().Get("type"); t != "" && !strings.EqualFold(t, models.FilterAll) {
			orderType, err := models.ParseOrderType(strings.ToUpper(t))
			if err != nil {
				respondErr(w, err)
				return
			}
			f.Type = orderType
		}
		if l := r.URL.Query().Get("limit"); l != "" {
			limit, err := strconv.Atoi(l)
			if err != nil || limit < 1 {
				utils.RespondError(w, http.StatusBadRequest, "limit must be a positive number")
				return
			}
			f.Limit = limit
		}

		archived, err := history.ListArchived(r.Context(), f)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, archived)
	}
}

// GetOrderStatusLog returns the archived status changes of one order
func GetOrderStatusLog(history HistoryReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if history == nil {
			utils.RespondError(w, http.StatusServiceUnavailable, "Order archive is not configured")
			return
		}
		changes, err := history.StatusLog(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, changes)
	}
}
