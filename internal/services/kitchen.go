package services

import (
	"bistro-backend/internal/helpers"
	"bistro-backend/internal/models"
	"bistro-backend/internal/store"
)

// KitchenTicket is an order card on the kitchen display
type KitchenTicket struct {
	models.OrderResponse
	AgeMinutes int    `json:"age_minutes"`
	Urgency    string `json:"urgency"`
}

// KitchenBoard has the three kitchen columns, each oldest first.
// Ready is read-only: the kitchen has nothing left to do with those orders.
type KitchenBoard struct {
	Pending []KitchenTicket `json:"pending"`
	Cooking []KitchenTicket `json:"cooking"`
	Ready   []KitchenTicket `json:"ready"`
}

type KitchenService struct {
	store *store.Store
}

func NewKitchenService(st *store.Store) *KitchenService {
	return &KitchenService{store: st}
}

func (k *KitchenService) Board() KitchenBoard {
	orders := k.store.Orders()
	helpers.SortFIFO(orders)
	now := k.store.Now()

	column := func(statuses ...models.OrderStatus) []KitchenTicket {
		matched := helpers.FilterOrders(orders, helpers.ByStatuses(statuses...))
		tickets := make([]KitchenTicket, len(matched))
		for i := range matched {
			tickets[i] = KitchenTicket{
				OrderResponse: matched[i].ToOrderResponse(),
				AgeMinutes:    matched[i].AgeMinutes(now),
				Urgency:       matched[i].Urgency(now),
			}
		}
		return tickets
	}

	return KitchenBoard{
		Pending: column(models.OrderStatusPending, models.OrderStatusConfirmed),
		Cooking: column(models.OrderStatusCooking),
		Ready:   column(models.OrderStatusReady),
	}
}

// Advance moves PENDING or CONFIRMED to COOKING and COOKING to READY.
// Anything else is rejected with models.ErrInvalidTransition.
func (k *KitchenService) Advance(orderID string) (models.Order, error) {
	return k.store.TransitionOrder(orderID, func(o models.Order) (models.OrderStatus, error) {
		return models.KitchenNext(o.Status)
	})
}
