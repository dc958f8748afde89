package services

import (
	"fmt"
	"strings"

	"bistro-backend/internal/helpers"
	"bistro-backend/internal/models"
	"bistro-backend/internal/store"
)

type DeliveryBoard struct {
	Unassigned       []models.OrderResponse `json:"unassigned"`
	Active           []models.OrderResponse `json:"active"`
	AvailableDrivers int                    `json:"available_drivers"`
}

type DeliveryService struct {
	store *store.Store
}

func NewDeliveryService(st *store.Store) *DeliveryService {
	return &DeliveryService{store: st}
}

func (d *DeliveryService) Board() DeliveryBoard {
	orders := d.store.Orders()
	available := 0
	for _, driver := range d.store.Drivers() {
		if driver.Status == models.DriverStatusAvailable {
			available++
		}
	}
	return DeliveryBoard{
		Unassigned:       responses(helpers.FilterOrders(orders, helpers.UnassignedDelivery)),
		Active:           responses(helpers.FilterOrders(orders, helpers.ActiveDelivery)),
		AvailableDrivers: available,
	}
}

func (d *DeliveryService) Assign(orderID, driverID string) (models.Order, error) {
	return d.store.AssignDriver(orderID, driverID)
}

// Complete marks a READY delivery with a driver as delivered
func (d *DeliveryService) Complete(orderID string) (models.Order, error) {
	return d.store.TransitionOrder(orderID, func(o models.Order) (models.OrderStatus, error) {
		if o.Type != models.OrderTypeDelivery {
			return "", fmt.Errorf("%w: %s", ErrWrongOrderType, o.Type)
		}
		if o.DriverID() == "" {
			return "", ErrNoDriver
		}
		return readyToCompleted(o)
	})
}

type PickupBoard struct {
	Active  []models.OrderResponse `json:"active"`
	History []models.OrderResponse `json:"history"`
}

type PickupService struct {
	store *store.Store
}

func NewPickupService(st *store.Store) *PickupService {
	return &PickupService{store: st}
}

func (p *PickupService) Board() PickupBoard {
	orders := p.store.Orders()
	history := helpers.FilterOrders(orders, helpers.PickupHistory)
	// newest first
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return PickupBoard{
		Active:  responses(helpers.FilterOrders(orders, helpers.ActivePickup)),
		History: responses(history),
	}
}

// Collect hands a READY pickup order to the customer. The code is checked
// when one is given.
func (p *PickupService) Collect(orderID, code string) (models.Order, error) {
	return p.store.TransitionOrder(orderID, func(o models.Order) (models.OrderStatus, error) {
		pickup, ok := o.Fulfillment.(models.Pickup)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrWrongOrderType, o.Type)
		}
		if code = strings.TrimSpace(code); code != "" && !strings.EqualFold(code, pickup.PickupCode) {
			return "", ErrPickupCodeMismatch
		}
		return readyToCompleted(o)
	})
}

func readyToCompleted(o models.Order) (models.OrderStatus, error) {
	if o.Status != models.OrderStatusReady {
		return "", fmt.Errorf("%w: completion requires READY, order is %s", models.ErrInvalidTransition, o.Status)
	}
	return models.OrderStatusCompleted, nil
}

func responses(orders []models.Order) []models.OrderResponse {
	out := make([]models.OrderResponse, len(orders))
	for i := range orders {
		out[i] = orders[i].ToOrderResponse()
	}
	return out
}
