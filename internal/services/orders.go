package services

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"bistro-backend/internal/helpers"
	"bistro-backend/internal/models"
	"bistro-backend/internal/store"
)

// OrderFilter holds raw query values. Empty or "ALL" means no filter.
type OrderFilter struct {
	Type   string
	Status string
}

// LineInput references a menu item by id
type LineInput struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// CreateOrderInput is a delivery or pickup order taken by phone or at the counter
type CreateOrderInput struct {
	Type            string      `json:"type"`
	CustomerName    string      `json:"customer_name"`
	DeliveryAddress string      `json:"delivery_address"`
	Items           []LineInput `json:"items"`
	Note            string      `json:"note"`
}

type OrderService struct {
	store *store.Store
	// newPickupCode is replaceable in tests
	newPickupCode func() string
}

func NewOrderService(st *store.Store) *OrderService {
	return &OrderService{store: st, newPickupCode: randomPickupCode}
}

func randomPickupCode() string {
	return fmt.Sprintf("P-%04d", rand.IntN(10000))
}

func (s *OrderService) List(f OrderFilter) ([]models.Order, error) {
	var preds []helpers.OrderPredicate
	if f.Type != "" && !strings.EqualFold(f.Type, models.FilterAll) {
		t, err := models.ParseOrderType(strings.ToUpper(f.Type))
		if err != nil {
			return nil, err
		}
		preds = append(preds, helpers.ByType(t))
	}
	if f.Status != "" && !strings.EqualFold(f.Status, models.FilterAll) {
		st, err := models.ParseOrderStatus(strings.ToUpper(f.Status))
		if err != nil {
			return nil, err
		}
		preds = append(preds, helpers.ByStatus(st))
	}
	return helpers.FilterOrders(s.store.Orders(), preds...), nil
}

func (s *OrderService) Get(id string) (models.Order, error) {
	return s.store.Order(id)
}

// Create takes a delivery or pickup order. Prices are snapshotted from the menu.
func (s *OrderService) Create(in CreateOrderInput) (models.Order, error) {
	t, err := models.ParseOrderType(strings.ToUpper(in.Type))
	if err != nil {
		return models.Order{}, err
	}

	var f models.Fulfillment
	switch t {
	case models.OrderTypeDelivery:
		f = models.Delivery{
			CustomerName:    strings.TrimSpace(in.CustomerName),
			DeliveryAddress: strings.TrimSpace(in.DeliveryAddress),
		}
	case models.OrderTypePickup:
		f = models.Pickup{CustomerName: strings.TrimSpace(in.CustomerName), PickupCode: s.newPickupCode()}
	default:
		return models.Order{}, fmt.Errorf("%w: dine-in orders are submitted from the table", ErrWrongOrderType)
	}

	items, err := s.resolveLines(in.Items)
	if err != nil {
		return models.Order{}, err
	}
	return s.store.CreateOrder(f, items, strings.TrimSpace(in.Note))
}

func (s *OrderService) resolveLines(lines []LineInput) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(lines))
	index := make(map[string]int)
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: %s", models.ErrInvalidQuantity, line.MenuItemID)
		}
		menuItem, err := s.store.MenuItem(line.MenuItemID)
		if err != nil {
			return nil, err
		}
		if !menuItem.Available {
			return nil, fmt.Errorf("%s: %w", menuItem.Name, store.ErrItemUnavailable)
		}
		if i, ok := index[line.MenuItemID]; ok {
			items[i].Quantity += line.Quantity
			continue
		}
		item := menuItem.ToOrderItem()
		item.Quantity = line.Quantity
		index[line.MenuItemID] = len(items)
		items = append(items, item)
	}
	return items, nil
}

// Confirm acknowledges a PENDING order
func (s *OrderService) Confirm(id string) (models.Order, error) {
	return s.store.TransitionOrder(id, store.To(models.OrderStatusConfirmed))
}

// Cancel stops any unfinished order, freeing its table or driver
func (s *OrderService) Cancel(id string) (models.Order, error) {
	return s.store.TransitionOrder(id, store.To(models.OrderStatusCancelled))
}

// Serve marks a READY dine-in order as brought to the table
func (s *OrderService) Serve(id string) (models.Order, error) {
	return s.store.TransitionOrder(id, dineInOnly(models.OrderStatusServed))
}

// Close settles a SERVED dine-in order. The table becomes DIRTY.
func (s *OrderService) Close(id string) (models.Order, error) {
	return s.store.TransitionOrder(id, func(o models.Order) (models.OrderStatus, error) {
		if o.Type != models.OrderTypeDineIn {
			return "", fmt.Errorf("%w: %s", ErrWrongOrderType, o.Type)
		}
		if o.Status != models.OrderStatusServed {
			return "", fmt.Errorf("%w: close requires SERVED, order is %s", models.ErrInvalidTransition, o.Status)
		}
		return models.OrderStatusCompleted, nil
	})
}

func dineInOnly(next models.OrderStatus) store.NextStatus {
	return func(o models.Order) (models.OrderStatus, error) {
		if o.Type != models.OrderTypeDineIn {
			return "", fmt.Errorf("%w: %s", ErrWrongOrderType, o.Type)
		}
		return next, nil
	}
}
