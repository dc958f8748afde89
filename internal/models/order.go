package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderType is fixed when the order is created
type OrderType string

const (
	OrderTypeDineIn   OrderType = "DINE_IN"
	OrderTypeDelivery OrderType = "DELIVERY"
	OrderTypePickup   OrderType = "PICKUP"
)

// OrderStatus represents where an order is in its lifecycle
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCooking   OrderStatus = "COOKING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusServed    OrderStatus = "SERVED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

var (
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidOrderType   = errors.New("invalid order type")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidFulfillment = errors.New("fulfillment does not match order type")
	ErrEmptyOrder         = errors.New("order has no items")
)

// AllOrderStatuses lists statuses in pipeline order
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusCooking,
	OrderStatusReady,
	OrderStatusServed,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// allowedTransitions is keyed by current status; terminal statuses have no entry.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCooking, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusCooking, OrderStatusCancelled},
	OrderStatusCooking:   {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusServed, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusServed:    {OrderStatusCompleted, OrderStatusCancelled},
}

func ParseOrderType(s string) (OrderType, error) {
	switch t := OrderType(s); t {
	case OrderTypeDineIn, OrderTypeDelivery, OrderTypePickup:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrderType, s)
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range AllOrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrderStatus, s)
}

// IsTerminal returns true for COMPLETED and CANCELLED
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// IsKitchenActive returns true while the kitchen owns the order
func (s OrderStatus) IsKitchenActive() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed || s == OrderStatusCooking
}

// ValidateTransition checks if moving from current to next is allowed.
func ValidateTransition(current, next OrderStatus) error {
	allowed, ok := allowedTransitions[current]
	if !ok {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, current)
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
}

// KitchenNext returns the status the kitchen moves an order to.
// PENDING and CONFIRMED go to COOKING, COOKING goes to READY.
func KitchenNext(current OrderStatus) (OrderStatus, error) {
	switch current {
	case OrderStatusPending, OrderStatusConfirmed:
		return OrderStatusCooking, nil
	case OrderStatusCooking:
		return OrderStatusReady, nil
	}
	return "", fmt.Errorf("%w: kitchen cannot advance %s", ErrInvalidTransition, current)
}

// OrderItem is one line of an order
type OrderItem struct {
	MenuItemID string          `json:"menu_item_id" db:"menu_item_id"`
	Name       string          `json:"name" db:"name"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Quantity   int             `json:"quantity" db:"quantity"`
}

// LineTotal returns price * quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumItems returns the tax-exclusive total of all lines
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Fulfillment carries the data that only exists for one order type.
// Exactly one of DineIn, Delivery or Pickup is attached to an order.
type Fulfillment interface {
	OrderType() OrderType
	validate() error
}

// DineIn is served at a table
type DineIn struct {
	TableID int `json:"table_id"`
}

func (DineIn) OrderType() OrderType { return OrderTypeDineIn }

func (d DineIn) validate() error {
	if d.TableID <= 0 {
		return errors.New("table id is required for dine-in orders")
	}
	return nil
}

// Delivery goes out with a driver
type Delivery struct {
	CustomerName    string `json:"customer_name"`
	DeliveryAddress string `json:"delivery_address"`
	DriverID        string `json:"driver_id,omitempty"`
}

func (Delivery) OrderType() OrderType { return OrderTypeDelivery }

func (d Delivery) validate() error {
	if d.CustomerName == "" || d.DeliveryAddress == "" {
		return errors.New("customer name and delivery address are required for delivery orders")
	}
	return nil
}

// Pickup is collected at the counter with a code
type Pickup struct {
	CustomerName string `json:"customer_name"`
	PickupCode   string `json:"pickup_code"`
}

func (Pickup) OrderType() OrderType { return OrderTypePickup }

func (p Pickup) validate() error {
	if p.CustomerName == "" || p.PickupCode == "" {
		return errors.New("customer name and pickup code are required for pickup orders")
	}
	return nil
}

// Order is a submitted order. ID, Type and Timestamp never change after creation.
type Order struct {
	ID          string
	Type        OrderType
	Status      OrderStatus
	Items       []OrderItem
	TotalAmount decimal.Decimal
	Timestamp   time.Time
	Note        string
	Fulfillment Fulfillment
}

// NewOrder builds a PENDING order and derives its total from the items.
func NewOrder(id string, f Fulfillment, items []OrderItem, note string, now time.Time) (Order, error) {
	if f == nil {
		return Order{}, ErrInvalidFulfillment
	}
	if err := f.validate(); err != nil {
		return Order{}, fmt.Errorf("%w: %v", ErrInvalidFulfillment, err)
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyOrder
	}
	lines := make([]OrderItem, len(items))
	for i, item := range items {
		if item.Quantity < 1 {
			return Order{}, fmt.Errorf("%w: %s", ErrInvalidQuantity, item.Name)
		}
		lines[i] = item
	}
	return Order{
		ID:          id,
		Type:        f.OrderType(),
		Status:      OrderStatusPending,
		Items:       lines,
		TotalAmount: SumItems(lines),
		Timestamp:   now,
		Note:        note,
		Fulfillment: f,
	}, nil
}

// Clone returns a copy that shares no slices with o
func (o Order) Clone() Order {
	c := o
	c.Items = append([]OrderItem(nil), o.Items...)
	return c
}

// TableID returns the table for dine-in orders
func (o Order) TableID() (int, bool) {
	d, ok := o.Fulfillment.(DineIn)
	return d.TableID, ok
}

// DriverID returns the assigned driver for delivery orders, empty when unassigned
func (o Order) DriverID() string {
	if d, ok := o.Fulfillment.(Delivery); ok {
		return d.DriverID
	}
	return ""
}

// AgeMinutes returns whole minutes since the order was placed
func (o Order) AgeMinutes(now time.Time) int {
	if now.Before(o.Timestamp) {
		return 0
	}
	return int(now.Sub(o.Timestamp) / time.Minute)
}

// Urgency grades a kitchen ticket by age
func (o Order) Urgency(now time.Time) string {
	switch m := o.AgeMinutes(now); {
	case m > 20:
		return "red"
	case m > 10:
		return "yellow"
	default:
		return "green"
	}
}

// OrderResponse flattens the fulfillment variant for JSON clients
type OrderResponse struct {
	ID              string          `json:"id"`
	Type            OrderType       `json:"type"`
	Status          OrderStatus     `json:"status"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Timestamp       time.Time       `json:"timestamp"`
	Note            string          `json:"note,omitempty"`
	TableID         *int            `json:"table_id,omitempty"`
	CustomerName    string          `json:"customer_name,omitempty"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	DriverID        string          `json:"driver_id,omitempty"`
	PickupCode      string          `json:"pickup_code,omitempty"`
}

func (o *Order) ToOrderResponse() OrderResponse {
	resp := OrderResponse{
		ID:          o.ID,
		Type:        o.Type,
		Status:      o.Status,
		Items:       o.Items,
		TotalAmount: o.TotalAmount,
		Timestamp:   o.Timestamp,
		Note:        o.Note,
	}
	switch f := o.Fulfillment.(type) {
	case DineIn:
		tableID := f.TableID
		resp.TableID = &tableID
	case Delivery:
		resp.CustomerName = f.CustomerName
		resp.DeliveryAddress = f.DeliveryAddress
		resp.DriverID = f.DriverID
	case Pickup:
		resp.CustomerName = f.CustomerName
		resp.PickupCode = f.PickupCode
	}
	if resp.Items == nil {
		resp.Items = []OrderItem{}
	}
	return resp
}
