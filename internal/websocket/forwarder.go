package websocket

import (
	"bistro-backend/internal/models"
	"bistro-backend/internal/store"
)

// Roles that follow the floor in real time
var (
	orderRoles = []string{models.RoleManager, models.RoleKitchen, models.RoleCashier, models.RoleAdmin}
	floorRoles = []string{models.RoleManager, models.RoleCashier, models.RoleAdmin}
	staffRoles = []string{models.RoleManager, models.RoleAdmin}
)

// Envelope is the JSON frame pushed to clients
type Envelope struct {
	Type store.EventType `json:"type"`
	Data interface{}     `json:"data"`
}

// OrderPayload is the data of an order event
type OrderPayload struct {
	models.OrderResponse
	PreviousStatus models.OrderStatus `json:"previous_status,omitempty"`
}

// Forwarder pushes store events to connected clients
type Forwarder struct {
	hub   *Hub
	store *store.Store
}

func NewForwarder(hub *Hub, st *store.Store) *Forwarder {
	return &Forwarder{hub: hub, store: st}
}

// Handle is a store.Subscriber
func (f *Forwarder) Handle(ev store.Event) {
	switch {
	case ev.Type == store.EventCategoriesUpdated:
		f.hub.BroadcastToRole(Envelope{Type: ev.Type, Data: ev.Categories}, floorRoles...)

	case ev.Order != nil:
		msg := Envelope{Type: ev.Type, Data: OrderPayload{
			OrderResponse:  ev.Order.ToOrderResponse(),
			PreviousStatus: ev.Previous,
		}}
		f.hub.BroadcastToRole(msg, orderRoles...)
		if ev.Type == store.EventOrderDriverAssigned && ev.Driver != nil {
			if driver, err := f.store.Driver(ev.Driver.ID); err == nil && driver.UserID != "" {
				f.hub.BroadcastToUser(driver.UserID, msg)
			}
		}

	case ev.Table != nil:
		f.hub.BroadcastToRole(Envelope{Type: ev.Type, Data: ev.Table}, floorRoles...)

	case ev.Driver != nil:
		msg := Envelope{Type: ev.Type, Data: ev.Driver}
		f.hub.BroadcastToRole(msg, staffRoles...)
		if ev.Driver.UserID != "" {
			f.hub.BroadcastToUser(ev.Driver.UserID, msg)
		}

	case ev.Menu != nil:
		f.hub.BroadcastToRole(Envelope{Type: ev.Type, Data: ev.Menu}, floorRoles...)
	}
}
