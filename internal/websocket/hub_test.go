package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bistro-backend/internal/middleware"
	"bistro-backend/internal/models"
	"bistro-backend/internal/store"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

// fakeClient is registered without a connection; tests read its send channel
func fakeClient(hub *Hub, userID, role string) *Client {
	c := &Client{UserID: userID, UserRole: role, hub: hub, send: make(chan []byte, 8), pong: make(chan struct{}, 1), logger: hub.logger}
	hub.Register(c)
	return c
}

func receive(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case data := <-c.send:
		var env struct {
			Type store.EventType `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatal(err)
		}
		return Envelope{Type: env.Type, Data: env.Data}
	case <-time.After(time.Second):
		t.Fatalf("%s (%s) received nothing", c.UserID, c.UserRole)
	}
	return Envelope{}
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Errorf("%s (%s) unexpectedly received %s", c.UserID, c.UserRole, data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastByRoleAndUser(t *testing.T) {
	hub := startHub(t)
	kitchen := fakeClient(hub, "u-kitchen", models.RoleKitchen)
	cashier := fakeClient(hub, "u-cashier", models.RoleCashier)
	driver := fakeClient(hub, "u-driver", models.RoleDriver)

	hub.BroadcastToRole(map[string]string{"type": "ping"}, models.RoleKitchen)
	receive(t, kitchen)
	expectNothing(t, cashier)
	expectNothing(t, driver)

	hub.BroadcastToUser("u-driver", map[string]string{"type": "hello"})
	receive(t, driver)
	expectNothing(t, kitchen)

	if !hub.IsUserConnected("u-cashier") || hub.GetClientCount() != 3 {
		t.Errorf("unexpected hub state: %d clients", hub.GetClientCount())
	}
	hub.Unregister(cashier)
	if _, ok := <-cashier.send; ok {
		t.Error("send channel not closed on unregister")
	}
}

func TestForwarderRoutesStoreEvents(t *testing.T) {
	hub := startHub(t)
	st := store.New(store.Options{TableCount: 4})
	st.Subscribe(NewForwarder(hub, st).Handle)

	kitchen := fakeClient(hub, "u-kitchen", models.RoleKitchen)
	cashier := fakeClient(hub, "u-cashier", models.RoleCashier)
	driverUser := fakeClient(hub, "u-rita", models.RoleDriver)
	other := fakeClient(hub, "u-sam", models.RoleDriver)

	item, err := st.CreateMenuItem(models.MenuItem{Name: "Soup", Price: decimal.NewFromInt(6), Category: models.CategoryMain, Available: true})
	if err != nil {
		t.Fatal(err)
	}
	if env := receive(t, cashier); env.Type != store.EventMenuUpdated {
		t.Errorf("cashier got %s", env.Type)
	}
	expectNothing(t, kitchen)

	if _, err := st.AddDraftItem(2, item.ID); err != nil {
		t.Fatal(err)
	}
	// table went OCCUPIED; kitchen does not follow tables
	if env := receive(t, cashier); env.Type != store.EventTableUpdated {
		t.Errorf("cashier got %s", env.Type)
	}
	expectNothing(t, kitchen)

	driver, _ := st.CreateDriver(models.Driver{Name: "Rita", UserID: "u-rita"})
	receive(t, driverUser) // driver_updated
	order, err := st.CreateOrder(models.Delivery{CustomerName: "Ann", DeliveryAddress: "1 Main St"},
		[]models.OrderItem{item.ToOrderItem()}, "")
	if err != nil {
		t.Fatal(err)
	}
	if env := receive(t, kitchen); env.Type != store.EventOrderCreated {
		t.Errorf("kitchen got %s", env.Type)
	}
	receive(t, cashier)

	if _, err := st.AssignDriver(order.ID, driver.ID); err != nil {
		t.Fatal(err)
	}
	if env := receive(t, kitchen); env.Type != store.EventOrderDriverAssigned {
		t.Errorf("kitchen got %s", env.Type)
	}
	if env := receive(t, driverUser); env.Type != store.EventOrderDriverAssigned {
		t.Errorf("driver got %s", env.Type)
	}
	expectNothing(t, other)
}

func TestForwarderRoutesMenuAndCategoryChanges(t *testing.T) {
	hub := startHub(t)
	st := store.New(store.Options{TableCount: 2})
	st.Subscribe(NewForwarder(hub, st).Handle)

	cashier := fakeClient(hub, "u-cashier", models.RoleCashier)
	kitchen := fakeClient(hub, "u-kitchen", models.RoleKitchen)

	if _, err := st.AddCategory("brunch"); err != nil {
		t.Fatal(err)
	}
	if env := receive(t, cashier); env.Type != store.EventCategoriesUpdated {
		t.Errorf("cashier got %s", env.Type)
	}
	item, err := st.CreateMenuItem(models.MenuItem{Name: "Waffles", Price: decimal.NewFromInt(9), Category: "BRUNCH", Available: true})
	if err != nil {
		t.Fatal(err)
	}
	receive(t, cashier) // menu_updated
	if err := st.DeleteMenuItem(item.ID); err != nil {
		t.Fatal(err)
	}
	if env := receive(t, cashier); env.Type != store.EventMenuDeleted {
		t.Errorf("cashier got %s", env.Type)
	}
	expectNothing(t, kitchen)
}

func TestHandleWebSocket(t *testing.T) {
	hub := startHub(t)
	srv := httptest.NewServer(HandleWebSocket(hub, testSecret, zap.NewNop()))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	// bad token is rejected before the upgrade
	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=garbage", nil)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}

	token, err := middleware.IssueToken(testSecret, models.User{ID: "u-1", Email: "k@bistro.local", Role: models.RoleKitchen}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for !hub.IsUserConnected("u-1") {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.BroadcastToRole(Envelope{Type: store.EventOrderCreated, Data: map[string]string{"id": "o-1"}}, models.RoleKitchen)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatal(err)
	}
	if env.Type != "order_created" || env.Data["id"] != "o-1" {
		t.Errorf("unexpected frame: %+v", env)
	}
}

func TestReadPumpAfterEviction(t *testing.T) {
	hub := startHub(t)
	clients := make(chan *Client, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient("u-slow", models.RoleKitchen, conn, hub)
		hub.Register(c)
		clients <- c
		// no WritePump: the writer never drains
		go c.ReadPump()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	c := <-clients
	hub.Unregister(c)
	if _, ok := <-c.send; ok {
		t.Fatal("send channel not closed on eviction")
	}

	for i := 0; i < 5; i++ {
		if err := conn.WriteJSON(IncomingMessage{Type: "ping"}); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-c.pong:
	case <-time.After(2 * time.Second):
		t.Fatal("ping was not acknowledged")
	}
}

func TestHubStopped(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	c := fakeClient(hub, "u-1", models.RoleManager)
	cancel()
	<-stopped

	if _, ok := <-c.send; ok {
		t.Error("send channel not closed on shutdown")
	}

	done := make(chan struct{})
	go func() {
		hub.Unregister(c)
		if hub.Register(&Client{UserID: "u-2", send: make(chan []byte, 1)}) {
			t.Error("register succeeded on a stopped hub")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("register/unregister blocked after shutdown")
	}
}
