package database

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"bistro-backend/internal/models"
	"bistro-backend/internal/store"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type logEntry struct {
	orderID  string
	from, to models.OrderStatus
}

type fakeWriter struct {
	mu       sync.Mutex
	log      []logEntry
	archived []string
}

func (f *fakeWriter) ArchiveOrder(_ context.Context, o models.Order, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived = append(f.archived, o.ID)
	return nil
}

func (f *fakeWriter) LogStatus(_ context.Context, orderID string, from, to models.OrderStatus, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log = append(f.log, logEntry{orderID, from, to})
	return nil
}

func testOrder(t *testing.T, id string) models.Order {
	t.Helper()
	o, err := models.NewOrder(id, models.Pickup{CustomerName: "Di", PickupCode: "P-0042"},
		[]models.OrderItem{
			{MenuItemID: "m1", Name: "Wrap", Price: decimal.RequireFromString("8.50"), Quantity: 2},
			{MenuItemID: "m2", Name: "Lemonade", Price: decimal.RequireFromString("3.00"), Quantity: 1},
		}, "no onions", time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestArchiverWritesLifecycle(t *testing.T) {
	w := &fakeWriter{}
	a := NewArchiver(w, zap.NewNop())

	o := testOrder(t, "ord-1")
	a.Handle(store.Event{Type: store.EventOrderCreated, Order: &o})

	cooking := o
	cooking.Status = models.OrderStatusCooking
	a.Handle(store.Event{Type: store.EventOrderStatusChanged, Order: &cooking, Previous: models.OrderStatusPending})

	// not a status change
	a.Handle(store.Event{Type: store.EventOrderDriverAssigned, Order: &cooking})
	a.Handle(store.Event{Type: store.EventTableUpdated, Table: &models.Table{ID: 2}})

	done := cooking
	done.Status = models.OrderStatusCompleted
	a.Handle(store.Event{Type: store.EventOrderStatusChanged, Order: &done, Previous: models.OrderStatusCooking})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.Run(ctx)

	want := []logEntry{
		{"ord-1", "", models.OrderStatusPending},
		{"ord-1", models.OrderStatusPending, models.OrderStatusCooking},
		{"ord-1", models.OrderStatusCooking, models.OrderStatusCompleted},
	}
	if len(w.log) != len(want) {
		t.Fatalf("expected %d log entries, got %v", len(want), w.log)
	}
	for i := range want {
		if w.log[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, w.log[i], want[i])
		}
	}
	if len(w.archived) != 1 || w.archived[0] != "ord-1" {
		t.Errorf("archived = %v", w.archived)
	}
}

func getTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := Connect(context.Background(), url, zap.NewNop())
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	if err := Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestArchiveRoundTrip(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	ctx := context.Background()
	archive := NewArchive(db)
	id := "test-" + time.Now().Format("150405.000000")
	defer db.Exec(`DELETE FROM order_archive WHERE id = $1`, id)
	defer db.Exec(`DELETE FROM order_status_log WHERE order_id = $1`, id)

	o := testOrder(t, id)
	closedAt := o.Timestamp.Add(20 * time.Minute)
	o.Status = models.OrderStatusCompleted

	if err := archive.LogStatus(ctx, id, "", models.OrderStatusPending, o.Timestamp); err != nil {
		t.Fatal(err)
	}
	if err := archive.LogStatus(ctx, id, models.OrderStatusPending, models.OrderStatusCompleted, closedAt); err != nil {
		t.Fatal(err)
	}
	// archiving twice replaces the row and its lines
	for i := 0; i < 2; i++ {
		if err := archive.ArchiveOrder(ctx, o, closedAt); err != nil {
			t.Fatal(err)
		}
	}

	orders, err := archive.ListArchived(ctx, HistoryFilter{Type: models.OrderTypePickup, Limit: 500})
	if err != nil {
		t.Fatal(err)
	}
	var got *ArchivedOrder
	for i := range orders {
		if orders[i].ID == id {
			got = &orders[i]
		}
	}
	if got == nil {
		t.Fatal("archived order not listed")
	}
	if got.Status != models.OrderStatusCompleted || got.PickupCode != "P-0042" || got.TableID != nil {
		t.Errorf("unexpected archived order: %+v", got)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("20.00")) || len(got.Items) != 2 {
		t.Errorf("unexpected total or items: %s %v", got.TotalAmount, got.Items)
	}

	changes, err := archive.StatusLog(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 2 || changes[1].ToStatus != models.OrderStatusCompleted {
		t.Errorf("unexpected status log: %+v", changes)
	}
}
