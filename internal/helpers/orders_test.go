package helpers

import (
	"testing"
	"time"

	"bistro-backend/internal/models"

	"github.com/shopspring/decimal"
)

var base = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func mustOrder(t *testing.T, id string, f models.Fulfillment, status models.OrderStatus, price string, qty int, at time.Time) models.Order {
	t.Helper()
	o, err := models.NewOrder(id, f, []models.OrderItem{
		{MenuItemID: "m-" + id, Name: "Item " + id, Price: decimal.RequireFromString(price), Quantity: qty},
	}, "", at)
	if err != nil {
		t.Fatalf("NewOrder(%s): %v", id, err)
	}
	o.Status = status
	return o
}

func snapshot(t *testing.T) []models.Order {
	return []models.Order{
		mustOrder(t, "1", models.DineIn{TableID: 1}, models.OrderStatusPending, "10.00", 1, base),
		mustOrder(t, "2", models.Delivery{CustomerName: "Ann", DeliveryAddress: "1 Main St"}, models.OrderStatusReady, "20.00", 2, base.Add(time.Minute)),
		mustOrder(t, "3", models.Delivery{CustomerName: "Bo", DeliveryAddress: "2 Main St", DriverID: "d1"}, models.OrderStatusReady, "5.50", 1, base.Add(2*time.Minute)),
		mustOrder(t, "4", models.Delivery{CustomerName: "Cy", DeliveryAddress: "3 Main St"}, models.OrderStatusCompleted, "7.00", 1, base.Add(3*time.Minute)),
		mustOrder(t, "5", models.Pickup{CustomerName: "Di", PickupCode: "P-1234"}, models.OrderStatusCooking, "3.25", 4, base.Add(time.Hour)),
		mustOrder(t, "6", models.Pickup{CustomerName: "Ed", PickupCode: "P-5678"}, models.OrderStatusCompleted, "9.00", 1, base.Add(time.Hour)),
	}
}

func ids(orders []models.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterOrders(t *testing.T) {
	orders := snapshot(t)

	tests := []struct {
		name  string
		preds []OrderPredicate
		want  []string
	}{
		{"no predicates", nil, []string{"1", "2", "3", "4", "5", "6"}},
		{"by type", []OrderPredicate{ByType(models.OrderTypePickup)}, []string{"5", "6"}},
		{"status all", []OrderPredicate{ByStatus("")}, []string{"1", "2", "3", "4", "5", "6"}},
		{"status ready", []OrderPredicate{ByStatus(models.OrderStatusReady)}, []string{"2", "3"}},
		{"type and status", []OrderPredicate{ByType(models.OrderTypeDelivery), ByStatus(models.OrderStatusCompleted)}, []string{"4"}},
		{"unassigned delivery", []OrderPredicate{UnassignedDelivery}, []string{"2"}},
		{"active delivery", []OrderPredicate{ActiveDelivery}, []string{"3"}},
		{"active pickup", []OrderPredicate{ActivePickup}, []string{"5"}},
		{"pickup history", []OrderPredicate{PickupHistory}, []string{"6"}},
		{"any of", []OrderPredicate{ByStatuses(models.OrderStatusPending, models.OrderStatusCooking)}, []string{"1", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterOrders(orders, tt.preds...))
			if !equalIDs(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnassignedDeliveryNeverHasDriver(t *testing.T) {
	for _, o := range FilterOrders(snapshot(t), UnassignedDelivery) {
		if o.DriverID() != "" {
			t.Errorf("order %s has driver %s", o.ID, o.DriverID())
		}
	}
}

func TestCountByStatusAndPipeline(t *testing.T) {
	orders := snapshot(t)
	counts := CountByStatus(orders)
	if len(counts) != len(models.AllOrderStatuses) {
		t.Errorf("expected a key for every status, got %d", len(counts))
	}
	if counts[models.OrderStatusReady] != 2 || counts[models.OrderStatusCompleted] != 2 || counts[models.OrderStatusServed] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}

	pipeline := Pipeline(orders)
	want := map[string]int{"Pending": 1, "Cooking": 1, "Ready": 2, "Served": 2}
	for _, b := range pipeline {
		if want[b.Name] != b.Count {
			t.Errorf("bucket %s: got %d, want %d", b.Name, b.Count, want[b.Name])
		}
	}
}

func TestRevenue(t *testing.T) {
	got := Revenue(snapshot(t))
	// 10 + 40 + 5.50 + 7 + 13 + 9
	if !got.Equal(decimal.RequireFromString("84.50")) {
		t.Errorf("expected 84.50, got %s", got)
	}
	if !Revenue(nil).IsZero() {
		t.Error("expected zero revenue for no orders")
	}
}

func TestSortFIFOKeepsInsertionOrderOnTies(t *testing.T) {
	orders := []models.Order{
		mustOrder(t, "late", models.DineIn{TableID: 1}, models.OrderStatusPending, "1", 1, base.Add(time.Minute)),
		mustOrder(t, "a", models.DineIn{TableID: 2}, models.OrderStatusPending, "1", 1, base),
		mustOrder(t, "b", models.DineIn{TableID: 3}, models.OrderStatusPending, "1", 1, base),
	}
	SortFIFO(orders)
	if got := ids(orders); !equalIDs(got, []string{"a", "b", "late"}) {
		t.Errorf("got %v", got)
	}
}

func TestHourlySales(t *testing.T) {
	points := HourlySales(snapshot(t), time.UTC)
	if len(points) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(points))
	}
	if points[0].Time != "12:00" || points[0].Orders != 4 || !points[0].Amount.Equal(decimal.RequireFromString("62.50")) {
		t.Errorf("unexpected first bucket: %+v", points[0])
	}
	if points[1].Time != "13:00" || points[1].Orders != 2 {
		t.Errorf("unexpected second bucket: %+v", points[1])
	}
}

func TestPopularItems(t *testing.T) {
	got := PopularItems(snapshot(t), 2)
	if !equalIDs(got, []string{"Item 5", "Item 2"}) {
		t.Errorf("got %v", got)
	}
}
