package helpers

import (
	"sort"
	"time"

	"bistro-backend/internal/models"

	"github.com/shopspring/decimal"
)

// OrderPredicate selects orders from a snapshot
type OrderPredicate func(models.Order) bool

// FilterOrders returns the orders matching every predicate, keeping input order
func FilterOrders(orders []models.Order, preds ...OrderPredicate) []models.Order {
	out := make([]models.Order, 0, len(orders))
next:
	for _, o := range orders {
		for _, p := range preds {
			if !p(o) {
				continue next
			}
		}
		out = append(out, o)
	}
	return out
}

func ByType(t models.OrderType) OrderPredicate {
	return func(o models.Order) bool { return o.Type == t }
}

// ByStatus matches a single status. An empty status matches everything (the ALL filter).
func ByStatus(s models.OrderStatus) OrderPredicate {
	return func(o models.Order) bool { return s == "" || o.Status == s }
}

// ByStatuses matches any of the given statuses
func ByStatuses(statuses ...models.OrderStatus) OrderPredicate {
	return func(o models.Order) bool {
		for _, s := range statuses {
			if o.Status == s {
				return true
			}
		}
		return false
	}
}

func NotStatus(s models.OrderStatus) OrderPredicate {
	return func(o models.Order) bool { return o.Status != s }
}

// UnassignedDelivery matches delivery orders with no driver that are not completed
func UnassignedDelivery(o models.Order) bool {
	return o.Type == models.OrderTypeDelivery && o.DriverID() == "" && o.Status != models.OrderStatusCompleted
}

// ActiveDelivery matches delivery orders with a driver that are still out
func ActiveDelivery(o models.Order) bool {
	return o.Type == models.OrderTypeDelivery && o.DriverID() != "" && !o.Status.IsTerminal()
}

// ActivePickup matches pickup orders waiting to be collected
func ActivePickup(o models.Order) bool {
	return o.Type == models.OrderTypePickup && !o.Status.IsTerminal()
}

// PickupHistory matches pickup orders that are done
func PickupHistory(o models.Order) bool {
	return o.Type == models.OrderTypePickup && o.Status.IsTerminal()
}

// CountByStatus counts orders per status. Every status has a key.
func CountByStatus(orders []models.Order) map[models.OrderStatus]int {
	counts := make(map[models.OrderStatus]int, len(models.AllOrderStatuses))
	for _, s := range models.AllOrderStatuses {
		counts[s] = 0
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}

// Pipeline returns the dashboard bars. Served includes completed orders.
func Pipeline(orders []models.Order) []models.StatusBucket {
	c := CountByStatus(orders)
	return []models.StatusBucket{
		{Name: "Pending", Count: c[models.OrderStatusPending]},
		{Name: "Cooking", Count: c[models.OrderStatusCooking]},
		{Name: "Ready", Count: c[models.OrderStatusReady]},
		{Name: "Served", Count: c[models.OrderStatusServed] + c[models.OrderStatusCompleted]},
	}
}

// Revenue sums totalAmount over the orders
func Revenue(orders []models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount)
	}
	return total
}

// SortFIFO orders by timestamp ascending. Ties keep their existing order.
func SortFIFO(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Timestamp.Before(orders[j].Timestamp)
	})
}

// HourlySales buckets orders by the hour they were placed, in loc, oldest first.
// Hours with no orders are omitted.
func HourlySales(orders []models.Order, loc *time.Location) []models.SalesPoint {
	if loc == nil {
		loc = time.UTC
	}
	type bucket struct {
		hour   time.Time
		amount decimal.Decimal
		orders int
	}
	byHour := make(map[time.Time]*bucket)
	for _, o := range orders {
		h := o.Timestamp.In(loc).Truncate(time.Hour)
		b, ok := byHour[h]
		if !ok {
			b = &bucket{hour: h, amount: decimal.Zero}
			byHour[h] = b
		}
		b.amount = b.amount.Add(o.TotalAmount)
		b.orders++
	}

	buckets := make([]*bucket, 0, len(byHour))
	for _, b := range byHour {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].hour.Before(buckets[j].hour) })

	points := make([]models.SalesPoint, len(buckets))
	for i, b := range buckets {
		points[i] = models.SalesPoint{
			Time:   b.hour.Format("15:04"),
			Amount: b.amount,
			Orders: b.orders,
		}
	}
	return points
}

// PopularItems returns item names ranked by quantity sold, at most limit entries
func PopularItems(orders []models.Order, limit int) []string {
	qty := make(map[string]int)
	var names []string
	for _, o := range orders {
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		for _, item := range o.Items {
			if _, seen := qty[item.Name]; !seen {
				names = append(names, item.Name)
			}
			qty[item.Name] += item.Quantity
		}
	}
	sort.SliceStable(names, func(i, j int) bool { return qty[names[i]] > qty[names[j]] })
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}
