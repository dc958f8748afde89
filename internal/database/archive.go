package database

import (
	"context"
	"fmt"
	"time"

	"bistro-backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ArchivedOrder is a finished order as stored in order_archive
type ArchivedOrder struct {
	ID              string             `json:"id" db:"id"`
	Type            models.OrderType   `json:"type" db:"type"`
	Status          models.OrderStatus `json:"status" db:"status"`
	TotalAmount     decimal.Decimal    `json:"total_amount" db:"total_amount"`
	Note            string             `json:"note,omitempty" db:"note"`
	TableID         *int               `json:"table_id,omitempty" db:"table_id"`
	CustomerName    string             `json:"customer_name,omitempty" db:"customer_name"`
	DeliveryAddress string             `json:"delivery_address,omitempty" db:"delivery_address"`
	DriverID        string             `json:"driver_id,omitempty" db:"driver_id"`
	PickupCode      string             `json:"pickup_code,omitempty" db:"pickup_code"`
	PlacedAt        time.Time          `json:"placed_at" db:"placed_at"`
	ClosedAt        time.Time          `json:"closed_at" db:"closed_at"`
	Items           []models.OrderItem `json:"items" db:"-"`
}

// StatusChange is one row of order_status_log
type StatusChange struct {
	OrderID    string             `json:"order_id" db:"order_id"`
	FromStatus models.OrderStatus `json:"from_status" db:"from_status"`
	ToStatus   models.OrderStatus `json:"to_status" db:"to_status"`
	ChangedAt  time.Time          `json:"changed_at" db:"changed_at"`
}

// HistoryFilter narrows ListArchived. Zero values mean no filter.
type HistoryFilter struct {
	Type  models.OrderType
	Limit int
}

const defaultHistoryLimit = 100

type Archive struct {
	db *sqlx.DB
}

func NewArchive(db *sqlx.DB) *Archive {
	return &Archive{db: db}
}

// ArchiveOrder upserts a finished order and replaces its lines
func (a *Archive) ArchiveOrder(ctx context.Context, o models.Order, closedAt time.Time) error {
	resp := o.ToOrderResponse()

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_archive (
			id, type, status, total_amount, note, table_id,
			customer_name, delivery_address, driver_id, pickup_code,
			placed_at, closed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			total_amount = EXCLUDED.total_amount,
			note = EXCLUDED.note,
			driver_id = EXCLUDED.driver_id,
			closed_at = EXCLUDED.closed_at
	`,
		resp.ID, resp.Type, resp.Status, resp.TotalAmount, resp.Note, resp.TableID,
		resp.CustomerName, resp.DeliveryAddress, resp.DriverID, resp.PickupCode,
		resp.Timestamp, closedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to archive order %s: %w", o.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_archive_items WHERE order_id = $1`, o.ID); err != nil {
		return fmt.Errorf("failed to clear archived items: %w", err)
	}
	for i, item := range o.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_archive_items (order_id, line_no, menu_item_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, o.ID, i+1, item.MenuItemID, item.Name, item.Price, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to archive item %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// LogStatus appends a status change. from is empty for a new order.
func (a *Archive) LogStatus(ctx context.Context, orderID string, from, to models.OrderStatus, at time.Time) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO order_status_log (order_id, from_status, to_status, changed_at)
		VALUES ($1, $2, $3, $4)
	`, orderID, string(from), string(to), at)
	if err != nil {
		return fmt.Errorf("failed to log status for %s: %w", orderID, err)
	}
	return nil
}

// ListArchived returns finished orders, most recently closed first
func (a *Archive) ListArchived(ctx context.Context, f HistoryFilter) ([]ArchivedOrder, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	orders := []ArchivedOrder{}
	query := `SELECT * FROM order_archive WHERE ($1::text = '' OR type = $1) ORDER BY closed_at DESC LIMIT $2`
	if err := a.db.SelectContext(ctx, &orders, query, string(f.Type), limit); err != nil {
		return nil, fmt.Errorf("failed to list archived orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	byID := make(map[string]*ArchivedOrder, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		orders[i].Items = []models.OrderItem{}
		byID[orders[i].ID] = &orders[i]
	}

	var rows []struct {
		OrderID string `db:"order_id"`
		models.OrderItem
	}
	err := a.db.SelectContext(ctx, &rows, `
		SELECT order_id, menu_item_id, name, price, quantity
		FROM order_archive_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, line_no
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load archived items: %w", err)
	}
	for _, r := range rows {
		if o, ok := byID[r.OrderID]; ok {
			o.Items = append(o.Items, r.OrderItem)
		}
	}
	return orders, nil
}

// StatusLog returns the recorded changes of one order, oldest first
func (a *Archive) StatusLog(ctx context.Context, orderID string) ([]StatusChange, error) {
	changes := []StatusChange{}
	err := a.db.SelectContext(ctx, &changes, `
		SELECT order_id, from_status, to_status, changed_at
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at, id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load status log: %w", err)
	}
	return changes, nil
}
