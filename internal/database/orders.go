package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gogo-cafe/api/internal/order"
	"github.com/jackc/pgx/v5"
)

// ErrNoRowsUpdated is returned when an update matched no order.
var ErrNoRowsUpdated = errors.New("no order row updated")

// OrderRepository mirrors the in-memory queue into Postgres. The full order
// is kept as JSONB; the scalar columns exist for indexing and ad-hoc queries.
// Satisfies queue.Persister.
type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const insertOrder = `
INSERT INTO orders (id, customer_id, customer_name, status, total_amount, payment_method, created_at, updated_at, completed_at, data)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// InsertOrder stores a new order. A duplicate id surfaces as a pgconn.PgError
// with code 23505.
func (r *OrderRepository) InsertOrder(ctx context.Context, o order.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal order %s: %w", o.ID, err)
	}
	_, err = r.db.Exec(ctx, insertOrder,
		o.ID, o.Customer.ID, o.Customer.Name, string(o.Status), o.TotalAmount.Decimal(),
		o.PaymentMethod, o.CreatedAt, o.UpdatedAt, o.CompletedAt, data,
	)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", o.ID, err)
	}
	return nil
}

const updateOrder = `
UPDATE orders SET status = $2, updated_at = $3, completed_at = $4, data = $5
WHERE id = $1`

// UpdateOrder rewrites the mutable fields of an existing order.
func (r *OrderRepository) UpdateOrder(ctx context.Context, o order.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal order %s: %w", o.ID, err)
	}
	tag, err := r.db.Exec(ctx, updateOrder, o.ID, string(o.Status), o.UpdatedAt, o.CompletedAt, data)
	if err != nil {
		return fmt.Errorf("update order %s: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNoRowsUpdated, o.ID)
	}
	return nil
}

const listOrders = `SELECT data FROM orders ORDER BY created_at, id`

// LoadOrders returns every stored order, oldest first. Line totals are
// recomputed during decoding.
func (r *OrderRepository) LoadOrders(ctx context.Context) ([]order.Order, error) {
	rows, err := r.db.Query(ctx, listOrders)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	blobs, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}

	orders := make([]order.Order, 0, len(blobs))
	for i, b := range blobs {
		var o order.Order
		if err := json.Unmarshal(b, &o); err != nil {
			return nil, fmt.Errorf("decode order row %d: %w", i, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}
