package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/product-order-api/internal/domain/order"
	"github.com/xenking/product-order-api/internal/domain/product"
)

const (
	updateProductStockSQL = `UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5
		WHERE id = $1`

	insertOrderSQL = `INSERT INTO orders (id, customer_name, created_at)
		VALUES ($1, $2, $3)`

	insertOrderItemSQL = `INSERT INTO order_items
		(id, order_id, product_id, product_name, unit_price, quantity, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	getOrderByIDSQL = `SELECT id, customer_name, created_at
		FROM orders WHERE id = $1`

	getOrderItemsSQL = `SELECT id, product_id, product_name, unit_price, quantity
		FROM order_items WHERE order_id = $1 ORDER BY position`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order, its items, and every product stock update in a
// single serializable transaction. Serializable isolation is what keeps two
// concurrent orders against the same low-stock product from jointly
// overselling: one of the two read-check-write sequences is rolled back.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order, stockUpdates []*product.Product) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	for _, p := range stockUpdates {
		tag, err := tx.Exec(ctx, updateProductStockSQL,
			p.ID(), p.Name(), p.Description(), p.Price(), p.Stock(),
		)
		if err != nil {
			return errors.Wrapf(err, "updating product %s", p.ID())
		}
		if tag.RowsAffected() == 0 {
			return errors.Wrapf(product.ErrNotFound, "product %s", p.ID())
		}
	}

	if _, err := tx.Exec(ctx, insertOrderSQL, o.ID(), o.CustomerName(), o.CreatedAt()); err != nil {
		return errors.Wrapf(err, "inserting order %s", o.ID())
	}

	for i, it := range o.Items() {
		_, err := tx.Exec(ctx, insertOrderItemSQL,
			it.ID(), o.ID(), it.ProductID(), it.ProductName(), it.UnitPrice(), it.Quantity(), i,
		)
		if err != nil {
			return errors.Wrapf(err, "inserting order item %s", it.ID())
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

// GetByID returns the order with its items in insertion order, or
// order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "getting order %s", id)
	}

	head, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (*order.Order, error) {
		var (
			orderID      uuid.UUID
			customerName string
			createdAt    time.Time
		)
		if err := row.Scan(&orderID, &customerName, &createdAt); err != nil {
			return nil, err
		}
		return order.Restore(orderID, customerName, createdAt, nil), nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting order %s", id)
	}

	itemRows, err := r.pool.Query(ctx, getOrderItemsSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "getting items for order %s", id)
	}
	items, err := pgx.CollectRows(itemRows, scanOrderItem)
	if err != nil {
		return nil, errors.Wrapf(err, "getting items for order %s", id)
	}

	return order.Restore(head.ID(), head.CustomerName(), head.CreatedAt(), items), nil
}

func scanOrderItem(row pgx.CollectableRow) (*order.Item, error) {
	var (
		id        uuid.UUID
		productID uuid.UUID
		name      string
		unitPrice decimal.Decimal
		quantity  int
	)
	if err := row.Scan(&id, &productID, &name, &unitPrice, &quantity); err != nil {
		return nil, err
	}
	return order.RestoreItem(id, productID, name, unitPrice, quantity), nil
}
