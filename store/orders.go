package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"storefront/apperr"
	"storefront/models"
)

const orderColumns = `o.id, o.user_id, o.status, o.subtotal, o.shipping, o.tax, o.total, o.shipping_address, o.created_at`

func orderDest(o *models.Order) []any {
	return []any{&o.ID, &o.UserID, &o.Status, &o.Subtotal, &o.Shipping, &o.Tax, &o.Total, &o.ShippingAddress, &o.CreatedAt}
}

type OrderRepo struct {
	db DBTX
}

// Create inserts the order and its items. Item prices are stored as given;
// callers pass the price snapshot taken at purchase time. Run it inside a
// transaction so a failed item insert leaves no order behind.
func (r *OrderRepo) Create(ctx context.Context, o models.Order, items []models.OrderItem) (models.OrderWithItems, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, status, subtotal, shipping, tax, total, shipping_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, o.UserID, o.Status, o.Subtotal, o.Shipping, o.Tax, o.Total, o.ShippingAddress).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return models.OrderWithItems{}, apperr.Internal("insert order", err)
	}

	saved := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		it.OrderID = o.ID
		if err := r.db.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, it.OrderID, it.ProductID, it.Quantity, it.Price).Scan(&it.ID); err != nil {
			return models.OrderWithItems{}, apperr.Internal("insert order item", err)
		}
		saved = append(saved, it)
	}
	return models.OrderWithItems{Order: o, Items: saved}, nil
}

// List returns the user's orders, newest first, each with its items.
func (r *OrderRepo) List(ctx context.Context, userID int64) ([]models.OrderWithItems, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders o
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC`, userID)
	if err != nil {
		return nil, apperr.Internal("query orders", err)
	}
	defer rows.Close()

	orders := []models.OrderWithItems{}
	index := map[int64]int{}
	var ids []int64
	for rows.Next() {
		var o models.OrderWithItems
		if err := rows.Scan(orderDest(&o.Order)...); err != nil {
			return nil, apperr.Internal("scan order", err)
		}
		o.Items = []models.OrderItem{}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("iterate orders", err)
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		o := &orders[index[it.OrderID]]
		o.Items = append(o.Items, it)
	}
	return orders, nil
}

// Get returns one order owned by userID. Orders belonging to someone else are
// reported as not found.
func (r *OrderRepo) Get(ctx context.Context, userID, orderID int64) (models.OrderWithItems, error) {
	var o models.OrderWithItems
	err := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders o
		WHERE o.id = $1 AND o.user_id = $2`, orderID, userID).
		Scan(orderDest(&o.Order)...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.OrderWithItems{}, apperr.NotFound("order %d not found", orderID)
	}
	if err != nil {
		return models.OrderWithItems{}, apperr.Internal("get order", err)
	}

	items, err := r.itemsFor(ctx, []int64{o.ID})
	if err != nil {
		return models.OrderWithItems{}, err
	}
	o.Items = items
	return o, nil
}

// LockStatus reads an order's status under a row lock. Inside a transaction.
func (r *OrderRepo) LockStatus(ctx context.Context, userID, orderID int64) (models.OrderStatus, error) {
	var status models.OrderStatus
	err := r.db.QueryRowContext(ctx, `
		SELECT status FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE`, orderID, userID).
		Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.NotFound("order %d not found", orderID)
	}
	if err != nil {
		return "", apperr.Internal("lock order", err)
	}
	return status, nil
}

func (r *OrderRepo) SetStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, orderID); err != nil {
		return apperr.Internal("update order status", err)
	}
	return nil
}

func (r *OrderRepo) itemsFor(ctx context.Context, orderIDs []int64) ([]models.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, `+productColumns+`
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id`, pq.Array(orderIDs))
	if err != nil {
		return nil, apperr.Internal("query order items", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		it := models.OrderItem{Product: &models.Product{}}
		dest := append([]any{&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price}, productDest(it.Product)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, apperr.Internal("scan order item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("iterate order items", err)
	}
	return items, nil
}
