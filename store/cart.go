package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"storefront/apperr"
	"storefront/models"
)

const cartLineColumns = `ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at`

type CartRepo struct {
	db DBTX
}

// AddOrMerge inserts a cart line or, when the user already has one for the
// product, adds qty to it. The upsert is a single statement, so concurrent
// merges for the same pair never lose an increment.
func (r *CartRepo) AddOrMerge(ctx context.Context, userID, productID int64, qty int) (models.CartLine, error) {
	if qty <= 0 {
		return models.CartLine{}, apperr.Validation("quantity must be positive")
	}
	var l models.CartLine
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items AS ci (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO
		UPDATE SET quantity = ci.quantity + EXCLUDED.quantity
		RETURNING `+cartLineColumns,
		userID, productID, qty,
	).Scan(&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.CreatedAt)
	if isForeignKeyViolation(err) {
		return models.CartLine{}, apperr.NotFound("product %d not found", productID)
	}
	if err != nil {
		return models.CartLine{}, apperr.Internal("merge cart line", err)
	}
	return l, nil
}

// SetQuantity replaces the quantity of one of the user's lines. A quantity of
// zero or less removes the line, in which case the returned line is nil.
func (r *CartRepo) SetQuantity(ctx context.Context, userID, itemID int64, qty int) (*models.CartLine, error) {
	if qty <= 0 {
		return nil, r.Remove(ctx, userID, itemID)
	}
	var l models.CartLine
	err := r.db.QueryRowContext(ctx, `
		UPDATE cart_items AS ci SET quantity = $1
		WHERE ci.id = $2 AND ci.user_id = $3
		RETURNING `+cartLineColumns,
		qty, itemID, userID,
	).Scan(&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("cart item %d not found", itemID)
	}
	if err != nil {
		return nil, apperr.Internal("update cart line", err)
	}
	return &l, nil
}

func (r *CartRepo) Remove(ctx context.Context, userID, itemID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return apperr.Internal("delete cart line", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("cart item %d not found", itemID)
	}
	return nil
}

func (r *CartRepo) Clear(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return apperr.Internal("clear cart", err)
	}
	return nil
}

// RemoveLines deletes the given lines of the user's cart and leaves any other
// line alone, including one added after the given lines were read.
func (r *CartRepo) RemoveLines(ctx context.Context, userID int64, itemIDs []int64) error {
	if len(itemIDs) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)`, userID, pq.Array(itemIDs))
	if err != nil {
		return apperr.Internal("remove ordered cart lines", err)
	}
	return nil
}

// List returns the user's cart lines with their products' current state.
func (r *CartRepo) List(ctx context.Context, userID int64) ([]models.CartItem, error) {
	return r.items(ctx, userID, "")
}

// LockedLines is List taken with row locks on the cart lines; it must run
// inside a transaction.
func (r *CartRepo) LockedLines(ctx context.Context, userID int64) ([]models.CartItem, error) {
	return r.items(ctx, userID, " FOR UPDATE OF ci")
}

func (r *CartRepo) items(ctx context.Context, userID int64, lock string) ([]models.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cartLineColumns+`, `+productColumns+`
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at, ci.id`+lock, userID)
	if err != nil {
		return nil, apperr.Internal("query cart", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var it models.CartItem
		dest := append([]any{&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt}, productDest(&it.Product)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, apperr.Internal("scan cart line", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("iterate cart", err)
	}
	return items, nil
}
