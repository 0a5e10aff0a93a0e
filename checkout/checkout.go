// Package checkout turns a user's cart into an order.
package checkout

import (
	"context"
	"strings"

	"storefront/apperr"
	"storefront/models"
	"storefront/pricing"
	"storefront/store"
)

type TxRunner interface {
	InTx(ctx context.Context, fn func(*store.Tx) error) error
}

type OrderReader interface {
	List(ctx context.Context, userID int64) ([]models.OrderWithItems, error)
	Get(ctx context.Context, userID, orderID int64) (models.OrderWithItems, error)
}

type Workflow struct {
	tx     TxRunner
	orders OrderReader
	calc   pricing.Calculator
}

func New(tx TxRunner, orders OrderReader, calc pricing.Calculator) *Workflow {
	return &Workflow{tx: tx, orders: orders, calc: calc}
}

// PlaceOrder prices the user's cart at current product prices, stores a
// pending order with those prices frozen on its items, and empties the cart.
// All of it happens in one transaction under a lock on the user row, so two
// concurrent submissions cannot both turn the same cart into an order. Only
// the priced lines are removed; a line added meanwhile stays in the cart.
func (w *Workflow) PlaceOrder(ctx context.Context, userID int64, shippingAddress string) (models.OrderWithItems, error) {
	addr := strings.TrimSpace(shippingAddress)
	if addr == "" {
		return models.OrderWithItems{}, apperr.Validation("shipping address is required")
	}

	var placed models.OrderWithItems
	err := w.tx.InTx(ctx, func(tx *store.Tx) error {
		if err := tx.Users.Lock(ctx, userID); err != nil {
			return err
		}
		lines, err := tx.Carts.LockedLines(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperr.ErrEmptyCart
		}

		b := w.calc.Compute(pricing.LinesFromCart(lines))
		order := models.Order{
			UserID:          userID,
			Status:          models.OrderStatusPending,
			Subtotal:        b.Subtotal,
			Shipping:        b.Shipping,
			Tax:             b.Tax,
			Total:           b.Total,
			ShippingAddress: addr,
		}
		items := make([]models.OrderItem, 0, len(lines))
		lineIDs := make([]int64, 0, len(lines))
		for _, l := range lines {
			lineIDs = append(lineIDs, l.ID)
			product := l.Product
			items = append(items, models.OrderItem{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				Price:     l.Product.Price,
				Product:   &product,
			})
		}

		placed, err = tx.Orders.Create(ctx, order, items)
		if err != nil {
			return err
		}
		return tx.Carts.RemoveLines(ctx, userID, lineIDs)
	})
	if err != nil {
		return models.OrderWithItems{}, err
	}
	return placed, nil
}

// Cancel moves a pending or processing order to cancelled.
func (w *Workflow) Cancel(ctx context.Context, userID, orderID int64) (models.OrderWithItems, error) {
	err := w.tx.InTx(ctx, func(tx *store.Tx) error {
		status, err := tx.Orders.LockStatus(ctx, userID, orderID)
		if err != nil {
			return err
		}
		if !status.CanTransitionTo(models.OrderStatusCancelled) {
			return apperr.Conflict("order is "+string(status)+" and can no longer be cancelled", nil)
		}
		return tx.Orders.SetStatus(ctx, orderID, models.OrderStatusCancelled)
	})
	if err != nil {
		return models.OrderWithItems{}, err
	}
	return w.orders.Get(ctx, userID, orderID)
}

func (w *Workflow) History(ctx context.Context, userID int64) ([]models.OrderWithItems, error) {
	return w.orders.List(ctx, userID)
}

func (w *Workflow) Order(ctx context.Context, userID, orderID int64) (models.OrderWithItems, error) {
	return w.orders.Get(ctx, userID, orderID)
}
