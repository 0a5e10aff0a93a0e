package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/models"
)

type CartStore interface {
	List(ctx context.Context, userID int64) ([]models.CartItem, error)
	AddOrMerge(ctx context.Context, userID, productID int64, qty int) (models.CartLine, error)
	SetQuantity(ctx context.Context, userID, itemID int64, qty int) (*models.CartLine, error)
	Remove(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
}

func GetCart(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := carts.List(c.Request.Context(), userID(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(items))
	}
}

func AddToCart(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CartRequest
		if !bindJSON(c, &req) {
			return
		}
		line, err := carts.AddOrMerge(c.Request.Context(), userID(c), req.ProductID, req.Quantity)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

// UpdateCartItem replaces a line's quantity. A quantity of zero or less
// removes the line instead.
func UpdateCartItem(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req models.CartQuantityRequest
		if !bindJSON(c, &req) {
			return
		}
		line, err := carts.SetQuantity(c.Request.Context(), userID(c), itemID, *req.Quantity)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if line == nil {
			message(c, "Item removed")
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

func RemoveCartItem(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := carts.Remove(c.Request.Context(), userID(c), itemID); err != nil {
			abortWithError(c, err)
			return
		}
		message(c, "Item removed")
	}
}

func ClearCart(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Clear(c.Request.Context(), userID(c)); err != nil {
			abortWithError(c, err)
			return
		}
		message(c, "Cart cleared")
	}
}
