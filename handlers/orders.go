package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/models"
	"storefront/validators"
)

type OrderWorkflow interface {
	PlaceOrder(ctx context.Context, userID int64, shippingAddress string) (models.OrderWithItems, error)
	History(ctx context.Context, userID int64) ([]models.OrderWithItems, error)
	Order(ctx context.Context, userID, orderID int64) (models.OrderWithItems, error)
	Cancel(ctx context.Context, userID, orderID int64) (models.OrderWithItems, error)
}

// PlaceOrder turns the caller's cart into an order. Payment details are
// accepted for client compatibility and never stored.
func PlaceOrder(orders OrderWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PlaceOrderRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := validators.ValidateShippingAddress(req.ShippingAddress); err != nil {
			abortWithError(c, err)
			return
		}
		order, err := orders.PlaceOrder(c.Request.Context(), userID(c), req.ShippingAddress)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func ListOrders(orders OrderWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.History(c.Request.Context(), userID(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

func GetOrder(orders OrderWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		order, err := orders.Order(c.Request.Context(), userID(c), id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func CancelOrder(orders OrderWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		order, err := orders.Cancel(c.Request.Context(), userID(c), id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
