package models

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order totals are computed once at placement; Total is always
// Subtotal+Shipping+Tax.
type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	Status          OrderStatus `json:"status"`
	Subtotal        Money       `json:"subtotal"`
	Shipping        Money       `json:"shipping"`
	Tax             Money       `json:"tax"`
	Total           Money       `json:"total"`
	ShippingAddress string      `json:"shippingAddress"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// OrderItem carries the unit price frozen at purchase time. Product is the
// live product, attached for display only.
type OrderItem struct {
	ID        int64    `json:"id"`
	OrderID   int64    `json:"orderId"`
	ProductID int64    `json:"productId"`
	Quantity  int      `json:"quantity"`
	Price     Money    `json:"price"`
	Product   *Product `json:"product,omitempty"`
}

type OrderWithItems struct {
	Order
	Items []OrderItem `json:"orderItems"`
}

type PlaceOrderRequest struct {
	ShippingAddress string          `json:"shippingAddress" binding:"required,max=500"`
	Payment         *PaymentDetails `json:"payment,omitempty"`
}
