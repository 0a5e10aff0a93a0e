package models

import "time"

// CartLine is one (user, product) pairing with a positive quantity.
type CartLine struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartItem is a cart line joined with the product's current state.
type CartItem struct {
	CartLine
	Product Product `json:"product"`
}

type CartRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0,lte=999"`
}

// CartQuantityRequest replaces a line's quantity; zero or less removes it.
type CartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,lte=999"`
}
