package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         Money           `json:"price"`
	OriginalPrice *Money          `json:"originalPrice,omitempty"`
	ImageURL      *string         `json:"imageUrl,omitempty"`
	Brand         string          `json:"brand"`
	CategoryID    *int64          `json:"categoryId"`
	Stock         int             `json:"stock"`
	Rating        decimal.Decimal `json:"rating"`
	ReviewCount   int             `json:"reviewCount"`
	Featured      bool            `json:"featured"`
	CreatedAt     time.Time       `json:"createdAt"`
}
