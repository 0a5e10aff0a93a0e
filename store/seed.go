package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/models"
)

var seedCategories = []models.Category{
	{Name: "Electronics", Slug: "electronics", Description: "Electronic devices and gadgets"},
	{Name: "Clothing", Slug: "clothing", Description: "Fashion and apparel"},
	{Name: "Books", Slug: "books", Description: "Books and literature"},
	{Name: "Home & Garden", Slug: "home-garden", Description: "Home improvement and gardening"},
	{Name: "Sports", Slug: "sports", Description: "Sports and fitness equipment"},
}

type seedProduct struct {
	category   int // index into seedCategories
	name, desc string
	price      string
	brand      string
	stock      int
	rating     string
	featured   bool
}

var seedProducts = []seedProduct{
	{0, "iPhone 15 Pro", "Latest iPhone with advanced camera system and titanium design", "999.99", "Apple", 50, "4.8", true},
	{0, "MacBook Air M3", "Lightweight laptop with M3 chip and all-day battery life", "1299.99", "Apple", 30, "4.9", true},
	{0, "Samsung Galaxy S24", "Flagship Android smartphone with AI features", "899.99", "Samsung", 25, "4.7", false},
	{0, "Sony WH-1000XM5", "Premium noise-canceling wireless headphones", "399.99", "Sony", 40, "4.6", true},
	{1, "Nike Air Force 1", "Classic white sneakers for everyday wear", "119.99", "Nike", 100, "4.5", false},
	{1, "Levi's 501 Original Jeans", "Iconic straight-leg jeans in classic blue", "89.99", "Levi's", 60, "4.4", false},
	{1, "Patagonia Better Sweater", "Sustainable fleece jacket for outdoor activities", "149.99", "Patagonia", 35, "4.7", true},
	{2, "The Design of Everyday Things", "Classic book on user experience and design principles", "19.99", "Basic Books", 80, "4.6", false},
	{2, "Clean Code", "A handbook of agile software craftsmanship", "24.99", "Prentice Hall", 45, "4.8", true},
	{3, "Instant Pot Duo", "7-in-1 electric pressure cooker for quick meals", "79.99", "Instant Pot", 70, "4.5", false},
	{3, "Dyson V15 Detect", "Cordless vacuum with laser dust detection", "649.99", "Dyson", 20, "4.7", true},
	{4, "Peloton Bike+", "Premium exercise bike with live classes", "2495.00", "Peloton", 15, "4.6", true},
	{4, "Hydro Flask Water Bottle", "Insulated stainless steel water bottle 32oz", "39.99", "Hydro Flask", 200, "4.4", false},
}

// Seed loads the sample catalog into an empty database. It reports false when
// categories already exist and nothing was written.
func Seed(ctx context.Context, s *Store) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM categories)`).Scan(&exists); err != nil {
		return false, fmt.Errorf("check catalog: %w", err)
	}
	if exists {
		return false, nil
	}

	err := s.InTx(ctx, func(tx *Tx) error {
		ids := make([]int64, len(seedCategories))
		for i, c := range seedCategories {
			if err := tx.Categories.Create(ctx, &c); err != nil {
				return fmt.Errorf("seed category %s: %w", c.Slug, err)
			}
			ids[i] = c.ID
		}
		for _, sp := range seedProducts {
			catID := ids[sp.category]
			p := models.Product{
				Name:        sp.name,
				Description: sp.desc,
				Price:       models.MustMoney(sp.price),
				Brand:       sp.brand,
				CategoryID:  &catID,
				Stock:       sp.stock,
				Rating:      decimal.RequireFromString(sp.rating),
				Featured:    sp.featured,
			}
			if err := tx.Products.Create(ctx, &p); err != nil {
				return fmt.Errorf("seed product %q: %w", sp.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
