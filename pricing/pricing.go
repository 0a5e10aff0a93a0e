// Package pricing turns priced line items into an order breakdown.
//
// Amounts accumulate exactly in decimal and are rounded to cents only for the
// tax component and the final breakdown, so totals do not drift however many
// lines a cart holds.
package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/models"
)

var (
	DefaultShipping = decimal.RequireFromString("9.99")
	DefaultTaxRate  = decimal.RequireFromString("0.08")
)

type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Breakdown struct {
	Subtotal models.Money
	Shipping models.Money
	Tax      models.Money
	Total    models.Money
}

type Calculator struct {
	Shipping decimal.Decimal
	TaxRate  decimal.Decimal
}

func NewCalculator(shipping, taxRate decimal.Decimal) Calculator {
	return Calculator{Shipping: shipping, TaxRate: taxRate}
}

// Default charges a flat 9.99 shipping and 8% tax.
func Default() Calculator {
	return NewCalculator(DefaultShipping, DefaultTaxRate)
}

func (c Calculator) Compute(lines []Line) Breakdown {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = subtotal.Round(2)
	shipping := c.Shipping.Round(2)
	tax := subtotal.Mul(c.TaxRate).Round(2)

	// total is summed from the rounded parts so the stored row satisfies
	// total = subtotal + shipping + tax exactly.
	return Breakdown{
		Subtotal: models.NewMoney(subtotal),
		Shipping: models.NewMoney(shipping),
		Tax:      models.NewMoney(tax),
		Total:    models.NewMoney(subtotal.Add(shipping).Add(tax)),
	}
}

// LinesFromCart prices a cart at its products' current prices.
func LinesFromCart(items []models.CartItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{UnitPrice: it.Product.Price.Decimal, Quantity: it.Quantity})
	}
	return lines
}
