package models

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount rendered and stored with exactly two fractional
// digits.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

// MustMoney parses a literal such as "79.99". It panics on malformed input and
// is meant for constants and fixtures.
func MustMoney(s string) Money {
	return NewMoney(decimal.RequireFromString(s))
}

func (m Money) String() string {
	return m.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

func (m Money) Value() (driver.Value, error) {
	return m.StringFixed(2), nil
}
