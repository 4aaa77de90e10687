package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is an amount in a single ISO 4217 currency.
// Amounts are kept as decimals scaled to 2 fractional digits,
// never as binary floats.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// MulQty multiplies the amount by a line quantity.
func (m Money) MulQty(qty int) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt(int64(qty))),
		Currency: m.Currency,
	}
}

// Round2 rounds the amount to 2 decimal places.
func (m Money) Round2() Money {
	return Money{
		Amount:   m.Amount.Round(2),
		Currency: m.Currency,
	}
}
