package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, cur currency.Unit) Money {
	return Money{Amount: amount, Currency: cur}
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// Round rounds the amount to the standard scale of its currency, e.g. 2 for INR and 0 for JPY.
func (m Money) Round() Money {
	return Money{Amount: RoundAmount(m.Amount, m.Currency), Currency: m.Currency}
}

func RoundAmount(amount decimal.Decimal, cur currency.Unit) decimal.Decimal {
	if cur == (currency.Unit{}) {
		return amount.Round(2)
	}
	scale, _ := currency.Standard.Rounding(cur)
	return amount.Round(int32(scale))
}
