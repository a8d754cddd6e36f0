package domain

import "github.com/shopspring/decimal"

type ShippingMethod struct {
	ID       string // zone method instance id
	MethodID string // method type, e.g. flat_rate
	Title    string
	Cost     string
	Enabled  bool
}

type TaxRate struct {
	ID       int64
	Name     string
	Class    string
	Rate     decimal.Decimal
	Shipping bool
}

type PaymentGateway struct {
	ID          string
	Title       string
	Description string
	Enabled     bool
}

type Product struct {
	ID             int64
	Name           string
	RegularPrice   Money
	SalePrice      Money
	TaxClass       string
	TaxStatus      TaxStatus
	PaymentMethods []string
}
