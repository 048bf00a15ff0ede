package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Investment struct {
	ID          uuid.UUID        `json:"id"`
	Type        string           `json:"type"`
	Name        string           `json:"name"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Price       decimal.Decimal  `json:"price"`
	BuyPrice    *decimal.Decimal `json:"buy_price,omitempty"`
	Date        time.Time        `json:"date"`
	LastUpdated time.Time        `json:"lastUpdated"`
}

// Value is the current market value of the holding
func (i *Investment) Value() decimal.Decimal {
	return i.Quantity.Mul(i.Price)
}

// ROI returns the fractional return against the buy price. ok is false when
// no usable buy price is recorded.
func (i *Investment) ROI() (roi decimal.Decimal, ok bool) {
	if i.BuyPrice == nil || i.BuyPrice.IsZero() || i.Quantity.IsZero() {
		return decimal.Zero, false
	}
	cost := i.Quantity.Mul(*i.BuyPrice)
	return i.Value().Sub(cost).Div(cost), true
}

// InvestmentSummary is an investment with its derived valuation
type InvestmentSummary struct {
	Investment Investment       `json:"investment"`
	Value      decimal.Decimal  `json:"value"`
	ROI        *decimal.Decimal `json:"roi,omitempty"`
}
