package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInvestment_ValueAndROI(t *testing.T) {
	buy := decimal.NewFromInt(800)
	inv := Investment{
		Quantity: decimal.NewFromInt(10),
		Price:    decimal.NewFromInt(1000),
		BuyPrice: &buy,
	}

	assert.Equal(t, "10000", inv.Value().String())

	roi, ok := inv.ROI()
	assert.True(t, ok)
	assert.Equal(t, "0.25", roi.String())
}

func TestInvestment_ROIWithoutBuyPrice(t *testing.T) {
	inv := Investment{Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(50)}

	_, ok := inv.ROI()
	assert.False(t, ok)
}
