package service

import (
	"testing"

	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency domain.Currency
		want     string
	}{
		{"usd", "1234.5", domain.CurrencyUSD, "$1,234.50"},
		{"eur", "0.64", domain.CurrencyEUR, "€0.64"},
		{"idr groups with dots", "54000", domain.CurrencyIDR, "Rp54.000,00"},
		{"negative", "-12.345", domain.CurrencyUSD, "-$12.35"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAmount(decimal.RequireFromString(tt.amount), tt.currency)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrencyService_FollowsSettings(t *testing.T) {
	l := setupLedger(t)
	svc := NewCurrencyService(l.store)
	amount := decimal.NewFromInt(1000000)

	assert.True(t, amount.Equal(svc.Convert(amount)))
	assert.Equal(t, "Rp1.000.000,00", svc.Format(amount))

	_, err := NewSettingsService(l.store).SetCurrency(domain.CurrencyUSD)
	require.NoError(t, err)

	assertDecimal(t, 64, svc.Convert(amount))
	assert.Equal(t, "$64.00", svc.Format(amount))

	data := svc.GetCurrencyData()
	assert.Equal(t, domain.CurrencyUSD, data.Current)
	assert.Len(t, data.Rates, 3)
}

func TestConvertAmount_UnknownCurrency(t *testing.T) {
	amount := decimal.NewFromInt(500)
	assert.True(t, amount.Equal(ConvertAmount(amount, "XYZ")))
}
