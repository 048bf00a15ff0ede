package service

import (
	"github.com/Rhymond/go-money"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/shopspring/decimal"
)

// CurrencyData is the active display currency and the fixed rate table
type CurrencyData struct {
	Current domain.Currency                     `json:"current"`
	Rates   map[domain.Currency]decimal.Decimal `json:"rates"`
}

// CurrencyService converts base-unit amounts for display. Stored amounts are
// never converted.
type CurrencyService struct {
	store *LedgerStore
}

// NewCurrencyService creates a new CurrencyService
func NewCurrencyService(store *LedgerStore) *CurrencyService {
	return &CurrencyService{store: store}
}

// GetCurrencyData returns the active currency and the rate table
func (s *CurrencyService) GetCurrencyData() CurrencyData {
	rates := make(map[domain.Currency]decimal.Decimal, len(domain.ExchangeRates))
	for c, r := range domain.ExchangeRates {
		rates[c] = r
	}
	return CurrencyData{Current: s.current(), Rates: rates}
}

// Convert multiplies a base-unit amount by the active currency's rate
func (s *CurrencyService) Convert(amount decimal.Decimal) decimal.Decimal {
	return ConvertAmount(amount, s.current())
}

// Format converts and renders an amount in the active currency
func (s *CurrencyService) Format(amount decimal.Decimal) string {
	c := s.current()
	return FormatAmount(ConvertAmount(amount, c), c)
}

func (s *CurrencyService) current() domain.Currency {
	var c domain.Currency
	s.store.view(func(st *ledgerState) {
		c = st.settings.Currency
	})
	return c
}

// ConvertAmount applies the fixed rate for c. Unknown currencies use rate 1.
func ConvertAmount(amount decimal.Decimal, c domain.Currency) decimal.Decimal {
	rate, ok := domain.ExchangeRates[c]
	if !ok {
		return amount
	}
	return amount.Mul(rate)
}

// FormatAmount renders a major-unit amount with the currency's symbol and
// grouping
func FormatAmount(amount decimal.Decimal, c domain.Currency) string {
	// money.New is the only way to get a non-nil Currency
	cur := *money.New(0, string(c)).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

func formatBaseAmount(amount decimal.Decimal) string {
	return FormatAmount(amount, domain.BaseCurrency)
}
