package domain

import "github.com/shopspring/decimal"

type Currency string

const (
	CurrencyIDR Currency = "IDR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// BaseCurrency is the unit every stored amount is expressed in
const BaseCurrency = CurrencyIDR

// ExchangeRates converts one base unit into each display currency
var ExchangeRates = map[Currency]decimal.Decimal{
	CurrencyIDR: decimal.NewFromInt(1),
	CurrencyUSD: decimal.RequireFromString("0.000064"),
	CurrencyEUR: decimal.RequireFromString("0.000059"),
}

// Valid reports whether c has an exchange rate
func (c Currency) Valid() bool {
	_, ok := ExchangeRates[c]
	return ok
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultSavingsGoal applies when no savings goal has been stored
var DefaultSavingsGoal = decimal.NewFromInt(5000000)

const DefaultLang = "en"

// SupportedLangs are the translation tables the UI ships
var SupportedLangs = map[string]bool{"en": true, "id": true}

// Settings are the scalar preferences persisted next to the collections
type Settings struct {
	SavingsGoal decimal.Decimal `json:"savingsGoal"`
	Currency    Currency        `json:"currency"`
	Lang        string          `json:"lang"`
	Theme       Theme           `json:"theme"`
}

// DefaultSettings returns the settings of a fresh install
func DefaultSettings() Settings {
	return Settings{
		SavingsGoal: DefaultSavingsGoal,
		Currency:    BaseCurrency,
		Lang:        DefaultLang,
		Theme:       ThemeLight,
	}
}
