package service

import (
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/shopspring/decimal"
)

// SettingsService reads and writes user preferences
type SettingsService struct {
	store *LedgerStore
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(store *LedgerStore) *SettingsService {
	return &SettingsService{store: store}
}

// GetSettings returns the current preferences
func (s *SettingsService) GetSettings() domain.Settings {
	var out domain.Settings
	s.store.view(func(st *ledgerState) {
		out = st.settings
	})
	return out
}

// SetSavingsGoal replaces the savings goal. It is part of the collection
// snapshot, so the whole snapshot is written.
func (s *SettingsService) SetSavingsGoal(amount decimal.Decimal) (domain.Settings, error) {
	if !amount.IsPositive() {
		return domain.Settings{}, domain.ErrInvalidTarget
	}

	s.store.lock()
	defer s.store.unlock()

	s.store.state.settings.SavingsGoal = amount
	if err := s.store.persistLocked(); err != nil {
		return domain.Settings{}, err
	}
	return s.store.state.settings, nil
}

// SetCurrency changes the display currency
func (s *SettingsService) SetCurrency(c domain.Currency) (domain.Settings, error) {
	if !c.Valid() {
		return domain.Settings{}, domain.ErrInvalidCurrency
	}

	s.store.lock()
	defer s.store.unlock()

	s.store.state.settings.Currency = c
	if err := s.store.persistSettingLocked(domain.KeyCurrency, c); err != nil {
		return domain.Settings{}, err
	}
	return s.store.state.settings, nil
}

// SetLang changes the interface language
func (s *SettingsService) SetLang(lang string) (domain.Settings, error) {
	if !domain.SupportedLangs[lang] {
		return domain.Settings{}, domain.ErrInvalidLang
	}

	s.store.lock()
	defer s.store.unlock()

	s.store.state.settings.Lang = lang
	if err := s.store.persistSettingLocked(domain.KeyLang, lang); err != nil {
		return domain.Settings{}, err
	}
	return s.store.state.settings, nil
}

// SetTheme switches between light and dark
func (s *SettingsService) SetTheme(theme domain.Theme) (domain.Settings, error) {
	if theme != domain.ThemeLight && theme != domain.ThemeDark {
		return domain.Settings{}, domain.ErrInvalidTheme
	}

	s.store.lock()
	defer s.store.unlock()

	s.store.state.settings.Theme = theme
	if err := s.store.persistSettingLocked(domain.KeyTheme, theme); err != nil {
		return domain.Settings{}, err
	}
	return s.store.state.settings, nil
}
