package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/mhyu96-glitch/finance-app/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSettingsHandler(t *testing.T) (*SettingsHandler, *testutil.MockKVStore) {
	store, kv := newTestStore(t)
	return NewSettingsHandler(service.NewSettingsService(store), service.NewCurrencyService(store)), kv
}

func TestGetSettings_Defaults(t *testing.T) {
	h, _ := setupSettingsHandler(t)
	c, rec := newJSONContext(http.MethodGet, "/api/v1/settings", "")

	require.NoError(t, h.GetSettings(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var settings domain.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, domain.CurrencyIDR, settings.Currency)
	assert.Equal(t, domain.DefaultLang, settings.Lang)
	assert.Equal(t, domain.ThemeLight, settings.Theme)
}

func TestUpdateSettings_AppliesEveryField(t *testing.T) {
	h, kv := setupSettingsHandler(t)
	c, rec := newJSONContext(http.MethodPatch, "/api/v1/settings", `{"savingsGoal": "9000000", "currency": "USD", "lang": "id", "theme": "dark"}`)

	require.NoError(t, h.UpdateSettings(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var settings domain.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, "9000000", settings.SavingsGoal.String())
	assert.Equal(t, domain.CurrencyUSD, settings.Currency)
	assert.Equal(t, "id", settings.Lang)
	assert.Equal(t, domain.ThemeDark, settings.Theme)

	assert.Equal(t, `"USD"`, kv.Raw(domain.KeyCurrency))
	assert.Equal(t, `"dark"`, kv.Raw(domain.KeyTheme))
}

func TestUpdateSettings_RejectsBeforeWriting(t *testing.T) {
	h, kv := setupSettingsHandler(t)
	writes := kv.WriteCount()
	c, rec := newJSONContext(http.MethodPatch, "/api/v1/settings", `{"currency": "USD", "lang": "fr", "theme": "neon"}`)

	require.NoError(t, h.UpdateSettings(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	problem := decodeProblem(t, rec)
	require.Len(t, problem.Errors, 2)
	assert.Equal(t, "lang", problem.Errors[0].Field)
	assert.Equal(t, "theme", problem.Errors[1].Field)
	assert.Equal(t, writes, kv.WriteCount())
}

func TestUpdateSettings_SavingsGoalMustBePositive(t *testing.T) {
	h, kv := setupSettingsHandler(t)
	writes := kv.WriteCount()
	c, rec := newJSONContext(http.MethodPatch, "/api/v1/settings", `{"savingsGoal": "-5"}`)

	require.NoError(t, h.UpdateSettings(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, writes, kv.WriteCount())
}

func TestFormatAmount_FollowsCurrency(t *testing.T) {
	h, _ := setupSettingsHandler(t)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/currency/format?amount=1000000", "")
	require.NoError(t, h.FormatAmount(c))
	var resp FormatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Rp1.000.000,00", resp.Formatted)

	c, _ = newJSONContext(http.MethodPatch, "/api/v1/settings", `{"currency": "USD"}`)
	require.NoError(t, h.UpdateSettings(c))

	c, rec = newJSONContext(http.MethodGet, "/api/v1/currency/format?amount=1000000", "")
	require.NoError(t, h.FormatAmount(c))
	resp = FormatResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.CurrencyUSD, resp.Currency)
	assert.Equal(t, "64", resp.Converted)
	assert.Equal(t, "$64.00", resp.Formatted)
}

func TestFormatAmount_InvalidAmount(t *testing.T) {
	h, _ := setupSettingsHandler(t)
	c, rec := newJSONContext(http.MethodGet, "/api/v1/currency/format?amount=much", "")

	require.NoError(t, h.FormatAmount(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCurrency(t *testing.T) {
	h, _ := setupSettingsHandler(t)
	c, rec := newJSONContext(http.MethodGet, "/api/v1/currency", "")

	require.NoError(t, h.GetCurrency(c))
	var data service.CurrencyData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, domain.CurrencyIDR, data.Current)
	assert.Len(t, data.Rates, 3)
}
