package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/middleware"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/mhyu96-glitch/finance-app/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T, token string, rateLimiter *middleware.RateLimiter) *echo.Echo {
	store, _ := newTestStore(t)
	hub := websocket.NewHub()
	transactions := service.NewTransactionService(store)
	attachments := service.NewAttachmentService(transactions, nil, zerolog.Nop())
	calc := service.NewCalculationService(store)

	e := echo.New()
	RegisterRoutes(e, middleware.NewAPITokenAuthMiddleware(token), rateLimiter, Handlers{
		Account:     NewAccountHandler(service.NewAccountService(store), hub),
		Transaction: NewTransactionHandler(transactions, hub),
		Attachment:  NewAttachmentHandler(attachments, hub),
		Budget:      NewBudgetHandler(service.NewBudgetService(store), hub),
		Recurring:   NewRecurringHandler(service.NewRecurringService(store), attachments, hub),
		Investment:  NewInvestmentHandler(service.NewInvestmentService(store), calc),
		Goal:        NewGoalHandler(service.NewGoalService(store), calc),
		Dashboard:   NewDashboardHandler(service.NewDashboardService(store), calc),
		Settings:    NewSettingsHandler(service.NewSettingsService(store), service.NewCurrencyService(store)),
		Backup:      NewBackupHandler(service.NewBackupService(store, nil, zerolog.Nop()), hub),
		WebSocket:   NewWebSocketHandler(hub, nil),
	})
	return e
}

func TestRegisterRoutes(t *testing.T) {
	e := newTestServer(t, "", nil)

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/accounts",
		"POST /api/v1/accounts/:id/balance",
		"DELETE /api/v1/transactions",
		"POST /api/v1/transactions/:id/payments",
		"POST /api/v1/transactions/:id/attachment",
		"POST /api/v1/budgets/check",
		"POST /api/v1/recurring/installments",
		"POST /api/v1/recurring/process",
		"POST /api/v1/recurring/:id/payments",
		"GET /api/v1/investments/summary",
		"GET /api/v1/goals/progress",
		"GET /api/v1/dashboard/summary",
		"GET /api/v1/dashboard/health",
		"PATCH /api/v1/settings",
		"GET /api/v1/currency/format",
		"GET /api/v1/backup/export",
		"POST /api/v1/backup/remote/restore",
		"GET /ws",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestRoutes_RequireToken(t *testing.T) {
	e := newTestServer(t, "secret", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer secret")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_RateLimited(t *testing.T) {
	rl := middleware.NewRateLimiterWithConfig(60, 2)
	defer rl.Stop()
	e := newTestServer(t, "", rl)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
