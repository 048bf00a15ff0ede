package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/middleware"
)

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Account     *AccountHandler
	Transaction *TransactionHandler
	Attachment  *AttachmentHandler
	Budget      *BudgetHandler
	Recurring   *RecurringHandler
	Investment  *InvestmentHandler
	Goal        *GoalHandler
	Dashboard   *DashboardHandler
	Settings    *SettingsHandler
	Backup      *BackupHandler
	WebSocket   *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.APITokenAuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	if rateLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(rateLimiter))
	}

	// Account routes
	accounts := api.Group("/accounts")
	accounts.POST("", h.Account.CreateAccount)
	accounts.GET("", h.Account.GetAccounts)
	accounts.GET("/:id", h.Account.GetAccount)
	accounts.PUT("/:id", h.Account.UpdateAccount)
	accounts.POST("/:id/balance", h.Account.AdjustBalance)
	accounts.DELETE("/:id", h.Account.DeleteAccount)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.DELETE("", h.Transaction.ClearTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)
	transactions.POST("/:id/payments", h.Transaction.RecordPayment)
	transactions.POST("/:id/attachment", h.Attachment.UploadAttachment)
	transactions.GET("/:id/attachment", h.Attachment.GetAttachmentURL)
	transactions.DELETE("/:id/attachment", h.Attachment.DeleteAttachment)

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.POST("", h.Budget.CreateBudget)
	budgets.GET("", h.Budget.GetBudgets)
	budgets.GET("/status", h.Budget.GetBudgetStatuses)
	budgets.POST("/check", h.Budget.CheckBudgets)
	budgets.PUT("/:id", h.Budget.UpdateBudget)
	budgets.DELETE("/:id", h.Budget.DeleteBudget)

	// Recurring routes
	recurring := api.Group("/recurring")
	recurring.POST("", h.Recurring.CreateRecurring)
	recurring.GET("", h.Recurring.GetRecurring)
	recurring.POST("/installments", h.Recurring.CreateInstallmentPlan)
	recurring.POST("/process", h.Recurring.ProcessDue)
	recurring.GET("/:id", h.Recurring.GetRecurringByID)
	recurring.PUT("/:id", h.Recurring.UpdateRecurring)
	recurring.DELETE("/:id", h.Recurring.DeleteRecurring)
	recurring.POST("/:id/payments", h.Recurring.PayInstallment)

	// Investment routes
	investments := api.Group("/investments")
	investments.POST("", h.Investment.CreateInvestment)
	investments.GET("", h.Investment.GetInvestments)
	investments.GET("/summary", h.Investment.GetInvestmentSummaries)
	investments.PUT("/:id", h.Investment.UpdateInvestment)
	investments.DELETE("/:id", h.Investment.DeleteInvestment)

	// Goal routes
	goals := api.Group("/goals")
	goals.POST("", h.Goal.CreateGoal)
	goals.GET("", h.Goal.GetGoals)
	goals.GET("/progress", h.Goal.GetGoalProgress)
	goals.PUT("/:id", h.Goal.UpdateGoal)
	goals.DELETE("/:id", h.Goal.DeleteGoal)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", h.Dashboard.GetSummary)
	dashboard.GET("/totals", h.Dashboard.GetTotals)
	dashboard.GET("/health", h.Dashboard.GetHealth)

	// Settings routes
	api.GET("/settings", h.Settings.GetSettings)
	api.PATCH("/settings", h.Settings.UpdateSettings)
	api.GET("/currency", h.Settings.GetCurrency)
	api.GET("/currency/format", h.Settings.FormatAmount)

	// Backup routes
	backup := api.Group("/backup")
	backup.GET("/export", h.Backup.Export)
	backup.POST("/import", h.Backup.Import)
	backup.POST("/remote", h.Backup.UploadRemote)
	backup.GET("/remote", h.Backup.ListRemote)
	backup.POST("/remote/restore", h.Backup.RestoreRemote)

	// Live updates; browsers pass the API token as ?token=
	e.GET("/ws", h.WebSocket.HandleWS, authMiddleware.Authenticate())
}
