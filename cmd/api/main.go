package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/mhyu96-glitch/finance-app/internal/config"
	"github.com/mhyu96-glitch/finance-app/internal/handler"
	"github.com/mhyu96-glitch/finance-app/internal/middleware"
	"github.com/mhyu96-glitch/finance-app/internal/repository"
	"github.com/mhyu96-glitch/finance-app/internal/repository/storage"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/mhyu96-glitch/finance-app/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Open ledger storage
	kv, closeKV, err := repository.OpenKVStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("Failed to open storage")
	}
	defer closeKV()
	log.Info().Str("backend", cfg.StorageBackend).Msg("Storage ready")

	store := service.NewLedgerStore(kv, log.Logger)
	if err := store.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load ledger")
	}

	// Optional object storage for backups and receipts
	var objects storage.ObjectRepository
	if cfg.S3.Enabled() {
		s3Repo, err := storage.NewS3ObjectRepository(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		objects = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Object storage enabled")
	} else {
		log.Warn().Msg("S3_BUCKET not set, remote backups and attachments are disabled")
	}

	// WebSocket hub receives ledger notifications
	hub := websocket.NewHub()
	unsubscribe := store.Subscribe(websocket.NotificationForwarder(hub))
	defer unsubscribe()

	// Initialize services
	accountService := service.NewAccountService(store)
	transactionService := service.NewTransactionService(store)
	budgetService := service.NewBudgetService(store)
	recurringService := service.NewRecurringService(store)
	investmentService := service.NewInvestmentService(store)
	goalService := service.NewGoalService(store)
	calculationService := service.NewCalculationService(store)
	dashboardService := service.NewDashboardService(store)
	settingsService := service.NewSettingsService(store)
	currencyService := service.NewCurrencyService(store)
	backupService := service.NewBackupService(store, objects, log.Logger)
	attachmentService := service.NewAttachmentService(transactionService, objects, log.Logger)

	// Commitments that fell due while the server was down are caught up on start
	recurringWorker := service.NewRecurringWorker(recurringService, log.Logger, service.RecurringWorkerConfig{
		Interval: cfg.RecurringInterval,
	})
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()
	recurringWorker.Start(workerCtx)

	authMiddleware := middleware.NewAPITokenAuthMiddleware(cfg.APIToken)
	if !authMiddleware.Enabled() {
		log.Warn().Msg("API_TOKEN not set, the API is unauthenticated")
	}
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	// Initialize handlers
	handlers := handler.Handlers{
		Account:     handler.NewAccountHandler(accountService, hub),
		Transaction: handler.NewTransactionHandler(transactionService, hub),
		Attachment:  handler.NewAttachmentHandler(attachmentService, hub),
		Budget:      handler.NewBudgetHandler(budgetService, hub),
		Recurring:   handler.NewRecurringHandler(recurringService, attachmentService, hub),
		Investment:  handler.NewInvestmentHandler(investmentService, calculationService),
		Goal:        handler.NewGoalHandler(goalService, calculationService),
		Dashboard:   handler.NewDashboardHandler(dashboardService, calculationService),
		Settings:    handler.NewSettingsHandler(settingsService, currencyService),
		Backup:      handler.NewBackupHandler(backupService, hub),
		WebSocket:   handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	recurringWorker.Stop()
	rateLimiter.Stop()
	hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
