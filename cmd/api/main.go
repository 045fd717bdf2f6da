package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coinsage/coinsage-backend/internal/config"
	"github.com/coinsage/coinsage-backend/internal/handler"
	"github.com/coinsage/coinsage-backend/internal/middleware"
	"github.com/coinsage/coinsage-backend/internal/repository/archive"
	"github.com/coinsage/coinsage-backend/internal/repository/postgres"
	"github.com/coinsage/coinsage-backend/internal/service"
	"github.com/coinsage/coinsage-backend/internal/util"
	"github.com/coinsage/coinsage-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
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

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	preferenceRepo := postgres.NewPreferenceRepository(pool)

	backupRepo, err := newBackupRepository(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize backup storage")
	}

	// WebSocket hub doubles as the alert notifier transport
	hub := websocket.NewHub()
	notifier := websocket.NewAlertNotifier(hub)

	clock := util.SystemClock{}

	// Initialize services
	authService := service.NewAuthService(userRepo, sessionRepo, clock, cfg.BcryptCost)
	alertService := service.NewAlertService(preferenceRepo, notifier)
	budgetService := service.NewBudgetService(preferenceRepo, preferenceRepo, alertService, clock)
	transactionService := service.NewTransactionService(preferenceRepo, clock)
	analysisService := service.NewAnalysisService(preferenceRepo, clock)
	settingsService := service.NewSettingsService(preferenceRepo)
	archiveService := service.NewArchiveService(preferenceRepo, backupRepo, clock)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	transactionHandler := handler.NewTransactionHandler(transactionService, budgetService, hub)
	budgetHandler := handler.NewBudgetHandler(budgetService, hub)
	analysisHandler := handler.NewAnalysisHandler(analysisService)
	settingsHandler := handler.NewSettingsHandler(settingsService, hub)
	backupHandler := handler.NewBackupHandler(archiveService, budgetService)
	wsHandler := handler.NewWebSocketHandler(hub, authService, cfg.CORSOrigins)

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
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, authHandler, transactionHandler, budgetHandler, analysisHandler, settingsHandler, backupHandler, wsHandler)

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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newBackupRepository selects the backup storage backend from config
func newBackupRepository(cfg *config.Config) (archive.Repository, error) {
	if cfg.Backup.Driver == "s3" {
		return archive.NewS3Repository(context.Background(), cfg.Backup.S3)
	}
	return archive.NewFSRepository(cfg.Backup.Dir)
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
