package handler

import (
	"github.com/coinsage/coinsage-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, transactionHandler *TransactionHandler, budgetHandler *BudgetHandler, analysisHandler *AnalysisHandler, settingsHandler *SettingsHandler, backupHandler *BackupHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (credential endpoints are rate limited per client IP)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register, middleware.RateLimitMiddleware(rateLimiter))
	auth.POST("/login", authHandler.Login, middleware.RateLimitMiddleware(rateLimiter))
	auth.POST("/logout", authHandler.Logout, authMiddleware.Authenticate())
	auth.GET("/me", authHandler.Me, authMiddleware.Authenticate())

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/restore", transactionHandler.RestoreTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes (protected)
	budget := api.Group("/budget")
	budget.Use(authMiddleware.Authenticate())
	budget.GET("", budgetHandler.GetBudget)
	budget.PUT("", budgetHandler.SetBudget)

	// Home dashboard summary (protected)
	api.GET("/summary", budgetHandler.GetSummary, authMiddleware.Authenticate())

	// Analysis routes (protected)
	analysis := api.Group("/analysis")
	analysis.Use(authMiddleware.Authenticate())
	analysis.GET("", analysisHandler.GetAnalysis)

	// Settings routes (protected)
	settings := api.Group("/settings")
	settings.Use(authMiddleware.Authenticate())
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)
	settings.DELETE("/data", settingsHandler.ClearUserData)

	// Backup routes (protected)
	backups := api.Group("/backups")
	backups.Use(authMiddleware.Authenticate())
	backups.POST("", backupHandler.CreateBackup)
	backups.GET("", backupHandler.ListBackups)
	backups.GET("/latest", backupHandler.LatestBackup)
	backups.POST("/restore", backupHandler.RestoreBackup)

	// WebSocket endpoint (token authenticated via query parameter)
	e.GET("/ws", wsHandler.HandleWS)
}
