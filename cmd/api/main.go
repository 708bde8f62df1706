package main

import (
	"fmt"
	"net/http"
	"os"
	"stockfolio/internal/config"
	"stockfolio/internal/database"
	"stockfolio/internal/handlers"
	"stockfolio/internal/logger"
	"stockfolio/internal/marketdata"
	"stockfolio/internal/middleware"
	"stockfolio/internal/services"
	"stockfolio/internal/store"
	"stockfolio/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "stockfolio/internal/docs" // Import swagger docs
)

// @title           Stockfolio API
// @version         1.0
// @description     Stockfolio tracks equity holdings as purchase lots and reconstructs portfolio value over time.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(appConfig.DBPath)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Market data clients share one HTTP client; per-request deadlines come
	// from the service layer.
	httpClient := &http.Client{Timeout: appConfig.UpstreamTimeout}
	finnhub := marketdata.NewFinnhubClient(httpClient, appConfig.FinnhubBaseURL, appConfig.FinnhubAPIKey)
	alphaVantage := marketdata.NewAlphaVantageClient(httpClient, appConfig.AlphaVantageURL, appConfig.AlphaVantageAPIKey)

	// Initialize services
	db := dbManager.DB()
	lotStore := store.NewLotStore(db)
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	ledgerService := services.NewLedgerService(lotStore)
	snapshotService := services.NewSnapshotService(lotStore, finnhub, appConfig.UpstreamTimeout)
	valuationService := services.NewValuationService(lotStore, alphaVantage, appConfig.UpstreamTimeout, appConfig.HistoryWindowDays)
	stockService := services.NewStockService(finnhub, alphaVantage, appConfig.UpstreamTimeout)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	portfolioHandler := handlers.NewPortfolioHandler(ledgerService, snapshotService, valuationService, auditService)
	stockHandler := handlers.NewStockHandler(stockService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile and audit trail
	protected.GET("/auth/profile", authHandler.GetProfile)
	protected.GET("/auth/audit-logs", authHandler.GetAuditLogs)

	// Portfolio routes
	portfolio := protected.Group("/portfolio")
	portfolio.GET("", portfolioHandler.GetPortfolio)
	portfolio.GET("/history", portfolioHandler.GetHistory)
	portfolio.GET("/lots", portfolioHandler.ListLots)
	portfolio.POST("/add", portfolioHandler.Buy)
	portfolio.POST("/remove", portfolioHandler.Sell)

	// Stock routes
	stocks := protected.Group("/stock")
	stocks.GET("/:ticker", stockHandler.GetNews)
	stocks.GET("/:ticker/history", stockHandler.GetChart)

	log.Infof("Starting Stockfolio backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
