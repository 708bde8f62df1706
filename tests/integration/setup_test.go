package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stockfolio/internal/handlers"
	"stockfolio/internal/logger"
	"stockfolio/internal/marketdata"
	"stockfolio/internal/middleware"
	"stockfolio/internal/models"
	"stockfolio/internal/services"
	"stockfolio/internal/store"
	"stockfolio/internal/validator"
)

// marketStub serves canned market data for the full stack. It stands in
// for both Finnhub and Alpha Vantage.
type marketStub struct {
	quotes    map[string]int64            // ticker -> current price in cents
	histories map[string]map[string]int64 // ticker -> day -> close in cents
	articles  []marketdata.Article
	points    []marketdata.ChartPoint
}

func (s *marketStub) Quote(_ context.Context, ticker string) (int64, error) {
	price, ok := s.quotes[ticker]
	if !ok {
		return 0, fmt.Errorf("no quote for %s", ticker)
	}
	return price, nil
}

func (s *marketStub) History(_ context.Context, ticker string, _, _ time.Time) (map[string]int64, error) {
	return s.histories[ticker], nil
}

func (s *marketStub) CompanyNews(_ context.Context, _ string, _, _ time.Time) ([]marketdata.Article, error) {
	return s.articles, nil
}

func (s *marketStub) Intraday(_ context.Context, _ string) ([]marketdata.ChartPoint, error) {
	return s.points, nil
}

// articleFixture builds a minimal news article with the given headline.
func articleFixture(headline string) marketdata.Article {
	return marketdata.Article{
		Headline:    headline,
		URL:         "https://example.com/article",
		Source:      "Test Wire",
		PublishedAt: time.Now().Unix(),
	}
}

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Market *marketStub
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Lot{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite and a market data stub.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	market := &marketStub{
		quotes:    map[string]int64{},
		histories: map[string]map[string]int64{},
	}

	// Services
	lotStore := store.NewLotStore(db)
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	ledgerService := services.NewLedgerService(lotStore)
	snapshotService := services.NewSnapshotService(lotStore, market, time.Second)
	valuationService := services.NewValuationService(lotStore, market, time.Second, 30)
	stockService := services.NewStockService(market, market, time.Second)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	portfolioHandler := handlers.NewPortfolioHandler(ledgerService, snapshotService, valuationService, auditService)
	stockHandler := handlers.NewStockHandler(stockService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/auth/profile", authHandler.GetProfile)
	protected.GET("/auth/audit-logs", authHandler.GetAuditLogs)

	portfolio := protected.Group("/portfolio")
	portfolio.GET("", portfolioHandler.GetPortfolio)
	portfolio.GET("/history", portfolioHandler.GetHistory)
	portfolio.GET("/lots", portfolioHandler.ListLots)
	portfolio.POST("/add", portfolioHandler.Buy)
	portfolio.POST("/remove", portfolioHandler.Sell)

	stocks := protected.Group("/stock")
	stocks.GET("/:ticker", stockHandler.GetNews)
	stocks.GET("/:ticker/history", stockHandler.GetChart)

	return &testApp{DB: db, Market: market, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// parseJSONArray parses the response body into a slice.
func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var result []interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}
