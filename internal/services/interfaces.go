package services

import (
	"context"

	"stockfolio/internal/marketdata"
	"stockfolio/internal/models"
	"stockfolio/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// SoldSummary reports the outcome of a sell. Realized gain/loss is a
// reporting concern and deliberately not part of the ledger contract.
type SoldSummary struct {
	Ticker       string  `json:"ticker"`
	QuantitySold float64 `json:"quantity_sold"`
}

// LedgerServicer defines the contract for the lot ledger. Buys append one
// lot per call; sells consume lots oldest purchase date first (FIFO) and
// are all-or-nothing.
type LedgerServicer interface {
	Buy(ownerID, ticker string, quantity float64, unitCost int64, companyName, purchaseDate string) (string, error)
	Sell(ownerID, ticker string, quantity float64) (*SoldSummary, error)
	ListLots(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Lot], error)
}

// ValuationPoint is one day of the reconstructed portfolio value series.
// Value is in cents.
type ValuationPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// ValuationServicer reconstructs the daily total portfolio value over a
// trailing window of calendar days.
type ValuationServicer interface {
	GetHistory(ctx context.Context, ownerID string, windowDays int) ([]ValuationPoint, error)
}

// Holding is the present-day view of a single lot. Amounts are in cents.
type Holding struct {
	LotID           string  `json:"lot_id"`
	Ticker          string  `json:"ticker"`
	CompanyName     string  `json:"company_name"`
	Quantity        float64 `json:"quantity"`
	UnitCost        int64   `json:"avg_price"`
	CurrentPrice    int64   `json:"current_price"`
	MarketValue     int64   `json:"market_value"`
	CostBasis       int64   `json:"cost_basis"`
	GainLoss        int64   `json:"gain_loss"`
	GainLossPercent float64 `json:"gain_loss_percent"`
	PurchaseDate    string  `json:"purchase_date"`
}

// PortfolioSnapshot is the present-moment valuation of all holdings.
type PortfolioSnapshot struct {
	Holdings               []Holding `json:"holdings"`
	TotalValue             int64     `json:"total_value"`
	TotalCost              int64     `json:"total_cost"`
	OverallGainLoss        int64     `json:"overall_gain_loss"`
	OverallGainLossPercent float64   `json:"overall_gain_loss_percent"`
}

// SnapshotServicer computes the current portfolio snapshot from live quotes.
type SnapshotServicer interface {
	GetSnapshot(ctx context.Context, ownerID string) (*PortfolioSnapshot, error)
}

// StockServicer defines the contract for per-ticker market data lookups.
type StockServicer interface {
	GetNews(ctx context.Context, ticker string) ([]marketdata.Article, error)
	GetChart(ctx context.Context, ticker string) ([]marketdata.ChartPoint, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	GetUserLogs(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
