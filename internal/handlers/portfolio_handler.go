package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/pagination"
	"stockfolio/internal/services"
)

// PortfolioHandler handles holdings and valuation requests.
type PortfolioHandler struct {
	ledgerService    services.LedgerServicer
	snapshotService  services.SnapshotServicer
	valuationService services.ValuationServicer
	auditService     services.AuditServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(
	ledgerService services.LedgerServicer,
	snapshotService services.SnapshotServicer,
	valuationService services.ValuationServicer,
	auditService services.AuditServicer,
) *PortfolioHandler {
	return &PortfolioHandler{
		ledgerService:    ledgerService,
		snapshotService:  snapshotService,
		valuationService: valuationService,
		auditService:     auditService,
	}
}

// BuyRequest represents the request payload for buying shares.
// Price is per share, in cents. Date is optional and defaults to today.
type BuyRequest struct {
	Ticker      string  `json:"ticker" binding:"required,ticker"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	Price       int64   `json:"price" binding:"required,gt=0"`
	CompanyName string  `json:"company_name" binding:"max=200"`
	Date        string  `json:"date" binding:"omitempty,calendar_date"`
}

// SellRequest represents the request payload for selling shares.
type SellRequest struct {
	Ticker   string  `json:"ticker" binding:"required,ticker"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// GetPortfolio returns the current snapshot of all holdings.
// @Summary     Get portfolio snapshot
// @Description Get per-lot market values and portfolio aggregates using current quotes
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioSnapshot "Current snapshot"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio [get]
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.snapshotService.GetSnapshot(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetHistory returns the reconstructed daily portfolio value series.
// @Summary     Get portfolio value history
// @Description Get the daily total portfolio value over a trailing window
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       days query int false "Trailing window in days (default 30)"
// @Success     200 {array} services.ValuationPoint "Daily value series"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/history [get]
func (h *PortfolioHandler) GetHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	windowDays := 0
	if daysParam := c.Query("days"); daysParam != "" {
		windowDays, err = strconv.Atoi(daysParam)
		if err != nil || windowDays <= 0 || windowDays > 365 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid days parameter"))
			return
		}
	}

	points, err := h.valuationService.GetHistory(c.Request.Context(), userID, windowDays)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, points)
}

// ListLots returns the user's purchase lots.
// @Summary     List lots
// @Description Get a paginated list of the user's purchase lots in FIFO order
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Lot] "Lots"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/lots [get]
func (h *PortfolioHandler) ListLots(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	lots, err := h.ledgerService.ListLots(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, lots)
}

// Buy records a share purchase as a new lot.
// @Summary     Buy shares
// @Description Record a purchase; each buy creates one new lot
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BuyRequest true "Purchase details"
// @Success     201 {object} map[string]string "Lot created"
// @Failure     400 {object} ErrorResponse "Invalid input or date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/add [post]
func (h *PortfolioHandler) Buy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	lotID, err := h.ledgerService.Buy(userID, req.Ticker, req.Quantity, req.Price, req.CompanyName, req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "BUY", "lot", lotID, c.ClientIP(),
		map[string]interface{}{"ticker": req.Ticker, "quantity": req.Quantity, "price": req.Price})

	c.JSON(http.StatusCreated, gin.H{
		"lot_id":  lotID,
		"message": fmt.Sprintf("Added %g shares of %s", req.Quantity, req.Ticker),
	})
}

// Sell consumes lots FIFO for a share sale.
// @Summary     Sell shares
// @Description Sell shares, consuming lots oldest purchase first
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SellRequest true "Sale details"
// @Success     200 {object} services.SoldSummary "Sale recorded"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient shares"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No holdings for ticker"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/remove [post]
func (h *PortfolioHandler) Sell(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	summary, err := h.ledgerService.Sell(userID, req.Ticker, req.Quantity)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SELL", "lot", "", c.ClientIP(),
		map[string]interface{}{"ticker": summary.Ticker, "quantity": summary.QuantitySold})

	c.JSON(http.StatusOK, gin.H{
		"ticker":        summary.Ticker,
		"quantity_sold": summary.QuantitySold,
		"message":       fmt.Sprintf("Sold %g shares of %s", summary.QuantitySold, summary.Ticker),
	})
}
