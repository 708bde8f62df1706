package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stockfolio/internal/services"
)

// StockHandler handles per-ticker market data requests.
type StockHandler struct {
	stockService services.StockServicer
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService services.StockServicer) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// GetNews returns recent relevant company news for a ticker.
// @Summary     Get stock news
// @Description Get recent company news filtered for relevance
// @Tags        stocks
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker symbol"
// @Success     200 {object} map[string]interface{} "Ticker and news articles"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No recent news found"
// @Failure     502 {object} ErrorResponse "Upstream unavailable"
// @Router      /stock/{ticker} [get]
func (h *StockHandler) GetNews(c *gin.Context) {
	ticker := c.Param("ticker")

	articles, err := h.stockService.GetNews(c.Request.Context(), ticker)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticker": strings.ToUpper(ticker),
		"news":   articles,
	})
}

// GetChart returns the intraday price series for a ticker.
// @Summary     Get stock chart data
// @Description Get the ascending intraday price series for a ticker
// @Tags        stocks
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker symbol"
// @Success     200 {array} marketdata.ChartPoint "Intraday series"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No chart data"
// @Failure     502 {object} ErrorResponse "Upstream unavailable"
// @Router      /stock/{ticker}/history [get]
func (h *StockHandler) GetChart(c *gin.Context) {
	ticker := c.Param("ticker")

	points, err := h.stockService.GetChart(c.Request.Context(), ticker)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, points)
}
