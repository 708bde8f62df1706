package services

import (
	"context"
	"strings"
	"time"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/marketdata"
)

const (
	newsLookbackDays = 7
	maxNewsArticles  = 20
	fallbackArticles = 5
)

// relevanceKeywords filters company news down to items about company
// actions and projections rather than generic market chatter.
var relevanceKeywords = []string{
	"announce", "launch", "reveal", "unveil", "project", "forecast",
	"expect", "estimate", "report", "earnings", "quarter", "revenue",
	"profit", "loss", "growth", "expand", "acquire", "merge", "partner",
	"collaborate", "approve", "regulate", "sue", "settle", "invest",
	"divest", "buy", "sell", "upgrade", "downgrade", "target", "price",
	"split", "dividend", "authorize", "appoint", "resign", "suspend",
}

// stockService handles per-ticker market data lookups.
type stockService struct {
	news     marketdata.NewsSource
	intraday marketdata.IntradaySource
	timeout  time.Duration
}

// NewStockService creates a new StockServicer.
func NewStockService(news marketdata.NewsSource, intraday marketdata.IntradaySource, timeout time.Duration) StockServicer {
	return &stockService{news: news, intraday: intraday, timeout: timeout}
}

// GetNews returns recent relevant news for a ticker. Articles matching a
// relevance keyword are preferred; when the strict filter matches nothing,
// the first few unfiltered articles are returned instead of an empty list.
func (s *stockService) GetNews(ctx context.Context, ticker string) ([]marketdata.Article, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Ticker is required")
	}

	to := today()
	from := to.AddDate(0, 0, -newsLookbackDays)

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	all, err := s.news.CompanyNews(fetchCtx, ticker, from, to)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
	}

	var articles []marketdata.Article
	for _, article := range all {
		if len(articles) >= maxNewsArticles {
			break
		}
		text := strings.ToLower(article.Headline + " " + article.Summary)
		for _, kw := range relevanceKeywords {
			if strings.Contains(text, kw) {
				articles = append(articles, article)
				break
			}
		}
	}

	// Strict filtering yielded nothing: fall back to the newest few.
	if len(articles) == 0 {
		limit := min(fallbackArticles, len(all))
		articles = all[:limit]
	}

	if len(articles) == 0 {
		return nil, apperrors.ErrNoNewsFound
	}
	return articles, nil
}

// GetChart returns the ascending intraday price series for a ticker.
func (s *stockService) GetChart(ctx context.Context, ticker string) ([]marketdata.ChartPoint, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Ticker is required")
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	points, err := s.intraday.Intraday(fetchCtx, ticker)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
	}
	if len(points) == 0 {
		return nil, apperrors.ErrNoChartData
	}
	return points, nil
}
