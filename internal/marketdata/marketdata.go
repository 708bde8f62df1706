// Package marketdata defines the contracts for external market data
// sources and provides HTTP clients for them. The ledger and valuation
// core consume these interfaces only; transport details stay here.
package marketdata

import (
	"context"
	"time"
)

// DateFormat is the calendar-day key format used across price histories.
const DateFormat = "2006-01-02"

// QuoteSource returns the current market price for a ticker, in cents.
// An error means the quote is unavailable; callers fall back rather
// than failing a whole snapshot on one bad quote.
type QuoteSource interface {
	Quote(ctx context.Context, ticker string) (int64, error)
}

// PriceHistorySource returns daily closing prices for a ticker, keyed by
// calendar day (DateFormat), covering at least the requested range. The
// mapping is sparse: non-trading days have no entry. An empty mapping and
// an error are both treated as "no data" by the valuation core.
type PriceHistorySource interface {
	History(ctx context.Context, ticker string, from, to time.Time) (map[string]int64, error)
}

// Article is a single company news item.
type Article struct {
	Headline    string `json:"headline"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt int64  `json:"publishedAt"`
	Summary     string `json:"summary"`
}

// NewsSource returns recent company news for a ticker.
type NewsSource interface {
	CompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]Article, error)
}

// ChartPoint is one intraday price sample for charting.
type ChartPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// IntradaySource returns an ascending intraday price series for a ticker.
type IntradaySource interface {
	Intraday(ctx context.Context, ticker string) ([]ChartPoint, error)
}
