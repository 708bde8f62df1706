package services

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"stockfolio/internal/logger"
	"stockfolio/internal/marketdata"
	"stockfolio/internal/store"
)

// historyPadDays extends the fetch range before the window start so the
// first window days can carry a prior close forward. Seven days covers a
// weekend adjoining market holidays.
const historyPadDays = 7

// priceSeries holds one ticker's sparse daily close history with its day
// keys sorted ascending for carry-forward lookups.
type priceSeries struct {
	days   []string // sorted DateFormat keys
	closes map[string]int64
}

// newPriceSeries builds a priceSeries from a sparse day -> close mapping.
func newPriceSeries(closes map[string]int64) priceSeries {
	days := make([]string, 0, len(closes))
	for day := range closes {
		days = append(days, day)
	}
	sort.Strings(days)
	return priceSeries{days: days, closes: closes}
}

// resolvePrice resolves a closing price for a day with the carry-forward
// rule: the exact entry if present, otherwise the most recent entry at or
// before the day. The second return is false when the series has no entry
// at or before the day; the caller then falls back to the lot's cost basis.
func resolvePrice(series priceSeries, day string) (int64, bool) {
	if price, ok := series.closes[day]; ok {
		return price, true
	}
	// Index of the first day strictly after the requested one.
	idx := sort.SearchStrings(series.days, day)
	if idx == 0 {
		return 0, false
	}
	return series.closes[series.days[idx-1]], true
}

// valuationService reconstructs daily portfolio value over a trailing window.
type valuationService struct {
	lots       store.LotStore
	history    marketdata.PriceHistorySource
	timeout    time.Duration
	windowDays int
}

// NewValuationService creates a new ValuationServicer. windowDays is the
// default trailing window applied when a request does not specify one.
func NewValuationService(lots store.LotStore, history marketdata.PriceHistorySource, timeout time.Duration, windowDays int) ValuationServicer {
	return &valuationService{lots: lots, history: history, timeout: timeout, windowDays: windowDays}
}

// fetchHistories pulls each distinct ticker's close history in parallel,
// one goroutine per ticker, each writing its own map slot. A failed or
// timed-out fetch yields an empty series for that ticker only; the merge
// is deterministic because results are keyed by ticker.
func (s *valuationService) fetchHistories(ctx context.Context, tickers []string, from, to time.Time) map[string]priceSeries {
	var mu sync.Mutex
	histories := make(map[string]priceSeries, len(tickers))

	var wg sync.WaitGroup
	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			closes, err := s.history.History(fetchCtx, ticker, from, to)
			if err != nil {
				logger.Get().Warnw("price history unavailable, valuing at cost basis",
					"ticker", ticker,
					"error", err,
				)
				closes = nil
			}

			mu.Lock()
			histories[ticker] = newPriceSeries(closes)
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	return histories
}

// GetHistory produces the owner's daily total portfolio value for the
// trailing window, ascending from the window start through today. The
// series always has windowDays+1 points regardless of market data
// sparsity: missing days carry the prior close forward, and tickers with
// no history at all are valued at their lots' cost basis. An owner with
// no lots gets an empty series.
func (s *valuationService) GetHistory(ctx context.Context, ownerID string, windowDays int) ([]ValuationPoint, error) {
	if windowDays <= 0 {
		windowDays = s.windowDays
	}

	lots, err := s.lots.ListLots(ownerID)
	if err != nil {
		return nil, err
	}
	if len(lots) == 0 {
		return []ValuationPoint{}, nil
	}

	seen := make(map[string]bool)
	var tickers []string
	for _, lot := range lots {
		if !seen[lot.Ticker] {
			seen[lot.Ticker] = true
			tickers = append(tickers, lot.Ticker)
		}
	}

	end := today()
	start := end.AddDate(0, 0, -windowDays)
	histories := s.fetchHistories(ctx, tickers, start.AddDate(0, 0, -historyPadDays), end)

	// Purchase dates as day keys, computed once.
	purchased := make([]string, len(lots))
	for i := range lots {
		purchased[i] = lots[i].PurchaseDate.Format(marketdata.DateFormat)
	}

	points := make([]ValuationPoint, 0, windowDays+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format(marketdata.DateFormat)

		var total int64
		for i, lot := range lots {
			// A lot contributes nothing before its purchase date.
			if purchased[i] > day {
				continue
			}
			price, ok := resolvePrice(histories[lot.Ticker], day)
			if !ok {
				price = lot.UnitCost
			}
			total += int64(math.Round(lot.Quantity * float64(price)))
		}

		points = append(points, ValuationPoint{Date: day, Value: total})
	}

	return points, nil
}
