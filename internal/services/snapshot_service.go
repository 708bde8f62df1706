package services

import (
	"context"
	"math"
	"sync"
	"time"

	"stockfolio/internal/logger"
	"stockfolio/internal/marketdata"
	"stockfolio/internal/store"
)

// snapshotService computes present-day valuations from live quotes.
// Holdings are reported per lot, one row per purchase, preserving each
// lot's own date and cost.
type snapshotService struct {
	lots    store.LotStore
	quotes  marketdata.QuoteSource
	timeout time.Duration
}

// NewSnapshotService creates a new SnapshotServicer.
func NewSnapshotService(lots store.LotStore, quotes marketdata.QuoteSource, timeout time.Duration) SnapshotServicer {
	return &snapshotService{lots: lots, quotes: quotes, timeout: timeout}
}

// fetchQuotes pulls one quote per distinct ticker in parallel. Tickers
// whose quote fails or times out are absent from the result; the caller
// values their lots at cost basis.
func (s *snapshotService) fetchQuotes(ctx context.Context, tickers []string) map[string]int64 {
	var mu sync.Mutex
	quotes := make(map[string]int64, len(tickers))

	var wg sync.WaitGroup
	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			price, err := s.quotes.Quote(fetchCtx, ticker)
			if err != nil {
				logger.Get().Warnw("quote unavailable, valuing at cost basis",
					"ticker", ticker,
					"error", err,
				)
				return
			}

			mu.Lock()
			quotes[ticker] = price
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	return quotes
}

// GetSnapshot computes the owner's current per-lot market values and
// portfolio aggregates. One unavailable quote never fails the snapshot;
// the affected lots fall back to their unit cost.
func (s *snapshotService) GetSnapshot(ctx context.Context, ownerID string) (*PortfolioSnapshot, error) {
	lots, err := s.lots.ListLots(ownerID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var tickers []string
	for _, lot := range lots {
		if !seen[lot.Ticker] {
			seen[lot.Ticker] = true
			tickers = append(tickers, lot.Ticker)
		}
	}
	quotes := s.fetchQuotes(ctx, tickers)

	snapshot := &PortfolioSnapshot{Holdings: make([]Holding, 0, len(lots))}
	for _, lot := range lots {
		currentPrice, ok := quotes[lot.Ticker]
		if !ok {
			currentPrice = lot.UnitCost
		}

		marketValue := int64(math.Round(lot.Quantity * float64(currentPrice)))
		costBasis := int64(math.Round(lot.Quantity * float64(lot.UnitCost)))
		gainLoss := marketValue - costBasis

		var gainLossPct float64
		if costBasis > 0 {
			gainLossPct = float64(gainLoss) / float64(costBasis) * 100
		}

		snapshot.Holdings = append(snapshot.Holdings, Holding{
			LotID:           lot.ID,
			Ticker:          lot.Ticker,
			CompanyName:     lot.CompanyName,
			Quantity:        lot.Quantity,
			UnitCost:        lot.UnitCost,
			CurrentPrice:    currentPrice,
			MarketValue:     marketValue,
			CostBasis:       costBasis,
			GainLoss:        gainLoss,
			GainLossPercent: gainLossPct,
			PurchaseDate:    lot.PurchaseDate.Format(marketdata.DateFormat),
		})

		snapshot.TotalValue += marketValue
		snapshot.TotalCost += costBasis
	}

	snapshot.OverallGainLoss = snapshot.TotalValue - snapshot.TotalCost
	if snapshot.TotalCost > 0 {
		snapshot.OverallGainLossPercent = float64(snapshot.OverallGainLoss) / float64(snapshot.TotalCost) * 100
	}

	return snapshot, nil
}
