package services

import (
	"strings"
	"sync"
	"time"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/marketdata"
	"stockfolio/internal/models"
	"stockfolio/internal/pagination"
	"stockfolio/internal/store"
)

// ledgerService maintains the append-only lot ledger for each owner.
type ledgerService struct {
	lots store.LotStore

	// ownerLocks serializes Buy/Sell per owner so a concurrent sell cannot
	// pass the insufficient-shares check against a stale total. Different
	// owners' ledgers are fully independent.
	ownerLocks sync.Map // owner id -> *sync.Mutex
}

// NewLedgerService creates a new LedgerServicer on the given lot store.
func NewLedgerService(lots store.LotStore) LedgerServicer {
	return &ledgerService{lots: lots}
}

func (s *ledgerService) lockOwner(ownerID string) *sync.Mutex {
	mu, _ := s.ownerLocks.LoadOrStore(ownerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// quantityEpsilon absorbs float accumulation error in share quantities.
// Summing fractional lots can land a hair below the exact total, so
// quantity comparisons tolerate this much and residuals below it are
// treated as zero rather than left behind as dust lots.
const quantityEpsilon = 1e-9

// normalizeTicker uppercases and trims a ticker symbol.
func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// today returns the current calendar date at midnight UTC.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Buy appends exactly one new lot to the owner's ledger. An empty
// purchaseDate defaults to today; a future or unparsable date is rejected
// before any store call.
func (s *ledgerService) Buy(ownerID, ticker string, quantity float64, unitCost int64, companyName, purchaseDate string) (string, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Ticker is required")
	}
	if quantity <= 0 || unitCost <= 0 {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid quantity or price")
	}

	date := today()
	if purchaseDate != "" {
		parsed, err := time.ParseInLocation(marketdata.DateFormat, purchaseDate, time.UTC)
		if err != nil {
			return "", apperrors.Wrap(apperrors.ErrInvalidDate, err)
		}
		if parsed.After(date) {
			return "", apperrors.ErrInvalidDate
		}
		date = parsed
	}

	mu := s.lockOwner(ownerID)
	mu.Lock()
	defer mu.Unlock()

	lot := &models.Lot{
		UserID:       ownerID,
		Ticker:       ticker,
		CompanyName:  companyName,
		Quantity:     quantity,
		UnitCost:     unitCost,
		PurchaseDate: date,
	}
	return s.lots.InsertLot(lot)
}

// Sell consumes lots for (owner, ticker) in FIFO order: oldest purchase
// date first, creation order breaking ties. A lot fully consumed is
// deleted; a partially consumed lot keeps its date and cost with a reduced
// quantity. The whole sale is rejected before any mutation if the owner
// holds fewer shares than requested.
func (s *ledgerService) Sell(ownerID, ticker string, quantity float64) (*SoldSummary, error) {
	ticker = normalizeTicker(ticker)
	if quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid quantity")
	}

	mu := s.lockOwner(ownerID)
	mu.Lock()
	defer mu.Unlock()

	all, err := s.lots.ListLots(ownerID)
	if err != nil {
		return nil, err
	}

	// ListLots returns lots in FIFO order already.
	var held []models.Lot
	var total float64
	for _, lot := range all {
		if lot.Ticker == ticker {
			held = append(held, lot)
			total += lot.Quantity
		}
	}
	if len(held) == 0 {
		return nil, apperrors.ErrHoldingNotFound
	}
	if quantity > total+quantityEpsilon {
		return nil, apperrors.ErrInsufficientShares
	}

	remaining := quantity
	for _, lot := range held {
		if remaining <= quantityEpsilon {
			break
		}
		if lot.Quantity <= remaining+quantityEpsilon {
			if err := s.lots.DeleteLot(lot.ID); err != nil {
				return nil, err
			}
			remaining -= lot.Quantity
		} else {
			if err := s.lots.UpdateLotQuantity(lot.ID, lot.Quantity-remaining); err != nil {
				return nil, err
			}
			remaining = 0
		}
	}

	return &SoldSummary{Ticker: ticker, QuantitySold: quantity}, nil
}

// ListLots returns a page of the owner's lots in FIFO order.
func (s *ledgerService) ListLots(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Lot], error) {
	page.Defaults()

	all, err := s.lots.ListLots(ownerID)
	if err != nil {
		return nil, err
	}

	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.PageSize
	if end > len(all) {
		end = len(all)
	}

	result := pagination.NewPageResponse(all[start:end], page.Page, page.PageSize, int64(len(all)))
	return &result, nil
}
