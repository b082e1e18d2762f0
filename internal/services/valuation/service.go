// Package valuation combines stored holdings with live quotes into a
// portfolio summary.
package valuation

import (
	"context"
	"fmt"
	"sync"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Service implements ValuationService. It only reads: holdings come from
// storage, prices from the quote client, and nothing is written back.
type Service struct {
	storage interfaces.StorageManager
	quotes  interfaces.QuoteClient
	logger  *common.Logger
}

// NewService creates a new valuation service.
func NewService(storage interfaces.StorageManager, quotes interfaces.QuoteClient, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		quotes:  quotes,
		logger:  logger,
	}
}

// ValuePortfolio loads the owner's holdings and resolves a live price for
// each one concurrently. Every lookup settles independently: a failure
// becomes a degraded entry in the summary, never an aggregate error and
// never a cancellation of sibling lookups. The only failure mode of the
// operation itself is the holdings read.
func (s *Service) ValuePortfolio(ctx context.Context, ownerID string) (*models.PortfolioSummary, error) {
	holdings, err := s.storage.HoldingStore().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings for %s: %w", ownerID, err)
	}

	if len(holdings) == 0 {
		return models.Summarize(nil), nil
	}

	// One slot per holding keeps the output count-preserving and in input
	// order without any post-join bookkeeping.
	stocks := make([]models.ValuedHolding, len(holdings))

	var wg sync.WaitGroup
	for i := range holdings {
		wg.Add(1)
		go func(i int, h models.Holding) {
			defer wg.Done()
			stocks[i] = s.valueHolding(ctx, h)
		}(i, holdings[i])
	}
	wg.Wait()

	summary := models.Summarize(stocks)

	failed := 0
	for i := range stocks {
		if !stocks[i].Valued() {
			failed++
		}
	}
	s.logger.Debug().
		Str("owner_id", ownerID).
		Int("holdings", len(holdings)).
		Int("failed_quotes", failed).
		Float64("total_value", summary.TotalValue).
		Msg("Portfolio valued")

	return summary, nil
}

// valueHolding resolves one holding against the quote provider. All errors
// collapse into the failed arm — from the aggregate's point of view an
// unknown symbol and an unreachable provider are the same: no price.
func (s *Service) valueHolding(ctx context.Context, h models.Holding) models.ValuedHolding {
	quote, err := s.quotes.GetLiveQuote(ctx, h.Symbol)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("symbol", h.Symbol).
			Str("holding_id", h.ID).
			Msg("Quote lookup failed")
		return models.NewFailedHolding(h, err.Error())
	}
	return models.NewValuedHolding(h, quote.Price)
}

// Ensure Service implements ValuationService
var _ interfaces.ValuationService = (*Service)(nil)
