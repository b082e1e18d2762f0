package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// ValuationService combines an owner's holdings with live quotes into a
// valued summary. The operation fails only when the holdings read itself
// fails; individual quote failures surface as degraded entries inside the
// summary, never as the aggregate error.
type ValuationService interface {
	ValuePortfolio(ctx context.Context, ownerID string) (*models.PortfolioSummary, error)
}
