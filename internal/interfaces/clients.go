package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// QuoteClient fetches a live quote for one ticker symbol. One provider
// request per call: no retry, no backoff, no caching. A failed lookup —
// unknown symbol or unreachable provider alike — returns a nil quote and an
// error; callers that need to tell the two apart inspect the error with
// errors.Is / errors.As against the client's exported types.
type QuoteClient interface {
	GetLiveQuote(ctx context.Context, symbol string) (*models.Quote, error)
}
