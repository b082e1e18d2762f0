package models

import "time"

// Holding is a user's recorded position in one ticker symbol.
type Holding struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Symbol        string    `json:"symbol"`
	Quantity      float64   `json:"quantity"`
	PurchasePrice float64   `json:"purchase_price"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
}

// Quote is a provider's current market snapshot for a ticker. Ephemeral —
// fetched fresh per request, never persisted.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	AsOf          time.Time `json:"as_of"`
}

// ValuedHolding is a Holding joined with a live quote. Exactly one of the
// two arms is populated: priced fields on a successful lookup, QuoteError on
// a failed one. The pointer fields are omitted from JSON on failure so
// consumers never see a zero price masquerading as a real one.
type ValuedHolding struct {
	Holding
	CurrentPrice *float64 `json:"current_price,omitempty"`
	TotalValue   *float64 `json:"total_value,omitempty"`
	ProfitLoss   *float64 `json:"profit_loss,omitempty"`
	QuoteError   string   `json:"quote_error,omitempty"`
}

// Valued reports whether the holding carries a live price.
func (v *ValuedHolding) Valued() bool {
	return v.QuoteError == "" && v.CurrentPrice != nil
}

// NewValuedHolding builds the priced arm from a holding and its live price.
func NewValuedHolding(h Holding, price float64) ValuedHolding {
	totalValue := price * h.Quantity
	profitLoss := (price - h.PurchasePrice) * h.Quantity
	return ValuedHolding{
		Holding:      h,
		CurrentPrice: &price,
		TotalValue:   &totalValue,
		ProfitLoss:   &profitLoss,
	}
}

// NewFailedHolding builds the failed arm: stored fields plus an error
// marker, no numeric fields.
func NewFailedHolding(h Holding, reason string) ValuedHolding {
	if reason == "" {
		reason = "quote unavailable"
	}
	return ValuedHolding{Holding: h, QuoteError: reason}
}

// PortfolioSummary is the valued view of one owner's holdings. Totals cover
// priced entries only — failed lookups contribute zero, they do not abort.
type PortfolioSummary struct {
	Stocks          []ValuedHolding `json:"stocks"`
	TotalValue      float64         `json:"total_value"`
	TotalProfitLoss float64         `json:"total_profit_loss"`
}

// Summarize reduces a set of valued holdings into a summary. The stocks
// slice is carried through as-is; nil becomes an empty list so the JSON
// surface is always an array.
func Summarize(stocks []ValuedHolding) *PortfolioSummary {
	if stocks == nil {
		stocks = []ValuedHolding{}
	}
	summary := &PortfolioSummary{Stocks: stocks}
	for i := range stocks {
		if stocks[i].Valued() {
			summary.TotalValue += *stocks[i].TotalValue
			summary.TotalProfitLoss += *stocks[i].ProfitLoss
		}
	}
	return summary
}
