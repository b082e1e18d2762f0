package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/folio/internal/clients/eodhd"
)

// handleStocksLive handles GET /api/stocks/live?symbol=X — a single live
// quote. Unlike the portfolio summary, provider failures surface directly
// here: there is nothing to degrade into.
func (s *Server) handleStocksLive(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol query parameter is required")
		return
	}

	quote, err := s.app.QuoteClient.GetLiveQuote(r.Context(), symbol)
	if err != nil {
		if eodhd.IsSymbolNotFound(err) {
			WriteError(w, http.StatusNotFound, "unknown symbol: "+symbol)
			return
		}
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Live quote lookup failed")
		WriteError(w, http.StatusBadGateway, "quote provider unavailable")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   quote,
	})
}
