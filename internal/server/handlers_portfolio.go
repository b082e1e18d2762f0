package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/storage"
	"github.com/google/uuid"
)

// validateHoldingFields checks symbol/quantity/purchase price constraints.
func validateHoldingFields(symbol string, quantity, purchasePrice float64) string {
	if symbol == "" {
		return "symbol is required"
	}
	if quantity <= 0 {
		return "quantity must be positive"
	}
	if purchasePrice <= 0 {
		return "purchase_price must be positive"
	}
	return ""
}

// handlePortfolioAdd handles POST /api/portfolio/add — record a holding.
func (s *Server) handlePortfolioAdd(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Symbol        string  `json:"symbol"`
		Quantity      float64 `json:"quantity"`
		PurchasePrice float64 `json:"purchase_price"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if errMsg := validateHoldingFields(req.Symbol, req.Quantity, req.PurchasePrice); errMsg != "" {
		WriteError(w, http.StatusBadRequest, errMsg)
		return
	}

	now := time.Now()
	holding := &models.Holding{
		ID:            uuid.New().String(),
		OwnerID:       uc.UserID,
		Symbol:        req.Symbol,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		CreatedAt:     now,
		ModifiedAt:    now,
	}

	if err := s.app.Storage.HoldingStore().SaveHolding(r.Context(), holding); err != nil {
		s.logger.Error().Err(err).Str("symbol", req.Symbol).Msg("Failed to save holding")
		WriteError(w, http.StatusInternalServerError, "failed to save holding")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "ok",
		"data":   holding,
	})
}

// handlePortfolioSummary handles GET /api/portfolio — the valued portfolio.
func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	summary, err := s.app.ValuationService.ValuePortfolio(r.Context(), uc.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", uc.UserID).Msg("Failed to value portfolio")
		WriteError(w, http.StatusInternalServerError, "failed to load portfolio")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   summary,
	})
}

// routePortfolio dispatches PUT/DELETE for /api/portfolio/{id}.
func (s *Server) routePortfolio(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/portfolio/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "holding id is required in path")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handleHoldingUpdate(w, r, id)
	case http.MethodDelete:
		s.handleHoldingDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// loadOwnedHolding fetches a holding and enforces ownership. Another owner's
// holding looks like a missing one — the id space is not probeable.
func (s *Server) loadOwnedHolding(w http.ResponseWriter, r *http.Request, id, ownerID string) *models.Holding {
	holding, err := s.app.Storage.HoldingStore().GetHolding(r.Context(), id)
	if err != nil {
		if storage.IsNotFound(err) {
			WriteError(w, http.StatusNotFound, "holding not found")
		} else {
			s.logger.Error().Err(err).Str("holding_id", id).Msg("Failed to load holding")
			WriteError(w, http.StatusInternalServerError, "failed to load holding")
		}
		return nil
	}
	if holding.OwnerID != ownerID {
		WriteError(w, http.StatusNotFound, "holding not found")
		return nil
	}
	return holding
}

// handleHoldingUpdate handles PUT /api/portfolio/{id} — partial patch.
func (s *Server) handleHoldingUpdate(w http.ResponseWriter, r *http.Request, id string) {
	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Symbol        *string  `json:"symbol"`
		Quantity      *float64 `json:"quantity"`
		PurchasePrice *float64 `json:"purchase_price"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	holding := s.loadOwnedHolding(w, r, id, uc.UserID)
	if holding == nil {
		return
	}

	if req.Symbol != nil {
		holding.Symbol = strings.ToUpper(strings.TrimSpace(*req.Symbol))
	}
	if req.Quantity != nil {
		holding.Quantity = *req.Quantity
	}
	if req.PurchasePrice != nil {
		holding.PurchasePrice = *req.PurchasePrice
	}

	if errMsg := validateHoldingFields(holding.Symbol, holding.Quantity, holding.PurchasePrice); errMsg != "" {
		WriteError(w, http.StatusBadRequest, errMsg)
		return
	}

	holding.ModifiedAt = time.Now()

	if err := s.app.Storage.HoldingStore().SaveHolding(r.Context(), holding); err != nil {
		s.logger.Error().Err(err).Str("holding_id", id).Msg("Failed to update holding")
		WriteError(w, http.StatusInternalServerError, "failed to update holding")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   holding,
	})
}

// handleHoldingDelete handles DELETE /api/portfolio/{id}.
func (s *Server) handleHoldingDelete(w http.ResponseWriter, r *http.Request, id string) {
	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	holding := s.loadOwnedHolding(w, r, id, uc.UserID)
	if holding == nil {
		return
	}

	if err := s.app.Storage.HoldingStore().DeleteHolding(r.Context(), id); err != nil {
		s.logger.Error().Err(err).Str("holding_id", id).Msg("Failed to delete holding")
		WriteError(w, http.StatusInternalServerError, "failed to delete holding")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"deleted": id,
		},
	})
}
