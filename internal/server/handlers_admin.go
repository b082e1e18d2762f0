package server

import (
	"net/http"

	"github.com/bobmcallan/folio/internal/models"
)

// ownerPortfolio is one owner's raw holdings in the admin listing.
type ownerPortfolio struct {
	UserID   string           `json:"user_id"`
	Email    string           `json:"email,omitempty"`
	Holdings []models.Holding `json:"holdings"`
}

// handleAdminUserPortfolios handles GET /api/admin/user-portfolios — raw
// holding records across all owners. Requires the admin flag; no code path
// here grants it, the flag is only read.
func (s *Server) handleAdminUserPortfolios(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uc, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !uc.Admin {
		WriteError(w, http.StatusForbidden, "admin access required")
		return
	}

	ctx := r.Context()

	holdings, err := s.app.Storage.HoldingStore().ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list holdings")
		WriteError(w, http.StatusInternalServerError, "failed to list holdings")
		return
	}

	byOwner := make(map[string][]models.Holding)
	var owners []string
	for _, h := range holdings {
		if _, seen := byOwner[h.OwnerID]; !seen {
			owners = append(owners, h.OwnerID)
		}
		byOwner[h.OwnerID] = append(byOwner[h.OwnerID], h)
	}

	// Emails are best-effort enrichment; a missing user record still lists
	// its holdings.
	emails := make(map[string]string)
	if users, err := s.app.Storage.UserStore().ListUsers(ctx); err == nil {
		for _, u := range users {
			emails[u.UserID] = u.Email
		}
	}

	portfolios := make([]ownerPortfolio, 0, len(owners))
	for _, owner := range owners {
		portfolios = append(portfolios, ownerPortfolio{
			UserID:   owner,
			Email:    emails[owner],
			Holdings: byOwner[owner],
		})
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   portfolios,
	})
}
