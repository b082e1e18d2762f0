// Package interfaces defines the contracts between Folio's layers.
// Services and handlers depend on these, never on concrete stores or
// clients, so every collaborator can be swapped for a test double.
package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// UserStore persists account records.
type UserStore interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// HoldingStore persists holding documents. The valuation service only ever
// reads from it; mutation happens through the CRUD handlers.
type HoldingStore interface {
	SaveHolding(ctx context.Context, holding *models.Holding) error
	GetHolding(ctx context.Context, id string) (*models.Holding, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Holding, error)
	ListAll(ctx context.Context) ([]models.Holding, error)
	DeleteHolding(ctx context.Context, id string) error
}

// StorageManager provides access to all stores backed by one database
// connection.
type StorageManager interface {
	UserStore() UserStore
	HoldingStore() HoldingStore
	Close() error
}
