package surrealdb

import (
	"context"
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

type HoldingStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewHoldingStore(db *surrealdb.DB, logger *common.Logger) *HoldingStore {
	return &HoldingStore{
		db:     db,
		logger: logger,
	}
}

func (s *HoldingStore) GetHolding(ctx context.Context, id string) (*models.Holding, error) {
	holding, err := surrealdb.Select[models.Holding](ctx, s.db, surrealmodels.NewRecordID("holding", id))
	if err != nil {
		return nil, fmt.Errorf("failed to select holding: %w", err)
	}
	if holding == nil || holding.ID == "" {
		return nil, fmt.Errorf("holding %s: %w", id, ErrNotFound)
	}
	return holding, nil
}

func (s *HoldingStore) SaveHolding(ctx context.Context, holding *models.Holding) error {
	sql := "UPSERT type::record('holding', $id) CONTENT $holding"
	vars := map[string]any{"id": holding.ID, "holding": holding}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Holding](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save holding after retries: %w", lastErr)
}

func (s *HoldingStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Holding, error) {
	sql := "SELECT * FROM holding WHERE owner_id = $owner_id ORDER BY created_at ASC"
	vars := map[string]any{"owner_id": ownerID}

	results, err := surrealdb.Query[[]models.Holding](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return nil, nil
}

func (s *HoldingStore) ListAll(ctx context.Context) ([]models.Holding, error) {
	list, err := surrealdb.Select[[]models.Holding](ctx, s.db, surrealmodels.Table("holding"))
	if err != nil {
		return nil, fmt.Errorf("failed to list all holdings: %w", err)
	}
	if list == nil {
		return nil, nil
	}
	return *list, nil
}

func (s *HoldingStore) DeleteHolding(ctx context.Context, id string) error {
	_, err := surrealdb.Delete[models.Holding](ctx, s.db, surrealmodels.NewRecordID("holding", id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return nil
}
