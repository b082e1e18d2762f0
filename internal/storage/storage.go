// Package storage selects and constructs the storage backend.
package storage

import (
	"errors"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/storage/surrealdb"
)

// ErrNotFound marks a missing record. Stores wrap it so callers can
// errors.Is against it without knowing the backend.
var ErrNotFound = surrealdb.ErrNotFound

// IsNotFound reports whether err represents a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// NewStorageManager creates the SurrealDB-backed storage manager.
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	return surrealdb.NewManager(logger, config)
}
