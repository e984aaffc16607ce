// Package metadata persists sync bookkeeping under its own storage key.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/brewlog/internal/common"
	"github.com/dmitrijs2005/brewlog/internal/logging"
	"github.com/dmitrijs2005/brewlog/internal/storage"
)

// Metadata is the persisted sync bookkeeping record.
type Metadata struct {
	LastSync time.Time `json:"last_sync"`
}

type Repository struct {
	store storage.Store
	log   logging.Logger
}

func NewRepository(store storage.Store, log logging.Logger) *Repository {
	return &Repository{store: store, log: log.With("module", "metadata")}
}

// Load returns the stored metadata, zero-valued when absent or undecodable.
func (r *Repository) Load(ctx context.Context) (Metadata, error) {
	b, err := r.store.Get(ctx, common.StorageKeySyncMetadata)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read sync metadata: %w", err)
	}
	if len(b) == 0 {
		return Metadata{}, nil
	}

	var m Metadata
	if err := json.Unmarshal(b, &m); err != nil {
		r.log.Warn(ctx, "discarding undecodable sync metadata", "error", err)
		return Metadata{}, nil
	}
	return m, nil
}

// SetLastSync records when the last sync pass finished.
func (r *Repository) SetLastSync(ctx context.Context, t time.Time) error {
	m, err := r.Load(ctx)
	if err != nil {
		return err
	}
	m.LastSync = t

	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode sync metadata: %w", err)
	}
	if err := r.store.Set(ctx, common.StorageKeySyncMetadata, b); err != nil {
		return fmt.Errorf("failed to write sync metadata: %w", err)
	}
	return nil
}
