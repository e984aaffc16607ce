// Package entities persists one envelope collection per entity kind under a
// fixed storage key.
package entities

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/brewlog/internal/logging"
	"github.com/dmitrijs2005/brewlog/internal/models"
	"github.com/dmitrijs2005/brewlog/internal/storage"
)

// Collection serializes a list of envelopes into the durable store.
type Collection[T models.Entity[T]] struct {
	store storage.Store
	key   string
	log   logging.Logger
}

func NewCollection[T models.Entity[T]](store storage.Store, key string, log logging.Logger) *Collection[T] {
	return &Collection[T]{store: store, key: key, log: log.With("collection", key)}
}

func (c *Collection[T]) Key() string { return c.key }

// Load reads the whole collection. A missing key yields an empty
// collection. An undecodable value also yields an empty collection (the
// cache must never be fatal to read) but is logged. Only a failing store
// read returns an error, so callers can distinguish "no data" from "no
// storage".
func (c *Collection[T]) Load(ctx context.Context) ([]models.Envelope[T], error) {
	b, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", c.key, err)
	}
	if len(b) == 0 {
		return nil, nil
	}

	var envs []models.Envelope[T]
	if err := json.Unmarshal(b, &envs); err != nil {
		c.log.Warn(ctx, "discarding undecodable collection", "error", err)
		return nil, nil
	}
	return envs, nil
}

// Save writes the whole collection back.
func (c *Collection[T]) Save(ctx context.Context, envs []models.Envelope[T]) error {
	b, err := json.Marshal(envs)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, b); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", c.key, err)
	}
	return nil
}

// Find returns the index of the envelope matching id (by current id or temp
// id), or -1.
func Find[T models.Entity[T]](envs []models.Envelope[T], id models.EntityID) int {
	for i := range envs {
		if envs[i].Matches(id) {
			return i
		}
	}
	return -1
}
