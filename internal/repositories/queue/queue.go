// Package queue persists the ordered list of not-yet-acknowledged mutations.
//
// The queue is append-only except for removal on a terminal outcome,
// in-place retry-count updates, and identifier remapping.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/brewlog/internal/common"
	"github.com/dmitrijs2005/brewlog/internal/logging"
	"github.com/dmitrijs2005/brewlog/internal/models"
	"github.com/dmitrijs2005/brewlog/internal/storage"
)

type Repository struct {
	store storage.Store
	log   logging.Logger
}

func NewRepository(store storage.Store, log logging.Logger) *Repository {
	return &Repository{store: store, log: log.With("module", "queue")}
}

func (r *Repository) load(ctx context.Context) ([]models.PendingOperation, error) {
	b, err := r.store.Get(ctx, common.StorageKeyPendingOperations)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending operations: %w", err)
	}
	if len(b) == 0 {
		return nil, nil
	}

	var ops []models.PendingOperation
	if err := json.Unmarshal(b, &ops); err != nil {
		r.log.Warn(ctx, "discarding undecodable operation queue", "error", err)
		return nil, nil
	}
	return ops, nil
}

func (r *Repository) save(ctx context.Context, ops []models.PendingOperation) error {
	b, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("failed to encode pending operations: %w", err)
	}
	if err := r.store.Set(ctx, common.StorageKeyPendingOperations, b); err != nil {
		return fmt.Errorf("failed to write pending operations: %w", err)
	}
	return nil
}

// Enqueue appends op to the tail of the queue.
func (r *Repository) Enqueue(ctx context.Context, op models.PendingOperation) error {
	ops, err := r.load(ctx)
	if err != nil {
		return err
	}
	return r.save(ctx, append(ops, op))
}

// Snapshot returns every queued operation in enqueue order. The sync engine
// drains exactly this snapshot; operations enqueued afterwards wait for the
// next pass.
func (r *Repository) Snapshot(ctx context.Context) ([]models.PendingOperation, error) {
	return r.load(ctx)
}

// Remove deletes the operation with the given operation id.
func (r *Repository) Remove(ctx context.Context, opID string) error {
	ops, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := ops[:0]
	for _, op := range ops {
		if op.ID != opID {
			kept = append(kept, op)
		}
	}
	return r.save(ctx, kept)
}

// RemoveWhere deletes every operation matching the predicate and returns
// how many were removed.
func (r *Repository) RemoveWhere(ctx context.Context, match func(models.PendingOperation) bool) (int, error) {
	ops, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	kept := ops[:0]
	removed := 0
	for _, op := range ops {
		if match(op) {
			removed++
			continue
		}
		kept = append(kept, op)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, r.save(ctx, kept)
}

// Update replaces the stored operation with the same id, preserving queue
// order. Used for retry-count bumps and remap rewrites.
func (r *Repository) Update(ctx context.Context, op models.PendingOperation) error {
	ops, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range ops {
		if ops[i].ID == op.ID {
			ops[i] = op
			return r.save(ctx, ops)
		}
	}
	return common.ErrNotFound
}

// Transform applies fn to every queued operation and persists the result if
// anything changed. fn returns the (possibly rewritten) operation and
// whether it changed.
func (r *Repository) Transform(ctx context.Context, fn func(models.PendingOperation) (models.PendingOperation, bool)) error {
	ops, err := r.load(ctx)
	if err != nil {
		return err
	}
	changed := false
	for i := range ops {
		rewritten, ok := fn(ops[i])
		if ok {
			ops[i] = rewritten
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.save(ctx, ops)
}

// Count returns the number of queued operations.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ops, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(ops), nil
}

// Clear discards every queued intent. This is destructive: envelopes keep
// their pending status, so local-only changes left behind will never reach
// the server unless re-edited.
func (r *Repository) Clear(ctx context.Context) error {
	return r.save(ctx, nil)
}
