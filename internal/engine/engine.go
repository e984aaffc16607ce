// Package engine implements the single-flight reconciliation loop that
// drains the pending operation queue against the remote API.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/brewlog/internal/common"
	"github.com/dmitrijs2005/brewlog/internal/logging"
	"github.com/dmitrijs2005/brewlog/internal/models"
	"github.com/dmitrijs2005/brewlog/internal/remote"
	"github.com/dmitrijs2005/brewlog/internal/repositories/entities"
	"github.com/dmitrijs2005/brewlog/internal/repositories/metadata"
	"github.com/dmitrijs2005/brewlog/internal/repositories/queue"
)

// Engine drains the pending operation queue. State is Idle or Syncing,
// owned by the instance: a second SyncPendingOperations call while one is
// active is rejected with common.ErrSyncInProgress, it never queues behind
// the first.
//
// storeMu is the shared store lock. The engine holds it only for individual
// snapshot/commit steps, never across a remote call, so CRUD operations
// stay responsive during a sync pass; anything they enqueue after the
// snapshot is picked up by the next pass.
type Engine struct {
	recipes  *entities.Collection[models.Recipe]
	sessions *entities.Collection[models.BrewSession]
	queue    *queue.Repository
	meta     *metadata.Repository
	remote   remote.Client
	remap    *Remapper
	log      logging.Logger
	clock    func() time.Time

	storeMu *sync.Mutex

	mu      sync.Mutex
	syncing bool
}

func New(
	recipes *entities.Collection[models.Recipe],
	sessions *entities.Collection[models.BrewSession],
	q *queue.Repository,
	meta *metadata.Repository,
	remoteClient remote.Client,
	storeMu *sync.Mutex,
	log logging.Logger,
) *Engine {
	return &Engine{
		recipes:  recipes,
		sessions: sessions,
		queue:    q,
		meta:     meta,
		remote:   remoteClient,
		remap:    NewRemapper(recipes, sessions, q, log),
		log:      log.With("module", "sync_engine"),
		clock:    time.Now,
		storeMu:  storeMu,
	}
}

func (e *Engine) begin() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.syncing {
		return common.ErrSyncInProgress
	}
	e.syncing = true
	return nil
}

func (e *Engine) end() {
	e.mu.Lock()
	e.syncing = false
	e.mu.Unlock()
}

// SyncPendingOperations snapshots the queue and replays it against the
// remote API, oldest first. Per-operation failures never abort the drain;
// they increment the operation's retry count and are reported in the
// result. The only error returned is the re-entrancy guard.
func (e *Engine) SyncPendingOperations(ctx context.Context) (models.SyncResult, error) {
	if err := e.begin(); err != nil {
		return models.SyncResult{}, err
	}
	defer e.end()

	res := models.SyncResult{Success: true}

	e.storeMu.Lock()
	ops, err := e.queue.Snapshot(ctx)
	e.storeMu.Unlock()
	if err != nil {
		// Read paths degrade rather than fail; an unreadable queue drains
		// nothing this pass.
		e.log.Error(ctx, "failed to snapshot operation queue", "error", err)
		ops = nil
	}

	e.log.Info(ctx, "sync pass started", "operations", len(ops))

	// Strict enqueue order: a sibling's update/delete may depend on a prior
	// create having been remapped already.
	for i := 0; i < len(ops); i++ {
		remapped, err := e.apply(ctx, ops[i])
		if err != nil {
			res.Success = false
			res.Failed++
			e.fail(ctx, ops[i], err, &res)
			continue
		}
		res.Processed++
		if remapped != nil {
			e.rewriteSnapshot(ctx, ops[i+1:], *remapped)
		}
	}

	e.storeMu.Lock()
	if err := e.meta.SetLastSync(ctx, e.clock()); err != nil {
		e.log.Warn(ctx, "failed to record last sync time", "error", err)
	}
	e.storeMu.Unlock()

	e.log.Info(ctx, "sync pass finished",
		"processed", res.Processed, "failed", res.Failed)
	return res, nil
}

// fail applies retry bookkeeping for one failed operation. Exhausted
// operations are dropped and reported; the rest stay queued with their
// incremented retry count.
func (e *Engine) fail(ctx context.Context, op models.PendingOperation, cause error, res *models.SyncResult) {
	op.RetryCount++

	e.storeMu.Lock()
	defer e.storeMu.Unlock()

	if op.RetryCount >= op.MaxRetries {
		if err := e.queue.Remove(ctx, op.ID); err != nil {
			e.log.Error(ctx, "failed to drop exhausted operation", "operation", op.ID, "error", err)
		}
		res.Errors = append(res.Errors, fmt.Sprintf("Max retries reached for %s %s", op.Type, op.EntityType))
		e.log.Warn(ctx, "dropping operation, retries exhausted",
			"operation", op.ID, "type", op.Type, "entity_type", op.EntityType, "cause", cause)
		return
	}

	if err := e.queue.Update(ctx, op); err != nil {
		// A lost bump would let the operation retry beyond its budget.
		e.log.Error(ctx, "failed to persist retry count", "operation", op.ID, "error", err)
		res.Errors = append(res.Errors, fmt.Sprintf("failed to persist retry count for %s %s: %v", op.Type, op.EntityType, err))
	}
	res.Errors = append(res.Errors, cause.Error())
}

// idRemap records a temp-to-permanent rewrite performed by a create commit.
type idRemap struct {
	old, replacement models.EntityID
}

// rewriteSnapshot applies a remap to the not-yet-processed tail of the
// in-memory snapshot. The stored queue was already rewritten by the
// remapper, but the drain iterates this snapshot; without the same rewrite
// a later operation in the pass would ship the stale temporary identifier.
func (e *Engine) rewriteSnapshot(ctx context.Context, ops []models.PendingOperation, rm idRemap) {
	for i := range ops {
		rewritten, changed, err := ops[i].RewriteRefs(rm.old, rm.replacement)
		if err != nil {
			e.log.Warn(ctx, "skipping unrewritable snapshot payload", "operation", ops[i].ID, "error", err)
			continue
		}
		if changed {
			ops[i] = rewritten
		}
	}
}

// apply replays one operation. A successful create returns the remap the
// drain loop must mirror onto the rest of its snapshot.
func (e *Engine) apply(ctx context.Context, op models.PendingOperation) (*idRemap, error) {
	switch op.EntityType {
	case models.EntityTypeRecipe:
		return e.applyRecipe(ctx, op)
	case models.EntityTypeBrewSession:
		return e.applyBrewSession(ctx, op)
	}
	return nil, fmt.Errorf("unknown entity type %q", op.EntityType)
}

func (e *Engine) applyRecipe(ctx context.Context, op models.PendingOperation) (*idRemap, error) {
	switch op.Type {
	case models.OperationCreate:
		var r models.Recipe
		if err := json.Unmarshal(op.Data, &r); err != nil {
			return nil, fmt.Errorf("failed to decode recipe payload: %w", err)
		}
		created, err := e.remote.CreateRecipe(ctx, r)
		if err != nil {
			return nil, err
		}
		if err := e.commitCreate(ctx, op, created.ID); err != nil {
			return nil, err
		}
		return &idRemap{old: op.EntityID, replacement: created.ID}, nil

	case models.OperationUpdate:
		var u models.RecipeUpdate
		if len(op.Data) > 0 {
			if err := json.Unmarshal(op.Data, &u); err != nil {
				return nil, fmt.Errorf("failed to decode recipe update payload: %w", err)
			}
		}
		if _, err := e.remote.UpdateRecipe(ctx, op.EntityID.String(), u); err != nil {
			return nil, err
		}
		return nil, commitSynced(ctx, e, e.recipes, op)

	case models.OperationDelete:
		if err := e.remote.DeleteRecipe(ctx, op.EntityID.String()); err != nil {
			return nil, err
		}
		return nil, commitDeleted(ctx, e, e.recipes, op)
	}
	return nil, fmt.Errorf("unknown operation type %q", op.Type)
}

func (e *Engine) applyBrewSession(ctx context.Context, op models.PendingOperation) (*idRemap, error) {
	switch op.Type {
	case models.OperationCreate:
		var s models.BrewSession
		if err := json.Unmarshal(op.Data, &s); err != nil {
			return nil, fmt.Errorf("failed to decode brew session payload: %w", err)
		}
		created, err := e.remote.CreateBrewSession(ctx, s)
		if err != nil {
			return nil, err
		}
		if err := e.commitCreate(ctx, op, created.ID); err != nil {
			return nil, err
		}
		return &idRemap{old: op.EntityID, replacement: created.ID}, nil

	case models.OperationUpdate:
		var u models.BrewSessionUpdate
		if len(op.Data) > 0 {
			if err := json.Unmarshal(op.Data, &u); err != nil {
				return nil, fmt.Errorf("failed to decode brew session update payload: %w", err)
			}
		}
		if _, err := e.remote.UpdateBrewSession(ctx, op.EntityID.String(), u); err != nil {
			return nil, err
		}
		return nil, commitSynced(ctx, e, e.sessions, op)

	case models.OperationDelete:
		if err := e.remote.DeleteBrewSession(ctx, op.EntityID.String()); err != nil {
			return nil, err
		}
		return nil, commitDeleted(ctx, e, e.sessions, op)
	}
	return nil, fmt.Errorf("unknown operation type %q", op.Type)
}

// commitCreate removes the acknowledged create from the queue and runs the
// identifier remap as one step under the store lock.
func (e *Engine) commitCreate(ctx context.Context, op models.PendingOperation, permanent models.EntityID) error {
	e.storeMu.Lock()
	defer e.storeMu.Unlock()

	if err := e.queue.Remove(ctx, op.ID); err != nil {
		return err
	}
	return e.remap.Remap(ctx, op.EntityType, op.EntityID, permanent)
}

// commitSynced marks the envelope synced and retires the operation.
func commitSynced[T models.Entity[T]](ctx context.Context, e *Engine, col *entities.Collection[T], op models.PendingOperation) error {
	e.storeMu.Lock()
	defer e.storeMu.Unlock()

	envs, err := col.Load(ctx)
	if err != nil {
		return err
	}
	if i := entities.Find(envs, op.EntityID); i >= 0 {
		envs[i].MarkSynced()
		if err := col.Save(ctx, envs); err != nil {
			return err
		}
	}
	return e.queue.Remove(ctx, op.ID)
}

// commitDeleted garbage-collects the tombstone and retires the operation.
func commitDeleted[T models.Entity[T]](ctx context.Context, e *Engine, col *entities.Collection[T], op models.PendingOperation) error {
	e.storeMu.Lock()
	defer e.storeMu.Unlock()

	envs, err := col.Load(ctx)
	if err != nil {
		return err
	}
	if i := entities.Find(envs, op.EntityID); i >= 0 {
		envs = append(envs[:i], envs[i+1:]...)
		if err := col.Save(ctx, envs); err != nil {
			return err
		}
	}
	return e.queue.Remove(ctx, op.ID)
}
