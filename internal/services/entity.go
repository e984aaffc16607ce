// Package services exposes the UI-facing surface: per-entity CRUD that
// mutates the cache and enqueues operations, and the sync facade.
package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/brewlog/internal/auth"
	"github.com/dmitrijs2005/brewlog/internal/common"
	"github.com/dmitrijs2005/brewlog/internal/logging"
	"github.com/dmitrijs2005/brewlog/internal/models"
	"github.com/dmitrijs2005/brewlog/internal/repositories/entities"
	"github.com/dmitrijs2005/brewlog/internal/repositories/queue"
)

// EntityService implements the offline-first CRUD surface for one entity
// kind. Every mutation lands in the cache and the operation queue before
// returning; nothing here talks to the network.
//
// Read methods never fail outward: a storage hiccup degrades to an empty
// list or nil so the UI always has something to render. Write methods
// return errors the caller can act on.
type EntityService[T models.Entity[T], U models.Update[T]] struct {
	kind  models.EntityType
	col   *entities.Collection[T]
	queue *queue.Repository
	auth  auth.Provider
	log   logging.Logger
	mu    *sync.Mutex
	clock func() time.Time
}

func newEntityService[T models.Entity[T], U models.Update[T]](
	kind models.EntityType,
	col *entities.Collection[T],
	q *queue.Repository,
	authProvider auth.Provider,
	mu *sync.Mutex,
	log logging.Logger,
) *EntityService[T, U] {
	return &EntityService[T, U]{
		kind:  kind,
		col:   col,
		queue: q,
		auth:  authProvider,
		log:   log.With("entity_type", string(kind)),
		mu:    mu,
		clock: time.Now,
	}
}

func modifiedAt[T models.Entity[T]](e models.Envelope[T]) time.Time {
	if t := e.Data.ModifiedAt(); !t.IsZero() {
		return t
	}
	return e.LastModified
}

// GetAll lists the user's entities, newest first. Tombstones and other
// users' rows are filtered out.
func (s *EntityService[T, U]) GetAll(ctx context.Context, userID string) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	envs, err := s.col.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "degrading unreadable collection to empty list", "error", err)
		return []T{}
	}

	visible := make([]models.Envelope[T], 0, len(envs))
	for _, e := range envs {
		if e.IsDeleted || e.Data.Owner() != userID {
			continue
		}
		visible = append(visible, e)
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return modifiedAt(visible[i]).After(modifiedAt(visible[j]))
	})

	out := make([]T, len(visible))
	for i, e := range visible {
		out[i] = e.Data
	}
	return out
}

// GetByID returns the entity, matching either its current id or its
// not-yet-remapped temp id, or nil when absent, deleted, foreign, or
// unreadable.
func (s *EntityService[T, U]) GetByID(ctx context.Context, id models.EntityID, userID string) *T {
	s.mu.Lock()
	defer s.mu.Unlock()

	envs, err := s.col.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "degrading unreadable collection to nil", "error", err)
		return nil
	}

	i := entities.Find(envs, id)
	if i < 0 || envs[i].IsDeleted || envs[i].Data.Owner() != userID {
		return nil
	}
	data := envs[i].Data
	return &data
}

// Create wraps the payload in a pending envelope under a fresh temporary
// identifier and enqueues the create. The returned entity carries the temp
// id so the UI can reference it immediately.
func (s *EntityService[T, U]) Create(ctx context.Context, data T) (T, error) {
	var zero T

	userID := data.Owner()
	if userID == "" {
		resolved, err := s.auth.CurrentUserID(ctx)
		if err != nil {
			return zero, err
		}
		userID = resolved
	} else if err := s.auth.ValidateOwnership(ctx, userID); err != nil {
		return zero, err
	}

	now := s.clock()
	data = data.StampNew(models.NewTempID(), userID, now)

	s.mu.Lock()
	defer s.mu.Unlock()

	envs, err := s.col.Load(ctx)
	if err != nil {
		return zero, err
	}
	envs = append(envs, models.NewEnvelope(data, now))
	if err := s.col.Save(ctx, envs); err != nil {
		return zero, err
	}

	op, err := models.NewOperation(models.OperationCreate, s.kind, data.EntityID(), userID, data, now)
	if err != nil {
		return zero, err
	}
	if err := s.queue.Enqueue(ctx, op); err != nil {
		return zero, err
	}

	s.log.Debug(ctx, "created locally", "id", data.EntityID().String())
	return data, nil
}

// Update merges the partial update into the cached entity and enqueues an
// update operation. Each call appends its own operation; pending updates
// for the same entity are not coalesced.
func (s *EntityService[T, U]) Update(ctx context.Context, id models.EntityID, upd U) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	envs, err := s.col.Load(ctx)
	if err != nil {
		return zero, err
	}
	i := entities.Find(envs, id)
	if i < 0 || envs[i].IsDeleted {
		return zero, common.ErrNotFound
	}

	now := s.clock()
	data := upd.ApplyTo(envs[i].Data).Touch(now)
	envs[i].Data = data
	envs[i].MarkPending(now)
	if err := s.col.Save(ctx, envs); err != nil {
		return zero, err
	}

	op, err := models.NewOperation(models.OperationUpdate, s.kind, envs[i].ID, data.Owner(), upd, now)
	if err != nil {
		return zero, err
	}
	if err := s.queue.Enqueue(ctx, op); err != nil {
		return zero, err
	}

	return data, nil
}

// Delete tombstones the entity and enqueues a delete. The row disappears
// from reads immediately but stays in storage until the server acknowledges
// the delete. An empty userID resolves to the current session's user; the
// entity must belong to that user either way.
//
// A never-acknowledged entity (still carrying its temp id) is special: the
// server has never heard of it, so the envelope and all of its queued
// operations are dropped locally and no delete is enqueued.
func (s *EntityService[T, U]) Delete(ctx context.Context, id models.EntityID, userID string) error {
	if userID == "" {
		resolved, err := s.auth.CurrentUserID(ctx)
		if err != nil {
			return err
		}
		userID = resolved
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	envs, err := s.col.Load(ctx)
	if err != nil {
		return err
	}
	i := entities.Find(envs, id)
	if i < 0 || envs[i].IsDeleted || envs[i].Data.Owner() != userID {
		return common.ErrNotFound
	}

	if !envs[i].TempID.IsZero() {
		current, temp := envs[i].ID, envs[i].TempID
		envs = append(envs[:i], envs[i+1:]...)
		if err := s.col.Save(ctx, envs); err != nil {
			return err
		}
		removed, err := s.queue.RemoveWhere(ctx, func(op models.PendingOperation) bool {
			return op.EntityID == current || op.EntityID == temp
		})
		if err != nil {
			return err
		}
		s.log.Debug(ctx, "dropped never-synced entity locally",
			"id", current.String(), "operations_removed", removed)
		return nil
	}

	now := s.clock()
	envs[i].IsDeleted = true
	envs[i].DeletedAt = &now
	envs[i].MarkPending(now)
	if err := s.col.Save(ctx, envs); err != nil {
		return err
	}

	op, err := models.NewOperation(models.OperationDelete, s.kind, envs[i].ID, envs[i].Data.Owner(), nil, now)
	if err != nil {
		return err
	}
	return s.queue.Enqueue(ctx, op)
}
