package engine

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/brewlog/internal/logging"
	"github.com/dmitrijs2005/brewlog/internal/models"
	"github.com/dmitrijs2005/brewlog/internal/repositories/entities"
	"github.com/dmitrijs2005/brewlog/internal/repositories/queue"
)

// Remapper rewrites a temporary identifier to its server-issued replacement
// everywhere it can appear: the owning envelope, foreign-key fields in
// sibling collections, and not-yet-processed queue entries (targets and
// payloads).
type Remapper struct {
	recipes  *entities.Collection[models.Recipe]
	sessions *entities.Collection[models.BrewSession]
	queue    *queue.Repository
	log      logging.Logger
}

func NewRemapper(recipes *entities.Collection[models.Recipe], sessions *entities.Collection[models.BrewSession], q *queue.Repository, log logging.Logger) *Remapper {
	return &Remapper{recipes: recipes, sessions: sessions, queue: q, log: log.With("module", "remapper")}
}

// Remap performs the three-way rewrite. The caller must hold the store lock
// for the whole call: the rewrite touches several stored collections and
// must behave as a single logical step.
func (r *Remapper) Remap(ctx context.Context, kind models.EntityType, old, replacement models.EntityID) error {
	switch kind {
	case models.EntityTypeRecipe:
		if err := adoptPermanentID(ctx, r.recipes, old, replacement); err != nil {
			return err
		}
	case models.EntityTypeBrewSession:
		if err := adoptPermanentID(ctx, r.sessions, old, replacement); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown entity type %q", kind)
	}

	// Sibling foreign keys must be rewritten before those siblings sync, or
	// the server would receive an identifier it never issued.
	if err := rewriteCollectionRefs(ctx, r.recipes, old, replacement); err != nil {
		return err
	}
	if err := rewriteCollectionRefs(ctx, r.sessions, old, replacement); err != nil {
		return err
	}

	return r.queue.Transform(ctx, func(op models.PendingOperation) (models.PendingOperation, bool) {
		rewritten, changed, err := op.RewriteRefs(old, replacement)
		if err != nil {
			// The payload cannot be parsed, so it cannot reference the old
			// id in a form the server would understand either. Keep going;
			// failing the remap after the remote create succeeded would be
			// worse.
			r.log.Warn(ctx, "skipping unrewritable operation payload", "operation", op.ID, "error", err)
			return op, false
		}
		return rewritten, changed
	})
}

// adoptPermanentID rewrites the owning envelope: new id, temp marker
// cleared, payload id updated, status synced.
func adoptPermanentID[T models.Entity[T]](ctx context.Context, col *entities.Collection[T], old, replacement models.EntityID) error {
	envs, err := col.Load(ctx)
	if err != nil {
		return err
	}
	i := entities.Find(envs, old)
	if i < 0 {
		return nil
	}
	envs[i].ID = replacement
	envs[i].TempID = models.EntityID{}
	envs[i].Data = envs[i].Data.WithID(replacement)
	envs[i].MarkSynced()
	return col.Save(ctx, envs)
}

// rewriteCollectionRefs rewrites foreign-key fields in every envelope of a
// collection. Envelope sync status is untouched: an affected sibling either
// already has its own queued operation (whose payload is rewritten
// separately) or is synced and the server will learn the new reference from
// that queued operation, not from a status flip here.
func rewriteCollectionRefs[T models.Entity[T]](ctx context.Context, col *entities.Collection[T], old, replacement models.EntityID) error {
	envs, err := col.Load(ctx)
	if err != nil {
		return err
	}
	changed := false
	for i := range envs {
		if data, ok := envs[i].Data.RewriteRefs(old, replacement); ok {
			envs[i].Data = data
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return col.Save(ctx, envs)
}
