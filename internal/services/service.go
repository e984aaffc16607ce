package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/brewlog/internal/auth"
	"github.com/dmitrijs2005/brewlog/internal/common"
	"github.com/dmitrijs2005/brewlog/internal/engine"
	"github.com/dmitrijs2005/brewlog/internal/logging"
	"github.com/dmitrijs2005/brewlog/internal/models"
	"github.com/dmitrijs2005/brewlog/internal/remote"
	"github.com/dmitrijs2005/brewlog/internal/repositories/entities"
	"github.com/dmitrijs2005/brewlog/internal/repositories/metadata"
	"github.com/dmitrijs2005/brewlog/internal/repositories/queue"
	"github.com/dmitrijs2005/brewlog/internal/storage"
)

// Service is the engine surface consumed by UI-adjacent code. It wires the
// collections, queue, and sync engine over one durable store and one shared
// store lock.
type Service struct {
	Recipes  *EntityService[models.Recipe, models.RecipeUpdate]
	Sessions *EntityService[models.BrewSession, models.BrewSessionUpdate]

	queue   *queue.Repository
	meta    *metadata.Repository
	engine  *engine.Engine
	storeMu *sync.Mutex
	log     logging.Logger

	sf singleflight.Group
}

func New(store storage.Store, remoteClient remote.Client, authProvider auth.Provider, log logging.Logger) *Service {
	storeMu := &sync.Mutex{}

	recipes := entities.NewCollection[models.Recipe](store, common.StorageKeyRecipes, log)
	sessions := entities.NewCollection[models.BrewSession](store, common.StorageKeyBrewSessions, log)
	q := queue.NewRepository(store, log)
	meta := metadata.NewRepository(store, log)

	return &Service{
		Recipes: newEntityService[models.Recipe, models.RecipeUpdate](
			models.EntityTypeRecipe, recipes, q, authProvider, storeMu, log),
		Sessions: newEntityService[models.BrewSession, models.BrewSessionUpdate](
			models.EntityTypeBrewSession, sessions, q, authProvider, storeMu, log),
		queue:   q,
		meta:    meta,
		engine:  engine.New(recipes, sessions, q, meta, remoteClient, storeMu, log),
		storeMu: storeMu,
		log:     log.With("module", "service"),
	}
}

func (s *Service) GetRecipes(ctx context.Context, userID string) []models.Recipe {
	return s.Recipes.GetAll(ctx, userID)
}

func (s *Service) GetBrewSessions(ctx context.Context, userID string) []models.BrewSession {
	return s.Sessions.GetAll(ctx, userID)
}

// PendingOperationCount reports how many mutations await transmission.
func (s *Service) PendingOperationCount(ctx context.Context) (int, error) {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	return s.queue.Count(ctx)
}

// ClearSyncQueue discards every queued intent. Envelopes keep their pending
// status: local-only changes left behind will never reach the server unless
// re-edited. Destructive, for support/reset flows only.
func (s *Service) ClearSyncQueue(ctx context.Context) error {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	return s.queue.Clear(ctx)
}

// LastSync reports when the last sync pass finished, zero when never.
func (s *Service) LastSync(ctx context.Context) (time.Time, error) {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	m, err := s.meta.Load(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return m.LastSync, nil
}

// Sync drains the pending operation queue. Concurrent callers share the
// in-flight pass's result instead of being rejected; the engine's own
// re-entrancy guard stays underneath as the hard stop.
func (s *Service) Sync(ctx context.Context) (models.SyncResult, error) {
	v, err, _ := s.sf.Do("sync", func() (any, error) {
		return s.engine.SyncPendingOperations(ctx)
	})
	if err != nil {
		return models.SyncResult{}, err
	}
	return v.(models.SyncResult), nil
}
