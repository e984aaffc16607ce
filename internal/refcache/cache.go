// Package refcache is a version-stamped read-through cache for immutable
// reference catalogs (ingredients, style guides). It shares the durable
// store with the mutation cache but has no queue, no conflicts, and no
// identifier remapping.
package refcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/brewlog/internal/common"
	"github.com/dmitrijs2005/brewlog/internal/logging"
	"github.com/dmitrijs2005/brewlog/internal/remote"
	"github.com/dmitrijs2005/brewlog/internal/storage"
)

type entry struct {
	Name      string          `json:"name"`
	Version   string          `json:"version"`
	FetchedAt time.Time       `json:"fetched_at"`
	Items     json.RawMessage `json:"items"`
}

type Cache struct {
	store  storage.Store
	remote remote.Client
	log    logging.Logger
	clock  func() time.Time
}

func New(store storage.Store, remoteClient remote.Client, log logging.Logger) *Cache {
	return &Cache{
		store:  store,
		remote: remoteClient,
		log:    log.With("module", "refcache"),
		clock:  time.Now,
	}
}

func (c *Cache) load(ctx context.Context, name string) *entry {
	b, err := c.store.Get(ctx, common.RefCatalogKey(name))
	if err != nil || len(b) == 0 {
		return nil
	}
	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil
	}
	return &e
}

// Get returns the catalog's items. A cached copy at the wanted version is
// served without a network call; version "" accepts whatever is cached.
// When the fetch fails, a stale cached copy is better than nothing and is
// returned instead of the error.
func (c *Cache) Get(ctx context.Context, name, version string) (json.RawMessage, error) {
	cached := c.load(ctx, name)
	if cached != nil && (version == "" || cached.Version == version) {
		return cached.Items, nil
	}

	cat, err := c.remote.FetchCatalog(ctx, name)
	if err != nil {
		if cached != nil {
			c.log.Warn(ctx, "serving stale catalog", "catalog", name, "error", err)
			return cached.Items, nil
		}
		return nil, err
	}

	b, err := json.Marshal(entry{
		Name:      cat.Name,
		Version:   cat.Version,
		FetchedAt: c.clock(),
		Items:     cat.Items,
	})
	if err == nil {
		if err := c.store.Set(ctx, common.RefCatalogKey(name), b); err != nil {
			c.log.Warn(ctx, "failed to cache catalog", "catalog", name, "error", err)
		}
	}
	return cat.Items, nil
}
