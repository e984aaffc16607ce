package refcache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/brewlog/internal/logging"
	"github.com/dmitrijs2005/brewlog/internal/models"
	"github.com/dmitrijs2005/brewlog/internal/remote"
	"github.com/dmitrijs2005/brewlog/internal/storage"
)

type catalogRemote struct {
	catalog *remote.Catalog
	err     error
	fetches int
}

func (c *catalogRemote) FetchCatalog(ctx context.Context, name string) (*remote.Catalog, error) {
	c.fetches++
	if c.err != nil {
		return nil, c.err
	}
	return c.catalog, nil
}

func (c *catalogRemote) CreateRecipe(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	return models.Recipe{}, errors.New("not implemented")
}

func (c *catalogRemote) UpdateRecipe(ctx context.Context, id string, upd models.RecipeUpdate) (models.Recipe, error) {
	return models.Recipe{}, errors.New("not implemented")
}

func (c *catalogRemote) DeleteRecipe(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

func (c *catalogRemote) CreateBrewSession(ctx context.Context, s models.BrewSession) (models.BrewSession, error) {
	return models.BrewSession{}, errors.New("not implemented")
}

func (c *catalogRemote) UpdateBrewSession(ctx context.Context, id string, upd models.BrewSessionUpdate) (models.BrewSession, error) {
	return models.BrewSession{}, errors.New("not implemented")
}

func (c *catalogRemote) DeleteBrewSession(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

func (c *catalogRemote) Ping(ctx context.Context) error { return nil }
func (c *catalogRemote) Close() error                   { return nil }

func TestGet_FetchesAndCaches(t *testing.T) {
	rc := &catalogRemote{catalog: &remote.Catalog{
		Name:    "beer_styles",
		Version: "2026.1",
		Items:   json.RawMessage(`["American IPA"]`),
	}}
	c := New(storage.NewMemStore(), rc, logging.Discard())
	ctx := context.Background()

	items, err := c.Get(ctx, "beer_styles", "2026.1")
	require.NoError(t, err)
	require.JSONEq(t, `["American IPA"]`, string(items))
	require.Equal(t, 1, rc.fetches)

	// second read at the same version is served from the cache
	items, err = c.Get(ctx, "beer_styles", "2026.1")
	require.NoError(t, err)
	require.JSONEq(t, `["American IPA"]`, string(items))
	require.Equal(t, 1, rc.fetches)
}

func TestGet_AnyVersionAcceptsCached(t *testing.T) {
	rc := &catalogRemote{catalog: &remote.Catalog{Name: "hops", Version: "v1", Items: json.RawMessage(`["Citra"]`)}}
	c := New(storage.NewMemStore(), rc, logging.Discard())
	ctx := context.Background()

	_, err := c.Get(ctx, "hops", "v1")
	require.NoError(t, err)

	items, err := c.Get(ctx, "hops", "")
	require.NoError(t, err)
	require.JSONEq(t, `["Citra"]`, string(items))
	require.Equal(t, 1, rc.fetches)
}

func TestGet_VersionMismatchRefetches(t *testing.T) {
	rc := &catalogRemote{catalog: &remote.Catalog{Name: "hops", Version: "v2", Items: json.RawMessage(`["Citra","Mosaic"]`)}}
	c := New(storage.NewMemStore(), rc, logging.Discard())
	ctx := context.Background()

	_, err := c.Get(ctx, "hops", "v2")
	require.NoError(t, err)

	// wanting a different version goes back to the server
	_, err = c.Get(ctx, "hops", "v3")
	require.NoError(t, err)
	require.Equal(t, 2, rc.fetches)
}

func TestGet_ServesStaleOnFetchFailure(t *testing.T) {
	store := storage.NewMemStore()
	rc := &catalogRemote{catalog: &remote.Catalog{Name: "hops", Version: "v1", Items: json.RawMessage(`["Citra"]`)}}
	c := New(store, rc, logging.Discard())
	ctx := context.Background()

	_, err := c.Get(ctx, "hops", "v1")
	require.NoError(t, err)

	rc.err = errors.New("offline")
	items, err := c.Get(ctx, "hops", "v9")
	require.NoError(t, err)
	require.JSONEq(t, `["Citra"]`, string(items))
}

func TestGet_FailureWithEmptyCacheIsAnError(t *testing.T) {
	rc := &catalogRemote{err: errors.New("offline")}
	c := New(storage.NewMemStore(), rc, logging.Discard())

	_, err := c.Get(context.Background(), "hops", "v1")
	require.Error(t, err)
}
