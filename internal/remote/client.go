// Package remote defines the remote API collaborator the sync engine drains
// the queue against, and its HTTP/JSON implementation.
package remote

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/brewlog/internal/models"
)

// Catalog is a versioned, immutable reference data set (ingredients, style
// guides).
type Catalog struct {
	Name    string          `json:"name"`
	Version string          `json:"version"`
	Items   json.RawMessage `json:"items"`
}

// Client is the remote service surface. Create calls return the entity with
// its server-issued permanent identifier; the server never echoes a
// temporary id back.
type Client interface {
	CreateRecipe(ctx context.Context, r models.Recipe) (models.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, upd models.RecipeUpdate) (models.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error

	CreateBrewSession(ctx context.Context, s models.BrewSession) (models.BrewSession, error)
	UpdateBrewSession(ctx context.Context, id string, upd models.BrewSessionUpdate) (models.BrewSession, error)
	DeleteBrewSession(ctx context.Context, id string) error

	FetchCatalog(ctx context.Context, name string) (*Catalog, error)

	Ping(ctx context.Context) error
	Close() error
}
