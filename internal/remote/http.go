package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/brewlog/internal/logging"
	"github.com/dmitrijs2005/brewlog/internal/models"
)

// TokenFunc supplies the bearer token for a request. Returning an empty
// token sends the request unauthenticated (ping, catalogs).
type TokenFunc func(ctx context.Context) (string, error)

// HTTPClient implements Client against the backend's JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   TokenFunc
	log     logging.Logger
}

func NewHTTPClient(baseURL string, token TokenFunc, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		token:   token,
		log:     log.With("module", "remote"),
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s failed: %s: %s", method, path, resp.Status, strings.TrimSpace(string(b)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func (c *HTTPClient) CreateRecipe(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	var created models.Recipe
	if err := c.do(ctx, http.MethodPost, "/api/v1/recipes", r, &created); err != nil {
		return models.Recipe{}, err
	}
	return created, nil
}

func (c *HTTPClient) UpdateRecipe(ctx context.Context, id string, upd models.RecipeUpdate) (models.Recipe, error) {
	var updated models.Recipe
	if err := c.do(ctx, http.MethodPatch, "/api/v1/recipes/"+id, upd, &updated); err != nil {
		return models.Recipe{}, err
	}
	return updated, nil
}

func (c *HTTPClient) DeleteRecipe(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/recipes/"+id, nil, nil)
}

func (c *HTTPClient) CreateBrewSession(ctx context.Context, s models.BrewSession) (models.BrewSession, error) {
	var created models.BrewSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/brew-sessions", s, &created); err != nil {
		return models.BrewSession{}, err
	}
	return created, nil
}

func (c *HTTPClient) UpdateBrewSession(ctx context.Context, id string, upd models.BrewSessionUpdate) (models.BrewSession, error) {
	var updated models.BrewSession
	if err := c.do(ctx, http.MethodPatch, "/api/v1/brew-sessions/"+id, upd, &updated); err != nil {
		return models.BrewSession{}, err
	}
	return updated, nil
}

func (c *HTTPClient) DeleteBrewSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/brew-sessions/"+id, nil, nil)
}

func (c *HTTPClient) FetchCatalog(ctx context.Context, name string) (*Catalog, error) {
	var cat Catalog
	if err := c.do(ctx, http.MethodGet, "/api/v1/catalogs/"+name, nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/v1/ping", nil, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
