// Package cli is the interactive front end over the offline engine. All
// commands operate on the local cache; only "sync" and the online watcher
// touch the network.
package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrijs2005/brewlog/internal/auth"
	"github.com/dmitrijs2005/brewlog/internal/config"
	"github.com/dmitrijs2005/brewlog/internal/logging"
	"github.com/dmitrijs2005/brewlog/internal/refcache"
	"github.com/dmitrijs2005/brewlog/internal/remote"
	"github.com/dmitrijs2005/brewlog/internal/services"
	"github.com/dmitrijs2005/brewlog/internal/storage"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	service  *services.Service
	catalogs *refcache.Cache
	provider *auth.TokenProvider
	remote   remote.Client
	Mode     Mode
	reader   *bufio.Reader
}

func NewApp(cfg *config.Config) (*App, error) {

	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	store, err := storage.OpenSQLite(ctx, cfg.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	provider := auth.NewTokenProvider()
	apiClient := remote.NewHTTPClient(cfg.ServerEndpointAddr, provider.Token, logger)

	return &App{
		config:   cfg,
		service:  services.New(store, apiClient, provider, logger),
		catalogs: refcache.New(store, apiClient, logger),
		provider: provider,
		remote:   apiClient,
		Mode:     ModeOffline,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	if a.Mode == mode {
		return
	}
	a.Mode = mode
	log.Printf("Switched to %s mode\n", mode)

	// Connectivity regained: drain whatever queued up while offline.
	if mode == ModeOnline {
		a.sync(ctx)
	}
}

func (a *App) isLoggedIn() bool {
	_, err := a.provider.CurrentUserID(context.Background())
	return err == nil
}

func (a *App) userID(ctx context.Context) (string, error) {
	return a.provider.CurrentUserID(ctx)
}

// StartOnlineStatusWatcher probes the server on an interval and flips the
// mode accordingly. Regaining connectivity triggers a sync pass.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.remote.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.remote.Close()
	a.Root(ctx)
}
