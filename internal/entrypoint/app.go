package entrypoint

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/analytics"
	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/covers"
	"github.com/mrlokans/bookfinder/internal/database"
	"github.com/mrlokans/bookfinder/internal/details"
	"github.com/mrlokans/bookfinder/internal/favorites"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
	"github.com/mrlokans/bookfinder/internal/search"
	"github.com/mrlokans/bookfinder/internal/settingsstore"
	"github.com/mrlokans/bookfinder/internal/storage"
)

// App holds the services shared by the server, the terminal UI and the
// one-shot commands.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB        *database.Database
	Client    *openlibrary.Client
	Favorites *favorites.Store
	Settings  *settingsstore.SettingsStore
	Details   *details.Service
	Analytics *analytics.PlausibleStore

	// Covers is nil when the cache directory could not be created.
	Covers *covers.Cache
}

// NewApp opens the database and wires the stores and the OpenLibrary client.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewDatabase(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	client := openlibrary.NewClientFromConfig(cfg.OpenLibrary, logger.Named("openlibrary"))
	kv := storage.NewSettingsKV(db)
	settings := settingsstore.New(kv, logger)

	app := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Client:    client,
		Favorites: favorites.NewStore(kv, logger),
		Settings:  settings,
		Details:   details.NewService(client, settings, client.URLs(), nil, logger),
		Analytics: analytics.NewPlausibleStore(kv, cfg.Plausible),
	}

	cacheDir := CoversDir(cfg)
	cache, err := covers.NewCache(cacheDir, client.URLs(), cfg.OpenLibrary.UserAgent, logger.Named("covers"))
	if err != nil {
		logger.Warn("Cover cache disabled", zap.String("dir", cacheDir), zap.Error(err))
	} else {
		app.Covers = cache
	}

	return app, nil
}

// CoversDir returns the configured cover cache directory, defaulting to a
// covers directory next to the database.
func CoversDir(cfg *config.Config) string {
	if cfg.Covers.Dir != "" {
		return cfg.Covers.Dir
	}
	return filepath.Join(filepath.Dir(cfg.Database.Path), "covers")
}

// Searcher returns the searcher handed to orchestrators. With failure
// reporting off, transport errors look like empty pages.
func (a *App) Searcher() openlibrary.Searcher {
	if a.Config.Search.ReportFailures {
		return a.Client
	}
	return openlibrary.Lossy(a.Client)
}

// NewOrchestrator builds a search orchestrator saving its snapshots to
// snapshots.
func (a *App) NewOrchestrator(snapshots search.SnapshotStore) *search.Orchestrator {
	return search.NewOrchestrator(search.Options{
		Searcher:  a.Searcher(),
		Snapshots: snapshots,
		PageSize:  a.Config.Search.PageSize,
		Logger:    a.Logger.Named("search"),
	})
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}
