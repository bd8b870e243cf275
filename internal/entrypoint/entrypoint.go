package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/covers"
	"github.com/mrlokans/bookfinder/internal/details"
	http_controllers "github.com/mrlokans/bookfinder/internal/http"
	"github.com/mrlokans/bookfinder/internal/scheduler"
	"github.com/mrlokans/bookfinder/internal/search"
	"github.com/mrlokans/bookfinder/internal/session"
	"github.com/mrlokans/bookfinder/internal/tasks"
	"github.com/mrlokans/bookfinder/internal/views"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM.
func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logger.Info("Shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the server goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server exiting")
	return nil
}

// Run wires the web application and serves it.
func Run(cfg *config.Config, logger *zap.Logger, version string) error {
	logger.Info("Starting Book Finder", zap.String("version", version))

	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("Error closing database", zap.Error(err))
		}
	}()

	urls := app.Client.URLs()
	// Pages get cover URLs through the local cache route
	app.Details = details.NewService(app.Client, app.Settings, urls, covers.URLFunc(app.Covers, urls), logger)

	sqlDB, err := app.DB.DB.DB()
	if err != nil {
		return fmt.Errorf("get SQL DB for sessions: %w", err)
	}
	sessions, err := session.NewManager(sqlDB, cfg.Session)
	if err != nil {
		return fmt.Errorf("initialize session manager: %w", err)
	}

	secret := cfg.Session.Secret
	if secret == "" {
		secret, err = session.GenerateSecret()
		if err != nil {
			return fmt.Errorf("generate CSRF secret: %w", err)
		}
		logger.Info("Generated session secret (set SESSION_SECRET to persist)")
	}

	var (
		taskClient    *tasks.Client
		taskCtxCancel context.CancelFunc
	)
	if cfg.Tasks.Enabled && app.Covers != nil {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks), logger.Named("tasks"))
		if err != nil {
			return fmt.Errorf("initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Warn("Error closing task client", zap.Error(err))
			}
		}()

		taskClient.Register(
			tasks.NewWarmCoverQueue(app.Covers, logger),
			tasks.NewPruneCoversQueue(app.Covers, logger),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		app.Favorites.SetCoverWarmer(tasks.NewCoverWarmer(taskClient, logger))
	}

	var pruner *scheduler.CoverPruneScheduler
	if app.Covers != nil {
		pruner = scheduler.NewCoverPruneScheduler(cfg.Covers.PruneSchedule, pruneJob(app, taskClient), logger.Named("scheduler"))
		if err := pruner.Start(context.Background()); err != nil {
			logger.Warn("Cover prune scheduler not started", zap.Error(err))
		}
	}

	registry := views.NewRegistry(cfg.Search.SessionViews, cfg.Search.SessionViewTTL, func() *search.Orchestrator {
		return app.NewOrchestrator(sessions.SearchSnapshots())
	})

	routerCfg := http_controllers.RouterConfig{
		Database:      app.DB,
		Favorites:     app.Favorites,
		Settings:      app.Settings,
		Details:       app.Details,
		Logger:        logger.Named("http"),
		Views:         registry,
		Sessions:      sessions,
		Searcher:      app.Client,
		Works:         app.Client,
		URLs:          urls,
		PageSize:      cfg.Search.PageSize,
		CoverCache:    app.Covers,
		Analytics:     app.Analytics,
		CSRFSecret:    session.DecodeSecret(secret),
		SecureCookies: cfg.Session.SecureCookies,
		Version:       version,
	}

	if gin.Mode() == gin.DebugMode && cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if pruner != nil {
			pruner.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	return Serve(router, cfg, logger, onShutdown)
}

// pruneJob removes old cover files. With a task queue the work is enqueued
// so it runs on the workers and gets retried.
func pruneJob(app *App, taskClient *tasks.Client) scheduler.Job {
	maxAge := app.Config.Covers.MaxAge
	return func(context.Context) error {
		if taskClient != nil {
			_, err := taskClient.Add(tasks.PruneCoversTask{MaxAge: maxAge}).Save()
			return err
		}
		removed, err := app.Covers.Prune(maxAge)
		if err != nil {
			return err
		}
		app.Logger.Info("Pruned cover cache", zap.Int("removed", removed))
		return nil
	}
}
