package cmd

import (
	"context"
	"fmt"
	"sync"

	"binserve/core/config"
	"binserve/core/database"
	"binserve/core/fscache"
	"binserve/core/loader"
	"binserve/core/logger"
	"binserve/core/middleware/auth"
	"binserve/core/middleware/rayid"
	"binserve/core/resolver"
	"binserve/core/server"
	"binserve/feature/inspect"
	"binserve/feature/integrity"
	"binserve/feature/misses"
	"binserve/feature/site"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "binserve/docs/swagger"
)

// @title binserve admin API
// @version 1.0
// @description Admin API of binserve, a static file server for site generator build output.
// @BasePath /_binserve
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// loadConfig loads and validates the configuration, then builds the logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logg, nil
}

// newResolver builds the resolver, reading through a metadata cache when one
// is enabled. The returned cache is nil otherwise.
func newResolver(cfg *config.Config) (*resolver.Resolver, *fscache.Cache, error) {
	var cache *fscache.Cache
	var fsys resolver.FS
	if cfg.Cache.Enabled {
		cache = fscache.New(nil, cfg.Cache)
		fsys = cache
	}

	r, err := resolver.New(cfg.Site, fsys)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resolver: %w", err)
	}
	return r, cache, nil
}

// connectMisses opens the miss database when recording is enabled. Recording
// is optional: connection failures are logged and recording stays off.
func connectMisses(ctx context.Context, cfg database.Config, logg *zap.Logger) *misses.Store {
	if !cfg.Enabled {
		return nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
		return nil
	}
	store := misses.NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		logg.Warn("Miss recording disabled", zap.Error(err))
		return nil
	}
	logg.Info("Connected to miss database", zap.String("driver", cfg.Driver))
	return store
}

// App is a configured server with its background tasks.
type App struct {
	Fiber *fiber.App

	cancel context.CancelFunc
	wg     sync.WaitGroup
	db     *gorm.DB
}

// buildApp wires every component into a Fiber app. Background tasks (the
// filesystem watcher and the miss collector) run until Close.
func buildApp(ctx context.Context, cfg *config.Config, logg *zap.Logger) (*App, error) {
	r, cache, err := newResolver(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	a := &App{cancel: cancel}

	if cache != nil && cfg.Cache.Watch {
		w, err := fscache.NewWatcher(r.Root(), cache, logg)
		if err != nil {
			logg.Warn("Filesystem watch disabled, relying on cache TTL", zap.Error(err))
		} else {
			a.wg.Add(1)
			go func() {
				defer a.wg.Done()
				if err := w.Run(ctx); err != nil {
					logg.Error("Filesystem watch stopped", zap.Error(err))
				}
			}()
		}
	}

	var recorder site.Recorder = misses.NopRecorder{}
	var collector *misses.Collector
	store := connectMisses(ctx, cfg.Database, logg)
	if store != nil {
		a.db = store.DB()
		collector = misses.NewCollector(store, misses.DefaultBuffer, logg)
		recorder = collector
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			collector.Run(ctx)
		}()
	}

	app := fiber.New(fiber.Config{
		AppName:               "binserve",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout(),
		WriteTimeout:          cfg.Server.WriteTimeout(),
	})
	a.Fiber = app

	// RayID first so every log line can be correlated.
	app.Use(rayid.New())
	app.Use(logger.Middleware(logg))

	if cfg.Server.Admin {
		app.Get(server.AdminPrefix+"/swagger/*", swagger.HandlerDefault)

		admin := app.Group(server.AdminPrefix, auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))
		mgr := loader.NewManager()
		mgr.Register(inspect.NewFeature(r, cache, logg))
		mgr.Register(integrity.NewFeature(r, a.db, logg))
		mgr.Register(misses.NewFeature(store, collector, logg))

		loaded, err := mgr.LoadAll(admin)
		if err != nil {
			a.Close()
			return nil, err
		}
		logg.Debug("Admin features loaded", zap.Strings("features", loaded))
	}

	// The site is a catch-all and must come last.
	siteMgr := loader.NewManager()
	siteMgr.Register(site.NewFeature(r, cfg.Server, recorder, logg))
	if _, err := siteMgr.LoadAll(app); err != nil {
		a.Close()
		return nil, err
	}

	logg.Info("Serving site",
		zap.String("root", r.Root()),
		zap.String("base_path", r.BasePath()),
		zap.Bool("directory_format", r.DirectoryFormat()),
		zap.Bool("cache", cache != nil),
		zap.Bool("misses", store != nil))
	return a, nil
}

// Close stops background tasks and releases the database.
func (a *App) Close() {
	a.cancel()
	a.wg.Wait()
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
