// Package app wires configuration into running services.
package app

import (
	"context"

	"github.com/buzzwatch/buzzwatch/internal/alerts"
	"github.com/buzzwatch/buzzwatch/internal/auth"
	"github.com/buzzwatch/buzzwatch/internal/cache"
	"github.com/buzzwatch/buzzwatch/internal/config"
	"github.com/buzzwatch/buzzwatch/internal/database"
	"github.com/buzzwatch/buzzwatch/internal/httpapi"
	"github.com/buzzwatch/buzzwatch/internal/logging"
	"github.com/buzzwatch/buzzwatch/internal/metrics"
	"github.com/buzzwatch/buzzwatch/internal/monitor"
	"github.com/buzzwatch/buzzwatch/internal/platforms"
	"github.com/buzzwatch/buzzwatch/internal/preview"
	"github.com/buzzwatch/buzzwatch/internal/ratelimit"
	"github.com/buzzwatch/buzzwatch/internal/searchproxy"
)

// App holds all application dependencies
type App struct {
	Config         *config.Config
	Logger         *logging.Logger
	Cache          cache.Cache
	Dispatcher     *platforms.Dispatcher
	MetricsSvc     *metrics.Service
	Registry       *monitor.Registry
	Evaluator      *alerts.Evaluator
	AuthMiddleware *auth.Middleware
	HTTPServer     *httpapi.Server
	db             *database.DB
	alertStore     *database.AlertStore
	replyStore     *database.ReplyStore
}

// New creates and initializes a new App instance
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	app.Logger = app.initLogger()
	app.Cache = app.initCache()

	limiter := ratelimit.New(cfg.Server.RateLimitDur)

	// Search proxy and platform fetchers
	proxyOpts := []searchproxy.Option{}
	if cfg.Search.Endpoint != "" {
		proxyOpts = append(proxyOpts, searchproxy.WithEndpoint(cfg.Search.Endpoint))
	}
	proxy := searchproxy.New(cfg.Search.APIKey, limiter, proxyOpts...)
	if !proxy.Configured() {
		app.Logger.Warn("Search proxy API key not set; Quora and Twitter/X fetches will fail")
	}

	app.Dispatcher = platforms.NewDispatcher(app.Logger,
		app.initRedditFetcher(limiter),
		platforms.NewQuoraFetcher(proxy),
		platforms.NewTwitterFetcher(proxy),
	)

	// Metrics store: database when available, memory otherwise
	store := app.initDatabase()
	app.MetricsSvc = metrics.NewService(app.Dispatcher, store, app.Cache, app.Logger)

	// Recurring monitors fetch through the dispatcher; the monitor API
	// records and evaluates each tick.
	app.Registry = monitor.NewRegistry(app.Dispatcher.GetMetrics, app.Logger)
	app.Registry.SetDefaultInterval(cfg.Monitor.DefaultInterval)

	// Auth is optional; without a secret the write endpoints are open.
	if cfg.Auth.JWTSecret != "" {
		authSvc := auth.NewService(auth.Config{
			JWTSecret: cfg.Auth.JWTSecret,
			JWTIssuer: cfg.Auth.JWTIssuer,
			TokenTTL:  cfg.Auth.TokenTTL,
		})
		app.AuthMiddleware = auth.NewMiddleware(authSvc)
		app.Logger.Info("Authentication enabled")
	} else {
		app.AuthMiddleware = auth.NewMiddleware(nil)
		app.Logger.Warn("AUTH_JWT_SECRET not set; authentication disabled")
	}

	previewSvc := preview.NewFetcher(limiter, app.Cache, platforms.DefaultConfig().UserAgent)

	app.HTTPServer = httpapi.New(app.MetricsSvc, app.Registry, app.Evaluator,
		app.alertStore, app.replyStore, previewSvc, app.AuthMiddleware, app.Logger)

	return app, nil
}

// Run starts the HTTP server and blocks until it stops
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("Starting HTTP server", logging.WithField("addr", a.Config.Server.HTTPAddr))
	return a.HTTPServer.Start(a.Config.Server.HTTPAddr)
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.Registry.StopAll()

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error("HTTP server shutdown error", logging.WithField("error", err.Error()))
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Error("Database close error", logging.WithField("error", err.Error()))
		}
	}

	a.Logger.Sync()
	return nil
}

func (a *App) initLogger() *logging.Logger {
	level := logging.LevelInfo
	switch a.Config.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	return logging.New(level)
}

func (a *App) initCache() cache.Cache {
	switch a.Config.Cache.Backend {
	case "redis":
		a.Logger.Info("Using Redis cache backend", logging.WithField("addr", a.Config.Cache.RedisAddr))
		redisCache, err := cache.NewRedis(cache.RedisConfig{
			Addr: a.Config.Cache.RedisAddr,
		}, a.Config.Cache.TTL)
		if err != nil {
			a.Logger.Error("Failed to connect to Redis, falling back to memory cache", logging.WithField("error", err.Error()))
			return cache.NewMemory(a.Config.Cache.TTL)
		}
		return redisCache
	default:
		a.Logger.Info("Using in-memory cache backend")
		return cache.NewMemory(a.Config.Cache.TTL)
	}
}

// initRedditFetcher prefers the authenticated API when credentials are
// configured and falls back to the public JSON endpoint.
func (a *App) initRedditFetcher(limiter *ratelimit.Limiter) platforms.Fetcher {
	fetcherConfig := platforms.DefaultConfig()

	creds := platforms.RedditCredentials{
		ID:       a.Config.Reddit.ClientID,
		Secret:   a.Config.Reddit.ClientSecret,
		Username: a.Config.Reddit.Username,
		Password: a.Config.Reddit.Password,
	}
	if creds.ID != "" {
		fetcher, err := platforms.NewRedditAPIFetcher(creds, limiter, fetcherConfig)
		if err == nil {
			a.Logger.Info("Using authenticated Reddit API")
			return fetcher
		}
		a.Logger.Warn("Failed to initialize Reddit API client, using public endpoint", logging.WithField("error", err.Error()))
	}

	return platforms.NewRedditFetcher(limiter, fetcherConfig)
}

// initDatabase connects to the configured database and returns the metrics
// store to use. When the connection fails the app degrades to in-memory
// history with alerts and replies disabled.
func (a *App) initDatabase() metrics.Store {
	dbConfig := database.DefaultConfig()
	dbConfig.Driver = a.Config.Database.Driver
	dbConfig.Host = a.Config.Database.Host
	dbConfig.Port = a.Config.Database.Port
	dbConfig.User = a.Config.Database.User
	dbConfig.Password = a.Config.Database.Password
	dbConfig.Database = a.Config.Database.Database
	dbConfig.SSLMode = a.Config.Database.SSLMode
	dbConfig.Path = a.Config.Database.Path

	db, err := database.New(dbConfig)
	if err != nil {
		a.Logger.Warn("Failed to connect to database, using in-memory history (alerts and replies disabled)", logging.WithField("error", err.Error()))
		return metrics.NewMemoryStore()
	}

	if err := db.Migrate(context.Background()); err != nil {
		a.Logger.Warn("Failed to run migrations, using in-memory history (alerts and replies disabled)", logging.WithField("error", err.Error()))
		db.Close()
		return metrics.NewMemoryStore()
	}

	a.Logger.Info("Connected to database", logging.WithField("driver", db.Driver()))
	a.db = db
	a.alertStore = database.NewAlertStore(db)
	a.replyStore = database.NewReplyStore(db)
	a.Evaluator = alerts.NewEvaluator(a.alertStore, a.Logger)

	return database.NewMetricsStore(db)
}
