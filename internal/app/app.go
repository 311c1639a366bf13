// Package app builds the planner's object graph from configuration. The CLI
// calls Build directly; the server assembles the same constructors with fx.
package app

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"publisher-planner/internal/api"
	"publisher-planner/internal/config"
	"publisher-planner/internal/handler"
	"publisher-planner/internal/logger"
	"publisher-planner/internal/metrics"
	"publisher-planner/internal/router"
	"publisher-planner/internal/store"
)

var Module = fx.Module("planner",
	fx.Provide(
		NewLogger,
		metrics.New,
		NewClient,
		NewStore,
		NewRouter,
		NewHandler,
	),
)

type App struct {
	Config  config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Client  *api.Client
	Store   *store.Store
	Router  *router.Router
	Handler *handler.Handler
}

func NewLogger(cfg config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
		Version:     cfg.App.Version,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})
}

func NewClient(cfg config.Config, m *metrics.Metrics, log *zap.Logger) (*api.Client, error) {
	apiCfg := api.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
	}
	return api.NewWithDoer(apiCfg, m.Doer(api.NewTransport(apiCfg)), log)
}

func NewStore(cfg config.Config, client *api.Client, m *metrics.Metrics, log *zap.Logger) *store.Store {
	return store.New(client, log, store.Options{
		AwaitHydration: cfg.Store.AwaitHydration,
		LogoURL:        cfg.App.LogoURL,
		OnHydrate:      m.Hydration,
	})
}

// NewRouter installs the bearer guard only when auth is enforced.
func NewRouter(cfg config.Config) *router.Router {
	guard := router.PassThrough
	if cfg.Auth.Enforce {
		guard = router.BearerGuard(cfg.Auth.Token)
	}
	return router.New(router.Routes, guard)
}

func NewHandler(cfg config.Config, st *store.Store, rt *router.Router, log *zap.Logger) *handler.Handler {
	return handler.New(st, rt, log, handler.Options{
		AppName: cfg.App.Name,
		Timeout: cfg.Server.WriteTimeout,
	})
}

// Build wires everything without fx.
func Build(cfg config.Config) (*App, error) {
	log, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	m := metrics.New()
	client, err := NewClient(cfg, m, log)
	if err != nil {
		return nil, err
	}
	st := NewStore(cfg, client, m, log)
	rt := NewRouter(cfg)
	return &App{
		Config:  cfg,
		Log:     log,
		Metrics: m,
		Client:  client,
		Store:   st,
		Router:  rt,
		Handler: NewHandler(cfg, st, rt, log),
	}, nil
}
