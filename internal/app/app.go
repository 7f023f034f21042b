package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/daleyoon76/saas-idea-generator/internal/data/db"
	httpapi "github.com/daleyoon76/saas-idea-generator/internal/http"
	"github.com/daleyoon76/saas-idea-generator/internal/observability"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpapi.Server
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services

	store        *db.PostgresService
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.otelConfig())
	metrics := observability.Init(cfg.Metrics)

	store, err := db.NewPostgresService(cfg.dbConfig(), log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		_ = store.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := store.DB()

	reposet := wireRepos(theDB, log)
	clientset, err := wireClients(log, cfg)
	if err != nil {
		_ = store.Close()
		log.Sync()
		return nil, err
	}
	serviceset, err := wireServices(theDB, log, cfg, reposet, clientset)
	if err != nil {
		_ = clientset.Close()
		_ = store.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(theDB, log, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := httpapi.NewServer(cfg.Address(), routerConfig(log, cfg, handlerset, middleware, metrics))

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clientset,
		Services:     serviceset,
		store:        store,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("Server listening", "addr", a.Cfg.Address())
		errCh <- a.Server.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.Shutdown)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return <-errCh
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.Shutdown)
		errs = append(errs, a.otelShutdown(ctx))
		cancel()
	}
	errs = append(errs, a.Clients.Close())
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	a.Log.Sync()
	return errors.Join(errs...)
}
