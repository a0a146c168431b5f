// Package cartcore assembles the cart state core: a keyed store backend,
// the cart aggregate, the session coordinator, and the read-only query
// facade, all wired from environment configuration.
package cartcore

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/cartcore/internal/cart"
	"github.com/angelmondragon/cartcore/internal/identity"
	"github.com/angelmondragon/cartcore/internal/query"
	"github.com/angelmondragon/cartcore/internal/session"
	"github.com/angelmondragon/cartcore/internal/storage"
	"github.com/angelmondragon/cartcore/pkg/config"
	"github.com/angelmondragon/cartcore/pkg/logger"
	"github.com/angelmondragon/cartcore/pkg/metrics"
)

// Options tunes how New assembles the core. Zero values pick sensible
// defaults: configuration from the environment, no metrics registry, and
// stdout logging.
type Options struct {
	Config    *config.Config
	Registry  prometheus.Registerer
	LogOutput io.Writer
}

// App is a fully wired cart core. Create one per embedding application.
type App struct {
	Cart    cart.Service
	Session *session.Coordinator
	Queries *query.Facade
	Log     *logger.Logger

	backend io.Closer
}

// New wires the store backend, cart aggregate, credential resolver, and
// session coordinator, then resumes any persisted session so the cart is
// loaded before the first query.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	logg := logger.New(logger.Options{
		ServiceName: "cartcore",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      opts.LogOutput,
	})
	met := metrics.NewCartMetrics(opts.Registry)

	kv, closer, err := newBackend(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}

	records, err := storage.NewRecordStore[[]cart.LineItem](kv, logg, met)
	if err != nil {
		closeBackend(closer, logg)
		return nil, err
	}
	cartSvc, err := cart.NewService(records, logg, met)
	if err != nil {
		closeBackend(closer, logg)
		return nil, err
	}
	resolver, err := identity.NewResolver(cfg.Session)
	if err != nil {
		closeBackend(closer, logg)
		return nil, err
	}
	coordinator, err := session.NewCoordinator(session.CoordinatorParams{
		KV:       kv,
		Resolver: resolver,
		Cart:     cartSvc,
		Logger:   logg,
		Metrics:  met,
	})
	if err != nil {
		closeBackend(closer, logg)
		return nil, err
	}
	facade, err := query.NewFacade(cartSvc, coordinator)
	if err != nil {
		closeBackend(closer, logg)
		return nil, err
	}

	if err := coordinator.Resume(ctx); err != nil {
		closeBackend(closer, logg)
		return nil, err
	}

	return &App{
		Cart:    cartSvc,
		Session: coordinator,
		Queries: facade,
		Log:     logg,
		backend: closer,
	}, nil
}

// Close releases the store backend's connections, if it holds any.
func (a *App) Close() error {
	if a.backend == nil {
		return nil
	}
	return a.backend.Close()
}

func newBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.KV, io.Closer, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		return storage.NewMemory(), nil, nil
	case config.StoreBackendRedis:
		client, err := storage.NewRedis(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	case config.StoreBackendDB:
		client, err := storage.NewDB(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func closeBackend(closer io.Closer, logg *logger.Logger) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logg.Warn(context.Background(), fmt.Sprintf("closing store backend: %v", err))
	}
}
