package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/carousel"
	"github.com/aretw0/carousel/internal/config"
	"github.com/aretw0/carousel/pkg/adapters/loam"
	"github.com/aretw0/carousel/pkg/adapters/memory"
	redisadapter "github.com/aretw0/carousel/pkg/adapters/redis"
	"github.com/aretw0/carousel/pkg/adapters/sqlite"
	"github.com/aretw0/carousel/pkg/domain"
	"github.com/aretw0/carousel/pkg/observability"
	"github.com/aretw0/carousel/pkg/ports"
	"github.com/aretw0/carousel/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App is the wired set of components every command shares.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Items    []domain.Item
	Store    ports.PositionStore
	Manager  *session.Manager
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	closers []func() error
}

// NewApp loads the items, opens the configured store and builds the
// session manager. extra carousel options are appended to the defaults.
func NewApp(ctx context.Context, cfg config.Config, logger *slog.Logger, extra ...carousel.Option) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	items, err := loadItems(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Items = items

	store, locker, err := app.openStore(cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	sessionOpts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(locker))
	}

	hooks := []domain.LifecycleHooks{observability.LoggingHooks(logger)}
	if cfg.Server.Metrics {
		app.Registry = prometheus.NewRegistry()
		app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		app.Metrics, err = observability.NewMetrics(app.Registry)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		hooks = append(hooks, app.Metrics.Hooks())
	}
	combined := domain.ComposeHooks(hooks...)
	sessionOpts = append(sessionOpts,
		session.WithHooks(func(string) domain.LifecycleHooks { return combined }),
		session.WithCarouselOptions(append([]carousel.Option{
			carousel.WithConfig(cfg.Carousel),
			carousel.WithLogger(logger),
		}, extra...)...),
	)

	app.Manager = session.NewManager(items, store, sessionOpts...)
	return app, nil
}

func loadItems(ctx context.Context, cfg config.Config) ([]domain.Item, error) {
	var src ports.ItemSource
	if cfg.Deck != "" {
		deck, err := loam.Open(cfg.Deck)
		if err != nil {
			return nil, fmt.Errorf("failed to open deck %s: %w", cfg.Deck, err)
		}
		src = deck
	} else {
		src = memory.NewDeck(cfg.Items...)
	}
	items, err := src.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyDeck
	}
	return items, nil
}

func (a *App) openStore(cfg config.Config) (ports.PositionStore, ports.DistributedLocker, error) {
	switch cfg.Store {
	case config.StoreRedis:
		store := redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisadapter.WithPrefix(cfg.Redis.Prefix),
			redisadapter.WithTTL(cfg.Redis.TTL),
		)
		a.closers = append(a.closers, store.Close)
		var locker ports.DistributedLocker
		if cfg.Redis.Lock {
			locker = redisadapter.NewLocker(store.Client(), cfg.Redis.Prefix)
		}
		a.Logger.Debug("Using redis store", "addr", cfg.Redis.Addr, "lock", cfg.Redis.Lock)
		return store, locker, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLite.Path, sqlite.WithLogger(a.Logger))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		a.Logger.Debug("Using sqlite store", "path", cfg.SQLite.Path)
		return store, nil, nil
	default:
		return memory.NewStore(), nil, nil
	}
}

// Close shuts every carousel down, then releases the store.
func (a *App) Close() error {
	var errs []error
	if a.Manager != nil {
		errs = append(errs, a.Manager.Shutdown(context.Background()))
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
