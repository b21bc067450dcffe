package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/carousel"
	"github.com/aretw0/carousel/internal/logging"
	"github.com/aretw0/carousel/pkg/domain"
	"github.com/aretw0/carousel/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed lock is held for one write.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Observer is notified with a fresh snapshot whenever a hosted carousel
// changes. It may be called from several goroutines at once.
type Observer func(id string, snap *domain.Snapshot)

// Manager hosts many carousels keyed by id, persisting the position each
// one settles on so it can be resumed later.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	items []domain.Item
	store ports.PositionStore

	mu       sync.Mutex            // Global lock for the maps
	locks    map[string]*lockEntry // Map of active locks
	live     map[string]*carousel.Carousel
	observer []Observer

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger

	carouselOpts []carousel.Option
	hooks        func(id string) domain.LifecycleHooks
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithCarouselOptions is applied to every carousel the manager opens.
func WithCarouselOptions(opts ...carousel.Option) Option {
	return func(m *Manager) {
		m.carouselOpts = append(m.carouselOpts, opts...)
	}
}

// WithHooks attaches extra lifecycle hooks to every carousel, built per id.
func WithHooks(fn func(id string) domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = fn
	}
}

// NewManager creates a Manager serving items, persisting into store.
func NewManager(items []domain.Item, store ports.PositionStore, opts ...Option) *Manager {
	m := &Manager{
		items:   append([]domain.Item(nil), items...),
		store:   store,
		locks:   make(map[string]*lockEntry),
		live:    make(map[string]*carousel.Carousel),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Items returns the logical items every carousel shows.
func (m *Manager) Items() []domain.Item {
	return append([]domain.Item(nil), m.items...)
}

// Store returns the underlying position store.
func (m *Manager) Store() ports.PositionStore {
	return m.store
}

// Observe registers fn for change notifications of every carousel.
func (m *Manager) Observe(fn Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = append(m.observer, fn)
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// WithLock executes fn while holding the lock for id.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"carousel_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Open returns the live carousel for id, creating it when needed. A new
// carousel resumes at the logical item stored for id, if any. An empty id
// gets a generated one.
func (m *Manager) Open(ctx context.Context, id string) (*carousel.Carousel, error) {
	if id == "" {
		id = uuid.NewString()
	}

	var c *carousel.Carousel
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		m.mu.Lock()
		existing, ok := m.live[id]
		m.mu.Unlock()
		if ok {
			c = existing
			return nil
		}

		start := 0
		snap, err := m.store.Load(ctx, id)
		switch {
		case err == nil:
			if snap.Count == len(m.items) {
				start = snap.Logical
			} else {
				m.logger.Warn("Stored position ignored: item count changed",
					"carousel_id", id, "stored", snap.Count, "items", len(m.items))
			}
		case errors.Is(err, domain.ErrPositionNotFound):
		default:
			return fmt.Errorf("failed to load position: %w", err)
		}

		c = m.build(id, start)
		if err := m.store.Save(ctx, id, c.Snapshot()); err != nil {
			c.Close()
			return fmt.Errorf("failed to save position: %w", err)
		}

		m.mu.Lock()
		m.live[id] = c
		m.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.Mount()
	m.logger.Debug("Carousel opened", "carousel_id", id, "logical", c.Snapshot().Logical)
	return c, nil
}

func (m *Manager) build(id string, start int) *carousel.Carousel {
	notify := func(context.Context) { m.notify(id) }
	own := domain.LifecycleHooks{
		OnGesture:        func(ctx context.Context, _ *domain.GestureEvent) { notify(ctx) },
		OnAnimationStart: func(ctx context.Context, _ *domain.AnimationEvent) { notify(ctx) },
		OnThrottle:       func(ctx context.Context, _ *domain.ThrottleEvent) { notify(ctx) },
		OnAutoplay:       func(ctx context.Context, _ *domain.AutoplayEvent) { notify(ctx) },
		OnSettle: func(ctx context.Context, _ *domain.SettleEvent) {
			m.persist(ctx, id)
			notify(ctx)
		},
	}
	hooks := own
	if m.hooks != nil {
		hooks = domain.ComposeHooks(own, m.hooks(id))
	}

	opts := append([]carousel.Option{}, m.carouselOpts...)
	opts = append(opts,
		carousel.WithID(id),
		carousel.WithStartIndex(start),
		carousel.WithLifecycleHooks(hooks),
	)
	return carousel.New(m.items, opts...)
}

func (m *Manager) persist(ctx context.Context, id string) {
	c, err := m.Get(id)
	if err != nil {
		return
	}
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Save(ctx, id, c.Snapshot())
	})
	if err != nil {
		m.logger.Error("Failed to persist position", "carousel_id", id, "err", err)
	}
}

func (m *Manager) notify(id string) {
	m.mu.Lock()
	c, ok := m.live[id]
	observers := append([]Observer(nil), m.observer...)
	m.mu.Unlock()
	if !ok || len(observers) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, fn := range observers {
		fn(id, snap)
	}
}

// Get returns the live carousel for id.
func (m *Manager) Get(id string) (*carousel.Carousel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.live[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return c, nil
}

// Close persists the final snapshot of id and tears the carousel down.
func (m *Manager) Close(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		m.mu.Lock()
		c, ok := m.live[id]
		delete(m.live, id)
		m.mu.Unlock()
		if !ok {
			return domain.ErrSessionNotFound
		}

		c.Close()
		snap := c.Snapshot()
		if err := m.store.Save(ctx, id, snap); err != nil {
			return fmt.Errorf("failed to save position: %w", err)
		}
		for _, fn := range m.observers() {
			fn(id, snap)
		}
		return nil
	})
}

// Delete tears down id, if live, and forgets its stored position.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		m.mu.Lock()
		c, ok := m.live[id]
		delete(m.live, id)
		m.mu.Unlock()
		if ok {
			c.Close()
		}
		return m.store.Delete(ctx, id)
	})
}

// List returns every live or stored id, sorted.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	stored, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	set := make(map[string]struct{}, len(stored))
	for _, id := range stored {
		set[id] = struct{}{}
	}
	m.mu.Lock()
	for id := range m.live {
		set[id] = struct{}{}
	}
	m.mu.Unlock()

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Shutdown closes every live carousel.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	ids := make([]string, 0, len(m.live))
	for id := range m.live {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if err := m.Close(ctx, id); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) observers() []Observer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Observer(nil), m.observer...)
}
