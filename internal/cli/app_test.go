package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/carousel/internal/config"
	"github.com/aretw0/carousel/internal/logging"
	"github.com/aretw0/carousel/pkg/adapters/memory"
	redisadapter "github.com/aretw0/carousel/pkg/adapters/redis"
	"github.com/aretw0/carousel/pkg/adapters/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_Stores(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		mutate func(*config.Config)
		check  func(*testing.T, *App)
	}{
		{
			name:   "memory",
			mutate: func(*config.Config) {},
			check: func(t *testing.T, app *App) {
				assert.IsType(t, &memory.Store{}, app.Store)
			},
		},
		{
			name: "sqlite",
			mutate: func(c *config.Config) {
				c.Store = config.StoreSQLite
				c.SQLite.Path = filepath.Join(t.TempDir(), "carousel.db")
			},
			check: func(t *testing.T, app *App) {
				assert.IsType(t, &sqlite.Store{}, app.Store)
			},
		},
		{
			name: "redis",
			mutate: func(c *config.Config) {
				c.Store = config.StoreRedis
				c.Redis.Addr = mr.Addr()
				c.Redis.Lock = true
			},
			check: func(t *testing.T, app *App) {
				assert.IsType(t, &redisadapter.Store{}, app.Store)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Carousel.Autoplay = false
			tt.mutate(&cfg)

			app, err := NewApp(context.Background(), cfg, logging.NewNop())
			require.NoError(t, err)
			tt.check(t, app)
			assert.NotNil(t, app.Metrics)
			assert.Len(t, app.Items, 3)

			ctx := context.Background()
			c, err := app.Manager.Open(ctx, "hero")
			require.NoError(t, err)
			assert.Equal(t, "hero", c.Snapshot().ID)

			ids, err := app.Store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"hero"}, ids)

			require.NoError(t, app.Close())
		})
	}
}

func TestNewApp_MissingDeck(t *testing.T) {
	cfg := config.Default()
	cfg.Deck = filepath.Join(t.TempDir(), "missing")
	_, err := NewApp(context.Background(), cfg, logging.NewNop())
	assert.Error(t, err)
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRun_HeadlessPrintsSettles(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Metrics = false
	cfg.Carousel.AutoplayInterval = 300 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, RunOptions{Config: cfg, SessionID: "demo", Headless: true, Out: out})
	}()

	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("settled 1 Two"))
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	assert.Contains(t, out.String(), "Carousel 'demo' active at item 1 of 3.")
	assert.Contains(t, out.String(), "Stopped at item")
}
