package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/maison/internal/config"
	"github.com/phenrril/maison/internal/domain"
	"github.com/phenrril/maison/internal/usecase"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func boltConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Cart.Store = config.CartStoreBolt
	cfg.Cart.BoltPath = filepath.Join(t.TempDir(), "nested", "carts.db")
	return cfg
}

func TestNewAppWithBoltStore(t *testing.T) {
	a, err := NewApp(boltConfig(t), nil)
	require.NoError(t, err)
	require.NotNil(t, a.purger)

	rec := httptest.NewRecorder()
	a.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, a.Close())
}

func TestNewAppWithPostgresCarts(t *testing.T) {
	cfg := config.Default()
	cfg.Cart.Store = config.CartStorePostgres
	a, err := NewApp(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, a.pgCarts)
	assert.NotNil(t, a.purger)
	assert.NoError(t, a.Close())
}

func TestNewAppRejectsBadRedisURL(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.URL = "bogus://nowhere"
	_, err := NewApp(cfg, nil)
	assert.Error(t, err)
}

func TestStartJobs(t *testing.T) {
	a, err := NewApp(boltConfig(t), nil)
	require.NoError(t, err)
	defer a.Close()

	a.Config.Catalog.RefreshCron = "not a schedule"
	assert.Error(t, a.StartJobs(context.Background()))

	a.Config.Catalog.RefreshCron = "*/30 * * * * *"
	require.NoError(t, a.StartJobs(context.Background()))
	assert.Len(t, a.sched.Entries(), 2)
}

type fakePurger struct {
	mu     sync.Mutex
	cutoff time.Time
}

func (f *fakePurger) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoff = cutoff
	return 3, nil
}

func TestPurgeCartsUsesCartTTL(t *testing.T) {
	cfg := config.Default()
	cfg.Cart.TTL = "24h"
	p := &fakePurger{}
	a := &App{Config: cfg, purger: p}

	a.purgeCarts(context.Background())
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), p.cutoff, time.Minute)
}

type memCatalog struct {
	items []domain.CatalogItem
}

func (m *memCatalog) List(ctx context.Context) ([]domain.CatalogItem, error) { return m.items, nil }
func (m *memCatalog) Save(ctx context.Context, it *domain.CatalogItem) error {
	m.items = append(m.items, *it)
	return nil
}
func (m *memCatalog) DeleteBySlug(ctx context.Context, slug string) error { return nil }
func (m *memCatalog) SetPosition(ctx context.Context, slug string, pos int) error {
	return nil
}

func TestSeedCatalogIsValid(t *testing.T) {
	repo := &memCatalog{}
	uc := usecase.NewCatalogUC(repo, time.Minute, "NGN")

	seed := seedCatalog("NGN")
	rep, err := uc.Import(context.Background(), seed)
	require.NoError(t, err)
	assert.Empty(t, rep.Rejected)
	assert.Equal(t, len(seed), rep.Imported)

	slugs := map[string]bool{}
	for _, it := range repo.items {
		assert.False(t, slugs[it.Slug], "duplicate slug %s", it.Slug)
		slugs[it.Slug] = true
	}

	items, err := uc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, len(seed))
}

func TestSetupLoggerWritesFile(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	path := filepath.Join(t.TempDir(), "maison.log")
	closer, err := SetupLogger(config.LoggingConfig{Level: "debug", File: path}, true)
	require.NoError(t, err)
	require.NotNil(t, closer)

	log.Debug().Str("cart", "abc").Msg("hello")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"message":"hello"`)
	assert.Contains(t, string(b), `"cart":"abc"`)

	_, err = SetupLogger(config.LoggingConfig{Level: "loud"}, false)
	assert.Error(t, err)
}
