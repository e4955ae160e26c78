package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/phenrril/maison/internal/adapters/httpserver"
	"github.com/phenrril/maison/internal/adapters/repo/boltstore"
	"github.com/phenrril/maison/internal/adapters/repo/postgres"
	"github.com/phenrril/maison/internal/adapters/repo/redisstore"
	"github.com/phenrril/maison/internal/cart"
	"github.com/phenrril/maison/internal/config"
	"github.com/phenrril/maison/internal/domain"
	"github.com/phenrril/maison/internal/usecase"
)

// cartPurger is implemented by cart stores whose entries do not expire on
// their own.
type cartPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type App struct {
	Config    *config.Config
	DB        *gorm.DB
	CatalogUC *usecase.CatalogUC
	CartUC    *usecase.CartUC
	OrderUC   *usecase.OrderUC

	pgCarts *postgres.CartRepo
	purger  cartPurger
	closers []io.Closer
	sched   *cron.Cron
}

func NewApp(cfg *config.Config, db *gorm.DB) (*App, error) {
	a := &App{Config: cfg, DB: db}

	store, err := a.openCartStore()
	if err != nil {
		return nil, err
	}

	policy := cart.Policy{
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		FlatShippingFee:       cfg.Pricing.FlatShippingFee,
		Currency:              cfg.Pricing.Currency,
	}
	a.CatalogUC = usecase.NewCatalogUC(postgres.NewCatalogRepo(db), cfg.CatalogTTL(), cfg.Pricing.Currency)
	a.CartUC = usecase.NewCartUC(store, a.CatalogUC, policy)
	a.OrderUC = usecase.NewOrderUC(postgres.NewOrderRepo(db), a.CartUC)
	return a, nil
}

func (a *App) openCartStore() (domain.CartStore, error) {
	cfg := a.Config
	switch cfg.Cart.Store {
	case config.CartStoreRedis:
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
		rdb := redis.NewClient(opt)
		a.closers = append(a.closers, rdb)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", opt.Addr).Msg("redis not reachable yet")
		}
		return redisstore.NewCartStore(rdb, cfg.CartTTL()), nil
	case config.CartStoreBolt:
		if dir := filepath.Dir(cfg.Cart.BoltPath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		s, err := boltstore.Open(cfg.Cart.BoltPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		a.purger = s
		return s, nil
	case config.CartStorePostgres:
		r := postgres.NewCartRepo(a.DB)
		a.pgCarts = r
		a.purger = r
		return r, nil
	}
	return nil, fmt.Errorf("unknown cart store %q", cfg.Cart.Store)
}

func (a *App) HTTPHandler() http.Handler {
	if a.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return httpserver.New(a.CatalogUC, a.CartUC, a.OrderUC, httpserver.Options{
		StoreName:      a.Config.StoreName,
		SessionKey:     []byte(a.Config.Cart.SessionKey),
		AdminToken:     a.Config.Admin.Token,
		CORSOrigins:    a.Config.HTTP.CORSOrigins,
		RateLimitRPS:   a.Config.HTTP.RateLimitRPS,
		RateLimitBurst: a.Config.HTTP.RateLimitBurst,
		CartTTL:        a.Config.CartTTL(),
		Secure:         a.Config.IsProduction(),
	})
}

// Close stops scheduled jobs and releases the cart store.
func (a *App) Close() error {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
