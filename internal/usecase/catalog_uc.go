package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/phenrril/maison/internal/catalog"
	"github.com/phenrril/maison/internal/domain"
	"github.com/phenrril/maison/internal/money"
)

const DefaultCatalogTTL = 5 * time.Minute

// CatalogUC serves queries from an in-memory snapshot of the catalog that is
// reloaded from Items once it is older than TTL.
type CatalogUC struct {
	Items           domain.CatalogRepo
	TTL             time.Duration
	DefaultCurrency string

	now   func() time.Time
	group singleflight.Group

	mu        sync.RWMutex
	snap      []domain.CatalogItem
	fetchedAt time.Time
	gen       uint64
}

func NewCatalogUC(items domain.CatalogRepo, ttl time.Duration, currency string) *CatalogUC {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogUC{Items: items, TTL: ttl, DefaultCurrency: currency, now: time.Now}
}

func (uc *CatalogUC) cached() ([]domain.CatalogItem, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.snap != nil && uc.now().Sub(uc.fetchedAt) < uc.TTL {
		return uc.snap, true
	}
	return nil, false
}

// Snapshot returns the current catalog in featured order. Concurrent
// misses share one load. A load that meets an invalid item fails whole.
func (uc *CatalogUC) Snapshot(ctx context.Context) ([]domain.CatalogItem, error) {
	if items, ok := uc.cached(); ok {
		return items, nil
	}
	v, err, _ := uc.group.Do("catalog", func() (any, error) {
		if items, ok := uc.cached(); ok {
			return items, nil
		}
		return uc.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.CatalogItem), nil
}

// load reads the catalog and caches it unless Invalidate ran while the read
// was in flight, in which case the list is returned but not kept.
func (uc *CatalogUC) load(ctx context.Context) ([]domain.CatalogItem, error) {
	uc.mu.RLock()
	gen := uc.gen
	uc.mu.RUnlock()

	items, err := uc.Items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	for _, it := range items {
		if err := validateItem(it); err != nil {
			return nil, err
		}
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.gen != gen {
		log.Debug().Msg("catalog changed during load, snapshot not kept")
		return items, nil
	}
	uc.snap = items
	uc.fetchedAt = uc.now()

	log.Debug().Int("items", len(items)).Msg("catalog snapshot loaded")
	return items, nil
}

func validateItem(it domain.CatalogItem) error {
	if err := it.Validate(); err != nil {
		return err
	}
	if _, err := money.Validate(it.Currency); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidCatalogItem, it.Slug, err)
	}
	return nil
}

// Invalidate drops the snapshot so the next read reloads it. Loads already
// in flight do not repopulate it.
func (uc *CatalogUC) Invalidate() {
	uc.mu.Lock()
	uc.snap = nil
	uc.gen++
	uc.mu.Unlock()
}

// Refresh reloads the snapshot now. On failure the previous snapshot stays.
func (uc *CatalogUC) Refresh(ctx context.Context) error {
	uc.group.Forget("catalog")
	_, err, _ := uc.group.Do("catalog", func() (any, error) { return uc.load(ctx) })
	return err
}

func (uc *CatalogUC) Query(ctx context.Context, q catalog.Query) (catalog.Result, error) {
	items, err := uc.Snapshot(ctx)
	if err != nil {
		return catalog.Result{}, err
	}
	return catalog.Run(items, q), nil
}

func (uc *CatalogUC) Facets(ctx context.Context) (catalog.Facets, error) {
	items, err := uc.Snapshot(ctx)
	if err != nil {
		return catalog.Facets{}, err
	}
	return catalog.BuildFacets(items), nil
}

func (uc *CatalogUC) GetBySlug(ctx context.Context, slug string) (*domain.CatalogItem, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errors.New("empty slug")
	}
	items, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Slug == slug {
			it := items[i]
			return &it, nil
		}
	}
	return nil, domain.ErrNotFound
}

// prepare fills the defaults an admin may leave out and validates the result.
func (uc *CatalogUC) prepare(it *domain.CatalogItem) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	it.Name = strings.TrimSpace(it.Name)
	if strings.TrimSpace(it.Slug) == "" {
		it.Slug = domain.Slugify(it.Name)
	}
	if it.Currency == "" {
		it.Currency = uc.DefaultCurrency
	}
	it.Currency = strings.ToUpper(it.Currency)
	return validateItem(*it)
}

func (uc *CatalogUC) Save(ctx context.Context, it *domain.CatalogItem) error {
	if err := uc.prepare(it); err != nil {
		return err
	}
	if err := uc.Items.Save(ctx, it); err != nil {
		return err
	}
	uc.Invalidate()
	return nil
}

// ImportReport lists what an import wrote and which rows it refused.
type ImportReport struct {
	Imported int         `json:"imported"`
	Rejected []RowReject `json:"rejected"`
}

type RowReject struct {
	Row    int    `json:"row"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Import saves every valid item and reports the invalid ones by their
// 1-based row. Only a repository failure aborts the import.
func (uc *CatalogUC) Import(ctx context.Context, items []domain.CatalogItem) (ImportReport, error) {
	rep := ImportReport{Rejected: []RowReject{}}
	defer uc.Invalidate()
	for i := range items {
		it := items[i]
		if err := uc.prepare(&it); err != nil {
			rep.Rejected = append(rep.Rejected, RowReject{Row: i + 1, Name: it.Name, Reason: err.Error()})
			continue
		}
		if err := uc.Items.Save(ctx, &it); err != nil {
			return rep, fmt.Errorf("save %s: %w", it.Slug, err)
		}
		rep.Imported++
	}
	log.Info().
		Int("imported", rep.Imported).
		Int("rejected", len(rep.Rejected)).
		Msg("catalog imported")
	return rep, nil
}

func (uc *CatalogUC) DeleteBySlug(ctx context.Context, slug string) error {
	if strings.TrimSpace(slug) == "" {
		return errors.New("empty slug")
	}
	if err := uc.Items.DeleteBySlug(ctx, slug); err != nil {
		return err
	}
	uc.Invalidate()
	return nil
}

func (uc *CatalogUC) SetPosition(ctx context.Context, slug string, position int) error {
	if err := uc.Items.SetPosition(ctx, slug, position); err != nil {
		return err
	}
	uc.Invalidate()
	return nil
}
