package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/maison/internal/cart"
	"github.com/phenrril/maison/internal/domain"
	"github.com/phenrril/maison/internal/usecase"
)

const testAdminToken = "s3cret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type memCatalog struct {
	mu    sync.Mutex
	items []domain.CatalogItem
}

func (m *memCatalog) List(ctx context.Context) ([]domain.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CatalogItem, len(m.items))
	copy(out, m.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *memCatalog) bySlug(slug string) (*domain.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.Slug == slug {
			return &it, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCatalog) Save(ctx context.Context, it *domain.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].Slug == it.Slug {
			m.items[i] = *it
			return nil
		}
	}
	m.items = append(m.items, *it)
	return nil
}

func (m *memCatalog) DeleteBySlug(ctx context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].Slug == slug {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memCatalog) SetPosition(ctx context.Context, slug string, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].Slug == slug {
			m.items[i].Position = position
			return nil
		}
	}
	return domain.ErrNotFound
}

type memCarts struct {
	mu    sync.Mutex
	carts map[string][]domain.CartLine
}

func (m *memCarts) Load(ctx context.Context, id string) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartLine(nil), m.carts[id]...), nil
}

func (m *memCarts) Save(ctx context.Context, id string, lines []domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[id] = append([]domain.CartLine(nil), lines...)
	return nil
}

func (m *memCarts) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, id)
	return nil
}

type memOrders struct {
	mu     sync.Mutex
	orders []*domain.Order
}

func (m *memOrders) Save(ctx context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
	return nil
}

func (m *memOrders) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memOrders) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for i := len(m.orders) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *m.orders[i])
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			o.Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memOrders) Stats(ctx context.Context) (domain.OrderStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s domain.OrderStats
	for _, o := range m.orders {
		if o.Status != domain.OrderStatusCancelled {
			s.Orders++
			s.Revenue += o.Total
		}
	}
	return s, nil
}

func fixture() []domain.CatalogItem {
	mk := func(pos int, name, cat, sub string, price int64, color string, sizes, tags []string, inStock bool) domain.CatalogItem {
		return domain.CatalogItem{
			ID: uuid.New(), Slug: domain.Slugify(name), Name: name, Category: cat, Subcategory: sub,
			Price: price, Currency: "NGN", Color: color, Sizes: sizes, Tags: tags,
			InStock: inStock, Position: pos,
		}
	}
	return []domain.CatalogItem{
		mk(1, "Silk Slip Dress", "ready-to-wear", "dresses", 850_000, "black", []string{"S", "M", "L"}, []string{domain.TagNew}, true),
		mk(2, "Cashmere Wrap", "accessories", "scarves", 300_000, "camel", nil, nil, true),
		mk(3, "Gold Cuff", "jewelry", "", 2_500_000, "gold", nil, []string{domain.TagBestSeller}, true),
		mk(4, "Leather Tote", "bags", "", 1_200_000, "black", nil, nil, false),
	}
}

type testEnv struct {
	srv     *Server
	catalog *memCatalog
	carts   *memCarts
	orders  *memOrders
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	env := &testEnv{
		catalog: &memCatalog{items: fixture()},
		carts:   &memCarts{carts: map[string][]domain.CartLine{}},
		orders:  &memOrders{},
	}
	if opts.AdminToken == "" {
		opts.AdminToken = testAdminToken
	}
	if opts.StoreName == "" {
		opts.StoreName = "Maison"
	}
	catUC := usecase.NewCatalogUC(env.catalog, time.Minute, "NGN")
	cartUC := usecase.NewCartUC(env.carts, catUC, cart.DefaultPolicy())
	env.srv = New(catUC, cartUC, usecase.NewOrderUC(env.orders, cartUC), opts)
	return env
}

type request struct {
	method  string
	path    string
	body    any
	cookies []*http.Cookie
	header  map[string]string
}

func (e *testEnv) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	switch b := r.body.(type) {
	case nil:
	case io.Reader:
		body = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if _, ok := r.body.(io.Reader); !ok && r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.header {
		req.Header.Set(k, v)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	Error    bool            `json:"error"`
	Warnings []string        `json:"warnings"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

func cartCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cartCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", cartCookie)
	return nil
}
