package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/goleak"

	"github.com/phenrril/maison/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memCatalog struct {
	mu    sync.Mutex
	items []domain.CatalogItem
	lists int
	err   error
}

func (m *memCatalog) List(ctx context.Context) ([]domain.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.CatalogItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memCatalog) Save(ctx context.Context, it *domain.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i := range m.items {
		if m.items[i].ID == it.ID {
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

func (m *memCatalog) listCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists
}

type memCarts struct {
	mu      sync.Mutex
	carts   map[string][]domain.CartLine
	saves   int
	deletes int
	delErr  error
}

func newMemCarts() *memCarts { return &memCarts{carts: map[string][]domain.CartLine{}} }

func (m *memCarts) Load(ctx context.Context, id string) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartLine(nil), m.carts[id]...), nil
}

func (m *memCarts) Save(ctx context.Context, id string, lines []domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.carts[id] = append([]domain.CartLine(nil), lines...)
	return nil
}

func (m *memCarts) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	m.deletes++
	delete(m.carts, id)
	return nil
}

type memOrders struct {
	mu     sync.Mutex
	orders []domain.Order
	err    error
}

func (m *memOrders) Save(ctx context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.orders = append(m.orders, *o)
	return nil
}

func (m *memOrders) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memOrders) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for i := len(m.orders) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.orders[i])
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(ctx context.Context, id uuid.UUID, s domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = s
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
		if o.Status == domain.OrderStatusCancelled {
			continue
		}
		s.Orders++
		s.Revenue += o.Total
	}
	return s, nil
}

func item(name, category string, price int64, tags ...string) domain.CatalogItem {
	return domain.CatalogItem{
		ID:       uuid.New(),
		Slug:     domain.Slugify(name),
		Name:     name,
		Category: category,
		Price:    price,
		Currency: "NGN",
		Tags:     tags,
		InStock:  true,
	}
}
