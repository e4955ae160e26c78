package usecase

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/google/uuid"

	"github.com/phenrril/maison/internal/cart"
	"github.com/phenrril/maison/internal/domain"
)

const cartLockStripes = 64

// CartView is a cart as the storefront shows it.
type CartView struct {
	Lines  []domain.CartLine
	Totals cart.Totals
}

// CartUC applies ledger operations to persisted carts. Operations on the
// same cart id never interleave.
type CartUC struct {
	Store   domain.CartStore
	Catalog *CatalogUC
	Policy  cart.Policy

	locks [cartLockStripes]sync.Mutex
}

func NewCartUC(store domain.CartStore, catalog *CatalogUC, policy cart.Policy) *CartUC {
	return &CartUC{Store: store, Catalog: catalog, Policy: policy}
}

func (uc *CartUC) lock(cartID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(cartID))
	return &uc.locks[h.Sum32()%cartLockStripes]
}

func (uc *CartUC) view(l *cart.Ledger) CartView {
	return CartView{Lines: l.Lines(), Totals: l.Totals(uc.Policy)}
}

// mutate loads the cart, runs fn on it and writes it back only when fn
// changed it. An emptied cart is deleted from the store.
func (uc *CartUC) mutate(ctx context.Context, cartID string, fn func(*cart.Ledger) error) (CartView, error) {
	mu := uc.lock(cartID)
	mu.Lock()
	defer mu.Unlock()

	lines, err := uc.Store.Load(ctx, cartID)
	if err != nil {
		return CartView{}, fmt.Errorf("load cart: %w", err)
	}
	dirty := false
	l := cart.NewLedger(lines, func([]domain.CartLine) { dirty = true })
	if err := fn(l); err != nil {
		return CartView{}, err
	}
	if dirty {
		if err := uc.flush(ctx, cartID, l.Lines()); err != nil {
			return CartView{}, err
		}
	}
	return uc.view(l), nil
}

func (uc *CartUC) flush(ctx context.Context, cartID string, lines []domain.CartLine) error {
	if len(lines) == 0 {
		if err := uc.Store.Delete(ctx, cartID); err != nil {
			return fmt.Errorf("delete cart: %w", err)
		}
		return nil
	}
	if err := uc.Store.Save(ctx, cartID, lines); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (uc *CartUC) Get(ctx context.Context, cartID string) (CartView, error) {
	return uc.mutate(ctx, cartID, func(*cart.Ledger) error { return nil })
}

// Add puts qty units of the product behind slug in the cart. A product with
// sizes needs one of them; a colored product defaults to its own color.
// qty <= 0 leaves the cart as it was. A line never holds more than
// cart.MaxLineQuantity units.
func (uc *CartUC) Add(ctx context.Context, cartID, slug string, qty int, size, color string) (CartView, error) {
	if qty > cart.MaxLineQuantity {
		return CartView{}, fmt.Errorf("%w: at most %d per line", domain.ErrQuantityLimit, cart.MaxLineQuantity)
	}
	p, err := uc.Catalog.GetBySlug(ctx, slug)
	if err != nil {
		return CartView{}, err
	}
	if !p.InStock {
		return CartView{}, fmt.Errorf("%w: %s", domain.ErrOutOfStock, p.Slug)
	}
	if len(p.Sizes) > 0 && !p.HasSize(size) {
		return CartView{}, fmt.Errorf("%w: size %q for %s", domain.ErrInvalidOption, size, p.Slug)
	}
	if len(p.Sizes) == 0 {
		size = ""
	}
	if color == "" {
		color = p.Color
	}
	if color != p.Color {
		return CartView{}, fmt.Errorf("%w: color %q for %s", domain.ErrInvalidOption, color, p.Slug)
	}
	return uc.mutate(ctx, cartID, func(l *cart.Ledger) error {
		if !l.AddItem(*p, qty, size, color) && qty > 0 {
			return fmt.Errorf("%w: at most %d of %s per line", domain.ErrQuantityLimit, cart.MaxLineQuantity, p.Slug)
		}
		return nil
	})
}

func (uc *CartUC) Increment(ctx context.Context, cartID string, id uuid.UUID, size, color string) (CartView, error) {
	return uc.mutate(ctx, cartID, func(l *cart.Ledger) error {
		l.IncrementQuantity(id, size, color)
		return nil
	})
}

func (uc *CartUC) Decrement(ctx context.Context, cartID string, id uuid.UUID, size, color string) (CartView, error) {
	return uc.mutate(ctx, cartID, func(l *cart.Ledger) error {
		l.DecrementQuantity(id, size, color)
		return nil
	})
}

func (uc *CartUC) Remove(ctx context.Context, cartID string, id uuid.UUID, size, color string) (CartView, error) {
	return uc.mutate(ctx, cartID, func(l *cart.Ledger) error {
		l.RemoveItem(id, size, color)
		return nil
	})
}

func (uc *CartUC) Clear(ctx context.Context, cartID string) (CartView, error) {
	return uc.mutate(ctx, cartID, func(l *cart.Ledger) error {
		l.Clear()
		return nil
	})
}

// Drain hands the current cart to fn and empties it once fn succeeds. The
// cart stays locked meanwhile.
func (uc *CartUC) Drain(ctx context.Context, cartID string, fn func(CartView) error) error {
	_, err := uc.mutate(ctx, cartID, func(l *cart.Ledger) error {
		if err := fn(uc.view(l)); err != nil {
			return err
		}
		l.Clear()
		return nil
	})
	return err
}
