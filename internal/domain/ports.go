package domain

import (
	"context"

	"github.com/google/uuid"
)

type CatalogRepo interface {
	List(ctx context.Context) ([]CatalogItem, error)
	Save(ctx context.Context, it *CatalogItem) error
	DeleteBySlug(ctx context.Context, slug string) error
	// SetPosition moves an item within the featured order.
	SetPosition(ctx context.Context, slug string, position int) error
}

// CartStore persists the full line list of a cart. Loading an unknown cart
// yields no lines and no error.
type CartStore interface {
	Load(ctx context.Context, cartID string) ([]CartLine, error)
	Save(ctx context.Context, cartID string, lines []CartLine) error
	Delete(ctx context.Context, cartID string) error
}

type OrderRepo interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListRecent(ctx context.Context, limit int) ([]Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus) error
	Stats(ctx context.Context) (OrderStats, error)
}

type OrderStats struct {
	Orders  int64 `json:"orders"`
	Revenue int64 `json:"revenue"`
}
