package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/phenrril/maison/internal/domain"
)

const recentOrdersLimit = 20

type OrderUC struct {
	Orders domain.OrderRepo
	Carts  *CartUC

	now func() time.Time
}

func NewOrderUC(orders domain.OrderRepo, carts *CartUC) *OrderUC {
	return &OrderUC{Orders: orders, Carts: carts, now: time.Now}
}

// Checkout turns the cart into an order awaiting payment and empties the
// cart. Totals are taken as priced at this moment. Once the order is saved
// the checkout succeeds even if the cart could not be emptied.
func (uc *OrderUC) Checkout(ctx context.Context, cartID string, c domain.Customer) (*domain.Order, error) {
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var order *domain.Order
	err := uc.Carts.Drain(ctx, cartID, func(v CartView) error {
		if len(v.Lines) == 0 {
			return domain.ErrEmptyCart
		}
		o := newOrder(v, c, uc.now())
		if err := uc.Orders.Save(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		if order == nil {
			return nil, err
		}
		log.Warn().Err(err).
			Str("order", order.ID.String()).
			Str("cart", cartID).
			Msg("order saved but cart not emptied")
	}
	log.Info().
		Str("order", order.ID.String()).
		Int64("total", order.Total).
		Str("currency", order.Currency).
		Msg("order created")
	return order, nil
}

func newOrder(v CartView, c domain.Customer, now time.Time) *domain.Order {
	o := &domain.Order{
		ID:          uuid.New(),
		Status:      domain.OrderStatusAwaitingPay,
		Email:       c.Email,
		Name:        c.Name,
		Phone:       c.Phone,
		Address:     c.Address,
		City:        c.City,
		Currency:    v.Totals.Currency,
		Subtotal:    v.Totals.Subtotal,
		ShippingFee: v.Totals.ShippingFee,
		Total:       v.Totals.Total,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, ln := range v.Lines {
		o.Items = append(o.Items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: ln.ProductID,
			Slug:      ln.Slug,
			Title:     ln.Name,
			Size:      ln.Size,
			Color:     ln.Color,
			Qty:       ln.Quantity,
			UnitPrice: ln.UnitPrice,
		})
	}
	return o
}

func (uc *OrderUC) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if id == uuid.Nil {
		return nil, errors.New("empty order id")
	}
	return uc.Orders.FindByID(ctx, id)
}

func (uc *OrderUC) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = recentOrdersLimit
	}
	return uc.Orders.ListRecent(ctx, limit)
}

func (uc *OrderUC) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	if !status.Valid() {
		return errors.New("unknown order status")
	}
	return uc.Orders.UpdateStatus(ctx, id, status)
}

// Dashboard is the admin overview.
type Dashboard struct {
	Stats  domain.OrderStats `json:"stats"`
	Recent []domain.Order    `json:"recent"`
}

func (uc *OrderUC) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := uc.Orders.Stats(gctx)
		d.Stats = s
		return err
	})
	g.Go(func() error {
		list, err := uc.Orders.ListRecent(gctx, recentOrdersLimit)
		d.Recent = list
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
