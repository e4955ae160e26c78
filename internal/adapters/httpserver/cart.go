package httpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phenrril/maison/internal/cart"
	"github.com/phenrril/maison/internal/domain"
	"github.com/phenrril/maison/internal/money"
	"github.com/phenrril/maison/internal/usecase"
)

type addItemRequest struct {
	Slug     string `json:"slug" binding:"required"`
	Quantity *int   `json:"quantity"`
	Size     string `json:"size"`
	Color    string `json:"color"`
}

// lineRequest names a cart line by its identity.
type lineRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
}

type cartLineView struct {
	domain.CartLine
	LineTotal          int64  `json:"lineTotal"`
	FormattedUnitPrice string `json:"formattedUnitPrice"`
	FormattedLineTotal string `json:"formattedLineTotal"`
}

type formattedTotals struct {
	Subtotal          string `json:"subtotal"`
	ShippingFee       string `json:"shippingFee"`
	Total             string `json:"total"`
	UntilFreeShipping string `json:"untilFreeShipping"`
}

type cartResponse struct {
	Lines []cartLineView `json:"lines"`
	cart.Totals
	UntilFreeShipping int64           `json:"untilFreeShipping"`
	Formatted         formattedTotals `json:"formatted"`
}

func (s *Server) cartResponse(v usecase.CartView) cartResponse {
	t := v.Totals
	until := s.carts.Policy.UntilFreeShipping(t)
	out := cartResponse{
		Lines:             make([]cartLineView, 0, len(v.Lines)),
		Totals:            t,
		UntilFreeShipping: until,
		Formatted: formattedTotals{
			Subtotal:          money.Format(t.Subtotal, t.Currency),
			ShippingFee:       money.Format(t.ShippingFee, t.Currency),
			Total:             money.Format(t.Total, t.Currency),
			UntilFreeShipping: money.Format(until, t.Currency),
		},
	}
	for _, ln := range v.Lines {
		out.Lines = append(out.Lines, cartLineView{
			CartLine:           ln,
			LineTotal:          ln.LineTotal(),
			FormattedUnitPrice: money.Format(ln.UnitPrice, ln.Currency),
			FormattedLineTotal: money.Format(ln.LineTotal(), ln.Currency),
		})
	}
	return out
}

func (s *Server) emptyCart() usecase.CartView {
	return usecase.CartView{Totals: cart.Price(nil, s.carts.Policy)}
}

func (s *Server) getCart(c *gin.Context) {
	id := s.readCartID(c)
	if id == "" {
		success(c, http.StatusOK, "cart retrieved", s.cartResponse(s.emptyCart()))
		return
	}
	v, err := s.carts.Get(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	success(c, http.StatusOK, "cart retrieved", s.cartResponse(v))
}

func (s *Server) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "slug is required and quantity must be a whole number")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty > cart.MaxLineQuantity {
		fail(c, http.StatusBadRequest, fmt.Sprintf("quantity must be at most %d", cart.MaxLineQuantity))
		return
	}
	v, err := s.carts.Add(c.Request.Context(), s.cartID(c), req.Slug, qty, req.Size, req.Color)
	if err != nil {
		failErr(c, err)
		return
	}
	success(c, http.StatusOK, "cart updated", s.cartResponse(v))
}

type lineOp func(ctx context.Context, cartID string, id uuid.UUID, size, color string) (usecase.CartView, error)

// lineHandler applies op to the line named in the body. Without a cart
// cookie there is nothing to change and the empty cart is returned.
func (s *Server) lineHandler(op lineOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req lineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "productId is required")
			return
		}
		id := s.readCartID(c)
		if id == "" {
			success(c, http.StatusOK, "cart updated", s.cartResponse(s.emptyCart()))
			return
		}
		v, err := op(c.Request.Context(), id, req.ProductID, req.Size, req.Color)
		if err != nil {
			failErr(c, err)
			return
		}
		success(c, http.StatusOK, "cart updated", s.cartResponse(v))
	}
}

func (s *Server) clearCart(c *gin.Context) {
	id := s.readCartID(c)
	if id == "" {
		success(c, http.StatusOK, "cart cleared", s.cartResponse(s.emptyCart()))
		return
	}
	v, err := s.carts.Clear(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	success(c, http.StatusOK, "cart cleared", s.cartResponse(v))
}
