package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phenrril/maison/internal/adapters/invoice"
	"github.com/phenrril/maison/internal/domain"
	"github.com/phenrril/maison/internal/money"
)

type orderView struct {
	*domain.Order
	Formatted formattedTotals `json:"formatted"`
}

func newOrderView(o *domain.Order) orderView {
	return orderView{
		Order: o,
		Formatted: formattedTotals{
			Subtotal:    money.Format(o.Subtotal, o.Currency),
			ShippingFee: money.Format(o.ShippingFee, o.Currency),
			Total:       money.Format(o.Total, o.Currency),
		},
	}
}

func (s *Server) checkout(c *gin.Context) {
	var cust domain.Customer
	if err := c.ShouldBindJSON(&cust); err != nil {
		fail(c, http.StatusBadRequest, "invalid customer details")
		return
	}
	id := s.readCartID(c)
	if id == "" {
		failErr(c, domain.ErrEmptyCart)
		return
	}
	o, err := s.orders.Checkout(c.Request.Context(), id, cust)
	if err != nil {
		failErr(c, err)
		return
	}
	success(c, http.StatusCreated, "order placed", newOrderView(o))
}

func (s *Server) loadOrder(c *gin.Context) (*domain.Order, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return nil, false
	}
	o, err := s.orders.Get(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return nil, false
	}
	return o, true
}

func (s *Server) getOrder(c *gin.Context) {
	o, ok := s.loadOrder(c)
	if !ok {
		return
	}
	success(c, http.StatusOK, "order retrieved", newOrderView(o))
}

func (s *Server) orderInvoice(c *gin.Context) {
	o, ok := s.loadOrder(c)
	if !ok {
		return
	}
	b, err := invoice.Render(o, s.opts.StoreName)
	if err != nil {
		failErr(c, fmt.Errorf("render invoice %s: %w", o.ID, err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="invoice-%s.pdf"`, o.ID.String()[:8]))
	c.Data(http.StatusOK, "application/pdf", b)
}
