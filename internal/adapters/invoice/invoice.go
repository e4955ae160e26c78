// Package invoice renders an order as a one-page PDF invoice.
package invoice

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/phenrril/maison/internal/domain"
	"github.com/phenrril/maison/internal/money"
)

var (
	ink  = color.Color{Red: 24, Green: 24, Blue: 27}
	mute = color.Color{Red: 113, Green: 113, Blue: 122}
)

// Render lays out o under the store name and returns the PDF bytes.
func Render(o *domain.Order, store string) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 20, 20)

	text := func(s string, size float64, bold bool, c color.Color, align consts.Align) {
		p := props.Text{Size: size, Color: c, Align: align}
		if bold {
			p.Style = consts.Bold
		}
		m.Text(s, p)
	}
	amount := func(v int64) string { return money.FormatCode(v, o.Currency) }

	m.Row(14, func() {
		m.Col(8, func() { text(strings.ToUpper(store), 20, true, ink, consts.Left) })
		m.Col(4, func() { text("INVOICE", 14, true, ink, consts.Right) })
	})
	m.Row(6, func() {
		m.Col(6, func() { text(o.Name, 10, true, ink, consts.Left) })
		m.Col(6, func() { text("Order "+shortID(o), 9, false, mute, consts.Right) })
	})
	m.Row(5, func() {
		m.Col(6, func() { text(o.Email, 9, false, mute, consts.Left) })
		m.Col(6, func() { text(o.CreatedAt.Format("Jan 02, 2006"), 9, false, mute, consts.Right) })
	})
	if addr := strings.TrimSpace(strings.Join(nonEmpty(o.Address, o.City), ", ")); addr != "" {
		m.Row(5, func() {
			m.Col(12, func() { text(addr, 9, false, mute, consts.Left) })
		})
	}
	m.Row(8, func() {})

	m.Row(6, func() {
		m.Col(6, func() { text("Item", 8, true, ink, consts.Left) })
		m.Col(2, func() { text("Qty", 8, true, ink, consts.Right) })
		m.Col(2, func() { text("Price", 8, true, ink, consts.Right) })
		m.Col(2, func() { text("Total", 8, true, ink, consts.Right) })
	})
	for _, it := range o.Items {
		m.Row(6, func() {
			m.Col(6, func() { text(itemLabel(it), 9, false, ink, consts.Left) })
			m.Col(2, func() { text(fmt.Sprintf("%d", it.Qty), 9, false, ink, consts.Right) })
			m.Col(2, func() { text(amount(it.UnitPrice), 9, false, ink, consts.Right) })
			m.Col(2, func() { text(amount(it.LineTotal()), 9, false, ink, consts.Right) })
		})
	}
	m.Row(8, func() {})

	summary := func(label string, v string, bold bool) {
		m.Row(6, func() {
			m.Col(8, func() {})
			m.Col(2, func() { text(label, 9, bold, mute, consts.Right) })
			m.Col(2, func() { text(v, 9, bold, ink, consts.Right) })
		})
	}
	summary("Subtotal", amount(o.Subtotal), false)
	shipping := amount(o.ShippingFee)
	if o.ShippingFee == 0 {
		shipping = "Free"
	}
	summary("Shipping", shipping, false)
	summary("Total", amount(o.Total), true)

	out, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return out.Bytes(), nil
}

func shortID(o *domain.Order) string {
	return strings.ToUpper(o.ID.String()[:8])
}

func itemLabel(it domain.OrderItem) string {
	opts := nonEmpty(it.Size, it.Color)
	if len(opts) == 0 {
		return it.Title
	}
	return it.Title + " (" + strings.Join(opts, ", ") + ")"
}

func nonEmpty(vals ...string) []string {
	var out []string
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
