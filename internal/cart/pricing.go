package cart

import "github.com/phenrril/maison/internal/domain"

// Defaults in minor units of the default currency.
const (
	FreeShippingThreshold int64 = 5_000_000
	FlatShippingFee       int64 = 200_000
	DefaultCurrency             = "NGN"
)

// Policy holds the shipping rule a cart is priced with.
type Policy struct {
	FreeShippingThreshold int64
	FlatShippingFee       int64
	Currency              string
}

func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: FreeShippingThreshold,
		FlatShippingFee:       FlatShippingFee,
		Currency:              DefaultCurrency,
	}
}

// Totals are derived from the lines on every read and never stored.
type Totals struct {
	Items       int    `json:"totalItems"`
	Subtotal    int64  `json:"subtotal"`
	ShippingFee int64  `json:"shippingFee"`
	Total       int64  `json:"total"`
	Currency    string `json:"currency"`
}

// Price sums lines under p. Shipping is free at or above the threshold and
// the flat fee otherwise, empty carts included. The currency is that of the
// first line, or p.Currency for an empty cart.
func Price(lines []domain.CartLine, p Policy) Totals {
	t := Totals{Currency: p.Currency}
	for i, ln := range lines {
		if i == 0 && ln.Currency != "" {
			t.Currency = ln.Currency
		}
		t.Items += ln.Quantity
		t.Subtotal += ln.LineTotal()
	}
	if t.Subtotal < p.FreeShippingThreshold {
		t.ShippingFee = p.FlatShippingFee
	}
	t.Total = t.Subtotal + t.ShippingFee
	return t
}

// UntilFreeShipping is how much more the cart must hold before shipping
// becomes free. It is zero for an empty cart or one already past the
// threshold.
func (p Policy) UntilFreeShipping(t Totals) int64 {
	if t.Items == 0 || t.Subtotal >= p.FreeShippingThreshold {
		return 0
	}
	return p.FreeShippingThreshold - t.Subtotal
}
