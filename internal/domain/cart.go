package domain

import "github.com/google/uuid"

// LineKey is the identity of a cart line. Empty Size or Color means the
// product was added without that option.
type LineKey struct {
	ProductID uuid.UUID `json:"productId"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
}

type CartLine struct {
	ProductID uuid.UUID `json:"productId"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unitPrice"`
	Currency  string    `json:"currency"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	Slug      string    `json:"slug"`
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

func (l CartLine) LineTotal() int64 { return l.UnitPrice * int64(l.Quantity) }
