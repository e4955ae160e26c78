// Package cart keeps the line items of one shopping cart and prices them.
package cart

import (
	"sync"

	"github.com/google/uuid"

	"github.com/phenrril/maison/internal/domain"
)

// MaxLineQuantity caps the units held on a single line.
const MaxLineQuantity = 99

// Ledger owns the lines of a single cart. Lines keep the order in which
// their identity was first added. All methods are safe for concurrent use
// and mutations are applied one at a time.
//
// onChange, when set, receives a copy of the lines after every mutation
// that changed them. It runs while the ledger is locked and must not call
// back into the Ledger.
type Ledger struct {
	mu       sync.Mutex
	lines    []domain.CartLine
	onChange func([]domain.CartLine)
}

// NewLedger starts a ledger from previously persisted lines. Lines with a
// non-positive quantity are dropped, repeated identities are merged and
// quantities are held to MaxLineQuantity.
func NewLedger(lines []domain.CartLine, onChange func([]domain.CartLine)) *Ledger {
	l := &Ledger{onChange: onChange}
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			continue
		}
		ln.Quantity = min(ln.Quantity, MaxLineQuantity)
		if i := l.index(ln.Key()); i >= 0 {
			l.lines[i].Quantity = min(l.lines[i].Quantity+ln.Quantity, MaxLineQuantity)
			continue
		}
		l.lines = append(l.lines, ln)
	}
	return l
}

func (l *Ledger) index(k domain.LineKey) int {
	for i, ln := range l.lines {
		if ln.Key() == k {
			return i
		}
	}
	return -1
}

func (l *Ledger) changed() {
	if l.onChange != nil {
		l.onChange(l.snapshot())
	}
}

func (l *Ledger) snapshot() []domain.CartLine {
	out := make([]domain.CartLine, len(l.lines))
	copy(out, l.lines)
	return out
}

// AddItem adds qty units of p with the given options. An existing line with
// the same identity grows by qty and keeps its captured price. qty <= 0, or
// a line that would pass MaxLineQuantity, is rejected and reported as false.
func (l *Ledger) AddItem(p domain.CatalogItem, qty int, size, color string) bool {
	if qty <= 0 || qty > MaxLineQuantity {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	k := domain.LineKey{ProductID: p.ID, Size: size, Color: color}
	if i := l.index(k); i >= 0 {
		if l.lines[i].Quantity > MaxLineQuantity-qty {
			return false
		}
		l.lines[i].Quantity += qty
	} else {
		l.lines = append(l.lines, domain.CartLine{
			ProductID: p.ID,
			Size:      size,
			Color:     color,
			Quantity:  qty,
			UnitPrice: p.Price,
			Currency:  p.Currency,
			Name:      p.Name,
			Image:     p.Image,
			Slug:      p.Slug,
		})
	}
	l.changed()
	return true
}

// IncrementQuantity adds one unit to the matching line. It reports false
// when no line matches or the line is already at MaxLineQuantity.
func (l *Ledger) IncrementQuantity(id uuid.UUID, size, color string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(domain.LineKey{ProductID: id, Size: size, Color: color})
	if i < 0 || l.lines[i].Quantity >= MaxLineQuantity {
		return false
	}
	l.lines[i].Quantity++
	l.changed()
	return true
}

// DecrementQuantity takes one unit off the matching line and removes the
// line instead of leaving it at zero.
func (l *Ledger) DecrementQuantity(id uuid.UUID, size, color string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(domain.LineKey{ProductID: id, Size: size, Color: color})
	if i < 0 {
		return false
	}
	if l.lines[i].Quantity <= 1 {
		l.lines = append(l.lines[:i], l.lines[i+1:]...)
	} else {
		l.lines[i].Quantity--
	}
	l.changed()
	return true
}

func (l *Ledger) RemoveItem(id uuid.UUID, size, color string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(domain.LineKey{ProductID: id, Size: size, Color: color})
	if i < 0 {
		return false
	}
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	l.changed()
	return true
}

// Clear empties the cart. Clearing an empty cart is not a change.
func (l *Ledger) Clear() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.lines) == 0 {
		return false
	}
	l.lines = nil
	l.changed()
	return true
}

// TotalItems sums quantities, not lines.
func (l *Ledger) TotalItems() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, ln := range l.lines {
		n += ln.Quantity
	}
	return n
}

// Lines returns a copy of the current lines.
func (l *Ledger) Lines() []domain.CartLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Ledger) Totals(p Policy) Totals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Price(l.lines, p)
}
