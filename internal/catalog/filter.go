package catalog

import "github.com/phenrril/maison/internal/domain"

// PriceRange bounds item prices in minor units, both ends inclusive.
// Unbounded drops the upper limit and Max is ignored.
type PriceRange struct {
	Min       int64
	Max       int64
	Unbounded bool
}

func (r PriceRange) Contains(price int64) bool {
	if price < r.Min {
		return false
	}
	return r.Unbounded || price <= r.Max
}

// FilterState holds the browsing constraints of one session. Empty fields
// do not constrain.
type FilterState struct {
	Category    string
	Subcategory string
	Colors      []string
	Sizes       []string
	Price       *PriceRange
}

// ClearCategory also drops the subcategory, which only makes sense under it.
func (f FilterState) ClearCategory() FilterState {
	f.Category = ""
	f.Subcategory = ""
	return f
}

func (f FilterState) ClearSubcategory() FilterState {
	f.Subcategory = ""
	return f
}

func (f FilterState) ClearPrice() FilterState {
	f.Price = nil
	return f
}

// ToggleColor adds c when absent and removes it otherwise.
func (f FilterState) ToggleColor(c string) FilterState {
	f.Colors = toggle(f.Colors, c)
	return f
}

func (f FilterState) ToggleSize(s string) FilterState {
	f.Sizes = toggle(f.Sizes, s)
	return f
}

func toggle(set []string, v string) []string {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, s := range set {
		if s == v {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ActiveFilterCount counts category, subcategory and price range once each,
// plus one per selected color and size.
func (f FilterState) ActiveFilterCount() int {
	n := len(f.Colors) + len(f.Sizes)
	if f.Category != "" {
		n++
	}
	if f.Subcategory != "" {
		n++
	}
	if f.Price != nil {
		n++
	}
	return n
}

// Matches reports whether it satisfies every active constraint.
func (f FilterState) Matches(it domain.CatalogItem) bool {
	if f.Category != "" && it.Category != f.Category {
		return false
	}
	if f.Subcategory != "" && it.Subcategory != f.Subcategory {
		return false
	}
	if len(f.Colors) > 0 && !contains(f.Colors, it.Color) {
		return false
	}
	if len(f.Sizes) > 0 && !anySize(it, f.Sizes) {
		return false
	}
	if f.Price != nil && !f.Price.Contains(it.Price) {
		return false
	}
	return true
}

// ApplyFilters keeps the items matching f, in input order.
func ApplyFilters(items []domain.CatalogItem, f FilterState) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(items))
	for _, it := range items {
		if f.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func anySize(it domain.CatalogItem, sizes []string) bool {
	for _, s := range sizes {
		if it.HasSize(s) {
			return true
		}
	}
	return false
}
