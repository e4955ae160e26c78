package catalog

import (
	"sort"

	"github.com/phenrril/maison/internal/domain"
)

// Facets describes the filter choices a snapshot offers.
type Facets struct {
	Categories   []CategoryFacet `json:"categories"`
	Colors       []ValueCount    `json:"colors"`
	Sizes        []ValueCount    `json:"sizes"`
	PriceRange   *PriceBounds    `json:"priceRange"`
	Availability Availability    `json:"availability"`
}

type CategoryFacet struct {
	Name          string   `json:"name"`
	Count         int      `json:"count"`
	Subcategories []string `json:"subcategories,omitempty"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type PriceBounds struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

type Availability struct {
	InStock    int `json:"inStock"`
	OutOfStock int `json:"outOfStock"`
}

// BuildFacets aggregates items. Categories, colors and sizes come back sorted
// by name.
func BuildFacets(items []domain.CatalogItem) Facets {
	cats := map[string]*CategoryFacet{}
	subs := map[string]map[string]struct{}{}
	colors := map[string]int{}
	sizes := map[string]int{}
	var f Facets

	for _, it := range items {
		if it.Category != "" {
			c, ok := cats[it.Category]
			if !ok {
				c = &CategoryFacet{Name: it.Category}
				cats[it.Category] = c
				subs[it.Category] = map[string]struct{}{}
			}
			c.Count++
			if it.Subcategory != "" {
				subs[it.Category][it.Subcategory] = struct{}{}
			}
		}
		if it.Color != "" {
			colors[it.Color]++
		}
		for _, s := range it.Sizes {
			sizes[s]++
		}
		if f.PriceRange == nil {
			f.PriceRange = &PriceBounds{Min: it.Price, Max: it.Price}
		} else {
			if it.Price < f.PriceRange.Min {
				f.PriceRange.Min = it.Price
			}
			if it.Price > f.PriceRange.Max {
				f.PriceRange.Max = it.Price
			}
		}
		if it.InStock {
			f.Availability.InStock++
		} else {
			f.Availability.OutOfStock++
		}
	}

	f.Categories = make([]CategoryFacet, 0, len(cats))
	for name, c := range cats {
		for s := range subs[name] {
			c.Subcategories = append(c.Subcategories, s)
		}
		sort.Strings(c.Subcategories)
		f.Categories = append(f.Categories, *c)
	}
	sort.Slice(f.Categories, func(i, j int) bool { return f.Categories[i].Name < f.Categories[j].Name })
	f.Colors = sortedCounts(colors)
	f.Sizes = sortedCounts(sizes)
	return f
}

func sortedCounts(m map[string]int) []ValueCount {
	out := make([]ValueCount, 0, len(m))
	for v, n := range m {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
