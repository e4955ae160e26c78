package catalog

import (
	"sort"
	"strings"

	"github.com/phenrril/maison/internal/domain"
)

// SortKey names a listing order. The empty key sorts as SortFeatured.
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortNewest    SortKey = "newest"
	SortPopular   SortKey = "popular"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

// ParseSortKey maps unknown or empty input to SortFeatured.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNewest, SortPopular, SortPriceLow, SortPriceHigh:
		return k
	}
	return SortFeatured
}

// Sort returns a reordered copy of items. Equal keys keep their input order,
// and featured keeps the whole input order.
//
// newest and popular partition on the "new" and "best-seller" tags; there is
// no timestamp or sales metric behind them.
func Sort(items []domain.CatalogItem, key SortKey) []domain.CatalogItem {
	out := make([]domain.CatalogItem, len(items))
	copy(out, items)

	switch ParseSortKey(string(key)) {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortNewest:
		partition(out, domain.TagNew)
	case SortPopular:
		partition(out, domain.TagBestSeller)
	}
	return out
}

func partition(items []domain.CatalogItem, tag string) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].HasTag(tag) && !items[j].HasTag(tag)
	})
}
