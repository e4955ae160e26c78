// Package catalog filters, searches and sorts a catalog snapshot and maps the
// browsing state to and from URL query parameters.
package catalog

import (
	"strings"

	"github.com/phenrril/maison/internal/domain"
)

// Query is the full browsing state of a product listing. The zero Sort
// means SortFeatured.
type Query struct {
	Filters FilterState
	Sort    SortKey
	Search  string
}

// Normalize resolves the sort key and trims the search, giving q the form
// Decode reads back from Encode.
func (q Query) Normalize() Query {
	q.Sort = ParseSortKey(string(q.Sort))
	q.Search = strings.TrimSpace(q.Search)
	return q
}

type Result struct {
	Items         []domain.CatalogItem
	Count         int
	ActiveFilters int
}

// Run filters, then searches the filtered set, then sorts the search output.
func Run(items []domain.CatalogItem, q Query) Result {
	q = q.Normalize()
	list := ApplyFilters(items, q.Filters)
	if q.Search != "" {
		list = Search(list, q.Search)
	}
	list = Sort(list, q.Sort)
	return Result{
		Items:         list,
		Count:         len(list),
		ActiveFilters: q.Filters.ActiveFilterCount(),
	}
}
