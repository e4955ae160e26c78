package catalog

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/phenrril/maison/internal/domain"
)

var (
	propCategories    = []string{"", "ready-to-wear", "jewelry", "accessories"}
	propSubcategories = []string{"", "dresses", "rings", "scarves"}
	propColors        = []string{"black", "ivory", "gold", "camel"}
	propSizes         = []string{"XS", "S", "M", "L"}
	propSorts         = []SortKey{SortFeatured, SortNewest, SortPopular, SortPriceLow, SortPriceHigh}
)

// catalogFrom derives a deterministic catalog from generated prices.
func catalogFrom(prices []int64) []domain.CatalogItem {
	items := make([]domain.CatalogItem, len(prices))
	for i, p := range prices {
		it := domain.CatalogItem{
			ID:          uuid.New(),
			Slug:        fmt.Sprintf("item-%d", i),
			Name:        fmt.Sprintf("Item %d", i),
			Category:    propCategories[1+i%3],
			Subcategory: propSubcategories[(i/2)%4],
			Price:       p,
			Currency:    "NGN",
			Color:       propColors[int(p)%4],
		}
		for b, s := range propSizes {
			if (i+int(p))&(1<<b) != 0 {
				it.Sizes = append(it.Sizes, s)
			}
		}
		if p%3 == 0 {
			it.Tags = append(it.Tags, domain.TagNew)
		}
		if p%5 == 0 {
			it.Tags = append(it.Tags, domain.TagBestSeller)
		}
		items[i] = it
	}
	return items
}

func pick(set []string, mask int) []string {
	var out []string
	for b, s := range set {
		if mask&(1<<b) != 0 {
			out = append(out, s)
		}
	}
	return out
}

func filterFrom(cat, sub, colorMask, sizeMask int, withPrice bool, lo, span int64) FilterState {
	f := FilterState{
		Category:    propCategories[cat],
		Subcategory: propSubcategories[sub],
		Colors:      pick(propColors, colorMask),
		Sizes:       pick(propSizes, sizeMask),
	}
	if withPrice {
		f.Price = &PriceRange{Min: lo, Max: lo + span}
	}
	return f
}

func TestFilterProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("filtered items are a matching subsequence of the catalog", prop.ForAll(
		func(prices []int64, cat, sub, colorMask, sizeMask int, withPrice bool, lo, span int64) bool {
			items := catalogFrom(prices)
			f := filterFrom(cat, sub, colorMask, sizeMask, withPrice, lo, span)
			out := ApplyFilters(items, f)

			want := 0
			for _, it := range items {
				if f.Matches(it) {
					want++
				}
			}
			if len(out) != want {
				return false
			}
			j := 0
			for _, it := range out {
				if !f.Matches(it) {
					return false
				}
				for j < len(items) && items[j].ID != it.ID {
					j++
				}
				if j == len(items) {
					return false
				}
				j++
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(1, 1000)),
		gen.IntRange(0, 3), gen.IntRange(0, 3),
		gen.IntRange(0, 15), gen.IntRange(0, 15),
		gen.Bool(), gen.Int64Range(0, 1000), gen.Int64Range(0, 1000),
	))

	properties.TestingRun(t)
}

func TestSortProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("price sorts are stable", prop.ForAll(
		func(prices []int64, high bool) bool {
			items := catalogFrom(prices)
			key := SortPriceLow
			if high {
				key = SortPriceHigh
			}
			out := Sort(items, key)
			if len(out) != len(items) {
				return false
			}
			pos := map[uuid.UUID]int{}
			for i, it := range items {
				pos[it.ID] = i
			}
			for i := 1; i < len(out); i++ {
				a, b := out[i-1], out[i]
				if high && a.Price < b.Price || !high && a.Price > b.Price {
					return false
				}
				if a.Price == b.Price && pos[a.ID] > pos[b.ID] {
					return false
				}
			}
			return true
		},
		// a narrow range forces ties
		gen.SliceOf(gen.Int64Range(1, 5)),
		gen.Bool(),
	))

	properties.Property("tag partitions keep relative order on both sides", prop.ForAll(
		func(prices []int64, popular bool) bool {
			items := catalogFrom(prices)
			key, tag := SortNewest, domain.TagNew
			if popular {
				key, tag = SortPopular, domain.TagBestSeller
			}
			var tagged, rest []uuid.UUID
			for _, it := range items {
				if it.HasTag(tag) {
					tagged = append(tagged, it.ID)
				} else {
					rest = append(rest, it.ID)
				}
			}
			var got []uuid.UUID
			for _, it := range Sort(items, key) {
				got = append(got, it.ID)
			}
			return reflect.DeepEqual(got, append(tagged, rest...))
		},
		gen.SliceOf(gen.Int64Range(1, 100)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestSearchMonotonic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	words := []string{"item", "ready", "jewelry", "black", "gold", "new", "silk", "rings"}

	properties.Property("an extra token adds to matching items only", prop.ForAll(
		func(prices []int64, base, extra int) bool {
			items := catalogFrom(prices)
			q := words[base]
			tok := words[extra]
			for _, it := range items {
				before := Score(it, q)
				after := Score(it, q+" "+tok)
				if after < before {
					return false
				}
				if scoreTokens(it, []string{tok})-bonus(it) == 0 && after != before {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(1, 100)),
		gen.IntRange(0, len(words)-1),
		gen.IntRange(0, len(words)-1),
	))

	properties.TestingRun(t)
}

func bonus(it domain.CatalogItem) int {
	b := 0
	if it.HasTag(domain.TagNew) {
		b += bonusNew
	}
	if it.HasTag(domain.TagBestSeller) {
		b += bonusBestSeller
	}
	return b
}

func TestURLRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	sorts := append([]SortKey{""}, propSorts...)
	properties.Property("Decode(Encode(q)) == q.Normalize()", prop.ForAll(
		func(cat, sub, colorMask, sizeMask int, withPrice, unbounded bool, lo, span int64, search string, sortIdx int) bool {
			f := filterFrom(cat, sub, colorMask, sizeMask, withPrice, lo, span)
			if f.Price != nil && unbounded {
				f.Price = &PriceRange{Min: lo, Unbounded: true}
			}
			q := Query{Filters: f, Sort: sorts[sortIdx], Search: search}
			got, err := Decode(Encode(q))
			return err == nil && reflect.DeepEqual(q.Normalize(), got)
		},
		gen.IntRange(0, 3), gen.IntRange(0, 3),
		gen.IntRange(0, 15), gen.IntRange(0, 15),
		gen.Bool(), gen.Bool(),
		gen.Int64Range(0, 1000000), gen.Int64Range(0, 1000000),
		gen.AlphaString(),
		gen.IntRange(0, len(sorts)-1),
	))

	properties.TestingRun(t)
}
