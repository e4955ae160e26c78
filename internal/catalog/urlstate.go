package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/phenrril/maison/internal/domain"
)

// URL parameter names. Shared links depend on them.
const (
	ParamCategory    = "category"
	ParamSubcategory = "subcategory"
	ParamColor       = "color"
	ParamSize        = "size"
	ParamPriceMin    = "priceMin"
	ParamPriceMax    = "priceMax"
	ParamSearch      = "search"
	ParamSort        = "sort"

	// UnboundedMax is the priceMax value of a range with no upper limit.
	UnboundedMax = "any"
)

// Encode writes q as flat query parameters. Absent fields are omitted and
// the default sort is not written, so Decode(Encode(q)) equals q.Normalize().
func Encode(q Query) url.Values {
	v := url.Values{}
	f := q.Filters
	if f.Category != "" {
		v.Set(ParamCategory, f.Category)
	}
	if f.Subcategory != "" {
		v.Set(ParamSubcategory, f.Subcategory)
	}
	if len(f.Colors) > 0 {
		v.Set(ParamColor, strings.Join(f.Colors, ","))
	}
	if len(f.Sizes) > 0 {
		v.Set(ParamSize, strings.Join(f.Sizes, ","))
	}
	if f.Price != nil {
		v.Set(ParamPriceMin, strconv.FormatInt(f.Price.Min, 10))
		if f.Price.Unbounded {
			v.Set(ParamPriceMax, UnboundedMax)
		} else {
			v.Set(ParamPriceMax, strconv.FormatInt(f.Price.Max, 10))
		}
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set(ParamSearch, s)
	}
	if k := ParseSortKey(string(q.Sort)); k != SortFeatured {
		v.Set(ParamSort, string(k))
	}
	return v
}

// Decode reads the parameters written by Encode. The returned Query is
// always usable. A malformed price range is dropped and reported with an
// error wrapping domain.ErrInvalidFilterInput.
func Decode(v url.Values) (Query, error) {
	q := Query{
		Filters: FilterState{
			Category:    strings.TrimSpace(v.Get(ParamCategory)),
			Subcategory: strings.TrimSpace(v.Get(ParamSubcategory)),
			Colors:      splitList(v.Get(ParamColor)),
			Sizes:       splitList(v.Get(ParamSize)),
		},
		Sort:   ParseSortKey(v.Get(ParamSort)),
		Search: strings.TrimSpace(v.Get(ParamSearch)),
	}
	pr, err := decodePrice(strings.TrimSpace(v.Get(ParamPriceMin)), strings.TrimSpace(v.Get(ParamPriceMax)))
	if err != nil {
		return q, err
	}
	q.Filters.Price = pr
	return q, nil
}

// DecodeString parses a raw query string; an unparsable one yields the
// default Query.
func DecodeString(raw string) (Query, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return Query{Sort: SortFeatured}, fmt.Errorf("%w: %v", domain.ErrInvalidFilterInput, err)
	}
	return Decode(v)
}

func decodePrice(minRaw, maxRaw string) (*PriceRange, error) {
	if minRaw == "" && maxRaw == "" {
		return nil, nil
	}
	if minRaw == "" || maxRaw == "" {
		return nil, fmt.Errorf("%w: %s and %s must be given together", domain.ErrInvalidFilterInput, ParamPriceMin, ParamPriceMax)
	}
	lo, err := strconv.ParseInt(minRaw, 10, 64)
	if err != nil || lo < 0 {
		return nil, fmt.Errorf("%w: %s=%q", domain.ErrInvalidFilterInput, ParamPriceMin, minRaw)
	}
	if maxRaw == UnboundedMax {
		return &PriceRange{Min: lo, Unbounded: true}, nil
	}
	hi, err := strconv.ParseInt(maxRaw, 10, 64)
	if err != nil || hi < 0 {
		return nil, fmt.Errorf("%w: %s=%q", domain.ErrInvalidFilterInput, ParamPriceMax, maxRaw)
	}
	if lo > hi {
		return nil, fmt.Errorf("%w: %s %d above %s %d", domain.ErrInvalidFilterInput, ParamPriceMin, lo, ParamPriceMax, hi)
	}
	return &PriceRange{Min: lo, Max: hi}, nil
}

// splitList splits a comma-joined list, dropping blanks and repeats.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		p := strings.TrimSpace(part)
		if p == "" || contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IsInvalidInput reports whether err came from malformed filter input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, domain.ErrInvalidFilterInput)
}
