package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/maison/internal/catalog"
)

func TestListProducts(t *testing.T) {
	env := newTestEnv(t, Options{})

	tests := []struct {
		name   string
		query  string
		slugs  []string
		active int
		canon  string
	}{
		{
			name:  "featured order",
			slugs: []string{"silk-slip-dress", "cashmere-wrap", "gold-cuff", "leather-tote"},
		},
		{
			name:   "category",
			query:  "?category=ready-to-wear",
			slugs:  []string{"silk-slip-dress"},
			active: 1,
			canon:  "category=ready-to-wear",
		},
		{
			name:   "colour and price high",
			query:  "?sort=price-high&color=black",
			slugs:  []string{"leather-tote", "silk-slip-dress"},
			active: 1,
			canon:  "color=black&sort=price-high",
		},
		{
			name:   "unbounded price",
			query:  "?priceMin=1000000&priceMax=any&sort=price-low",
			slugs:  []string{"leather-tote", "gold-cuff"},
			active: 1,
			canon:  "priceMax=any&priceMin=1000000&sort=price-low",
		},
		{
			name:  "search",
			query: "?search=cashmere",
			slugs: []string{"cashmere-wrap", "gold-cuff", "silk-slip-dress"},
			canon: "search=cashmere",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, request{method: http.MethodGet, path: "/api/v1/store/products" + tt.query})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var out productList
			res := decode(t, rec, &out)
			assert.Empty(t, res.Warnings)
			var slugs []string
			for _, it := range out.Items {
				slugs = append(slugs, it.Slug)
			}
			assert.Equal(t, tt.slugs, slugs)
			assert.Equal(t, len(tt.slugs), out.Count)
			assert.Equal(t, tt.active, out.ActiveFilters)
			assert.Equal(t, tt.canon, out.Query)

			again, err := catalog.DecodeString(out.Query)
			require.NoError(t, err)
			assert.Equal(t, out.Query, catalog.Encode(again).Encode())
		})
	}
}

func TestListProductsServesDegradedQuery(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, request{method: http.MethodGet, path: "/api/v1/store/products?category=jewelry&priceMin=900&priceMax=100"})
	require.Equal(t, http.StatusOK, rec.Code)

	var out productList
	res := decode(t, rec, &out)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "invalid filter input")
	require.Len(t, out.Items, 1)
	assert.Equal(t, "gold-cuff", out.Items[0].Slug)
	assert.Equal(t, "category=jewelry", out.Query)
}

func TestListProductsFormatsPrices(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, request{method: http.MethodGet, path: "/api/v1/store/products?search=gold"})
	var out productList
	decode(t, rec, &out)
	require.NotEmpty(t, out.Items)
	assert.Equal(t, "gold-cuff", out.Items[0].Slug)
	assert.Equal(t, "₦25,000.00", out.Items[0].FormattedPrice)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, request{method: http.MethodGet, path: "/api/v1/store/products/cashmere-wrap"})
	require.Equal(t, http.StatusOK, rec.Code)
	var p productView
	decode(t, rec, &p)
	assert.Equal(t, "Cashmere Wrap", p.Name)

	rec = env.do(t, request{method: http.MethodGet, path: "/api/v1/store/products/nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, decode(t, rec, nil).Error)
}

func TestFiltersMetadata(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, request{method: http.MethodGet, path: "/api/v1/store/filters/metadata"})
	require.Equal(t, http.StatusOK, rec.Code)

	var f catalog.Facets
	decode(t, rec, &f)
	require.Len(t, f.Categories, 4)
	assert.Equal(t, "accessories", f.Categories[0].Name)
	require.NotNil(t, f.PriceRange)
	assert.Equal(t, int64(300_000), f.PriceRange.Min)
	assert.Equal(t, int64(2_500_000), f.PriceRange.Max)
	assert.Equal(t, 3, f.Availability.InStock)
	assert.Equal(t, 1, f.Availability.OutOfStock)
}
