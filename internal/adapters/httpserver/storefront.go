package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/maison/internal/catalog"
	"github.com/phenrril/maison/internal/domain"
	"github.com/phenrril/maison/internal/money"
)

type productView struct {
	domain.CatalogItem
	FormattedPrice string `json:"formattedPrice"`
}

func newProductView(it domain.CatalogItem) productView {
	return productView{CatalogItem: it, FormattedPrice: money.Format(it.Price, it.Currency)}
}

type productList struct {
	Items         []productView `json:"items"`
	Count         int           `json:"count"`
	ActiveFilters int           `json:"activeFilters"`
	Sort          string        `json:"sort"`
	Query         string        `json:"query"`
}

// listProducts runs the catalog pipeline for the URL state. A malformed
// price range is dropped and reported as a warning; the listing is still
// served.
func (s *Server) listProducts(c *gin.Context) {
	q, qerr := catalog.DecodeString(c.Request.URL.RawQuery)
	var warnings []string
	if qerr != nil {
		log.Warn().Err(qerr).Str("query", c.Request.URL.RawQuery).Msg("invalid filter input")
		warnings = append(warnings, qerr.Error())
	}

	res, err := s.catalog.Query(c.Request.Context(), q)
	if err != nil {
		failErr(c, err)
		return
	}
	out := productList{
		Items:         make([]productView, 0, len(res.Items)),
		Count:         res.Count,
		ActiveFilters: res.ActiveFilters,
		Sort:          string(catalog.ParseSortKey(string(q.Sort))),
		Query:         catalog.Encode(q).Encode(),
	}
	for _, it := range res.Items {
		out.Items = append(out.Items, newProductView(it))
	}
	success(c, http.StatusOK, "products retrieved", out, warnings...)
}

func (s *Server) getProduct(c *gin.Context) {
	it, err := s.catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		failErr(c, err)
		return
	}
	success(c, http.StatusOK, "product retrieved", newProductView(*it))
}

func (s *Server) filtersMetadata(c *gin.Context) {
	f, err := s.catalog.Facets(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	success(c, http.StatusOK, "filters retrieved", f)
}
