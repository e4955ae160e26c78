package httpserver

import (
	"bytes"
	"crypto/subtle"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/maison/internal/adapters/spreadsheet"
	"github.com/phenrril/maison/internal/domain"
	"github.com/phenrril/maison/internal/money"
)

const (
	adminTokenHeader = "X-Admin-Token"
	maxImportBytes   = 8 << 20
)

// requireAdmin accepts the token in X-Admin-Token or as a bearer token.
// With no token configured the admin API is closed.
func (s *Server) requireAdmin(c *gin.Context) {
	tok := c.GetHeader(adminTokenHeader)
	if tok == "" {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			tok = strings.TrimSpace(auth[7:])
		}
	}
	if s.opts.AdminToken == "" || subtle.ConstantTimeCompare([]byte(tok), []byte(s.opts.AdminToken)) != 1 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	c.Next()
}

func (s *Server) adminOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := s.orders.ListRecent(c.Request.Context(), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	out := make([]orderView, 0, len(list))
	for i := range list {
		out = append(out, newOrderView(&list[i]))
	}
	success(c, http.StatusOK, "orders retrieved", out)
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

func (s *Server) adminOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		fail(c, http.StatusBadRequest, "unknown order status")
		return
	}
	if err := s.orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		failErr(c, err)
		return
	}
	log.Info().Str("order", id.String()).Str("status", string(req.Status)).Msg("order status updated")
	success(c, http.StatusOK, "order updated", gin.H{"id": id, "status": req.Status})
}

type statsView struct {
	Orders           int64       `json:"orders"`
	Revenue          int64       `json:"revenue"`
	FormattedRevenue string      `json:"formattedRevenue"`
	CatalogSize      int         `json:"catalogSize"`
	InStock          int         `json:"inStock"`
	Recent           []orderView `json:"recent"`
}

func (s *Server) adminStats(c *gin.Context) {
	ctx := c.Request.Context()
	d, err := s.orders.Dashboard(ctx)
	if err != nil {
		failErr(c, err)
		return
	}
	items, err := s.catalog.Snapshot(ctx)
	if err != nil {
		failErr(c, err)
		return
	}
	out := statsView{
		Orders:           d.Stats.Orders,
		Revenue:          d.Stats.Revenue,
		FormattedRevenue: money.Format(d.Stats.Revenue, s.carts.Policy.Currency),
		CatalogSize:      len(items),
		Recent:           make([]orderView, 0, len(d.Recent)),
	}
	for _, it := range items {
		if it.InStock {
			out.InStock++
		}
	}
	for i := range d.Recent {
		out.Recent = append(out.Recent, newOrderView(&d.Recent[i]))
	}
	success(c, http.StatusOK, "stats retrieved", out)
}

// adminImport reads a multipart "file" field holding an .xlsx or .csv sheet.
func (s *Server) adminImport(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required")
		return
	}
	if fh.Size > maxImportBytes {
		fail(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		failErr(c, err)
		return
	}
	defer f.Close()

	var items []domain.CatalogItem
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".xlsx":
		items, err = spreadsheet.ReadXLSX(f)
	case ".csv":
		items, err = spreadsheet.ReadCSV(f)
	default:
		fail(c, http.StatusBadRequest, "expected an .xlsx or .csv file")
		return
	}
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := s.catalog.Import(c.Request.Context(), items)
	if err != nil {
		failErr(c, err)
		return
	}
	success(c, http.StatusOK, "catalog imported", rep)
}

func exportName(ext string) string {
	return fmt.Sprintf("catalog-%s.%s", time.Now().Format("20060102"), ext)
}

func (s *Server) adminExportXLSX(c *gin.Context) {
	items, err := s.catalog.Snapshot(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	var buf bytes.Buffer
	if err := spreadsheet.WriteXLSX(&buf, items); err != nil {
		failErr(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+exportName("xlsx")+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (s *Server) adminExportCSV(c *gin.Context) {
	items, err := s.catalog.Snapshot(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	var buf bytes.Buffer
	if err := spreadsheet.WriteCSV(&buf, items); err != nil {
		failErr(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+exportName("csv")+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

type positionRequest struct {
	Position *int `json:"position" binding:"required"`
}

func (s *Server) adminSetPosition(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "position is required")
		return
	}
	slug := c.Param("slug")
	if err := s.catalog.SetPosition(c.Request.Context(), slug, *req.Position); err != nil {
		failErr(c, err)
		return
	}
	success(c, http.StatusOK, "position updated", gin.H{"slug": slug, "position": *req.Position})
}

func (s *Server) adminDeleteProduct(c *gin.Context) {
	slug := c.Param("slug")
	if err := s.catalog.DeleteBySlug(c.Request.Context(), slug); err != nil {
		failErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
