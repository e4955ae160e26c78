// Package spreadsheet moves the catalog in and out of CSV and XLSX files
// for bulk editing.
package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phenrril/maison/internal/domain"
)

// listSeparator joins sizes and tags inside one cell.
const listSeparator = "|"

// Row is the flat sheet form of a catalog item. The csv tags are also the
// XLSX header names.
type Row struct {
	Slug        string `csv:"slug"`
	Name        string `csv:"name"`
	Category    string `csv:"category"`
	Subcategory string `csv:"subcategory"`
	Price       int64  `csv:"price"`
	Currency    string `csv:"currency"`
	Color       string `csv:"color"`
	Sizes       string `csv:"sizes"`
	Material    string `csv:"material"`
	Tags        string `csv:"tags"`
	Description string `csv:"description"`
	InStock     bool   `csv:"in_stock"`
	SKU         string `csv:"sku"`
	Image       string `csv:"image"`
	Position    int    `csv:"position"`
}

var header = []string{
	"slug", "name", "category", "subcategory", "price", "currency", "color", "sizes",
	"material", "tags", "description", "in_stock", "sku", "image", "position",
}

func FromItem(it domain.CatalogItem) Row {
	return Row{
		Slug:        it.Slug,
		Name:        it.Name,
		Category:    it.Category,
		Subcategory: it.Subcategory,
		Price:       it.Price,
		Currency:    it.Currency,
		Color:       it.Color,
		Sizes:       strings.Join(it.Sizes, listSeparator),
		Material:    it.Material,
		Tags:        strings.Join(it.Tags, listSeparator),
		Description: it.Description,
		InStock:     it.InStock,
		SKU:         it.SKU,
		Image:       it.Image,
		Position:    it.Position,
	}
}

// Item converts r. The id is left for the importer to assign.
func (r Row) Item() domain.CatalogItem {
	return domain.CatalogItem{
		Slug:        strings.TrimSpace(r.Slug),
		Name:        strings.TrimSpace(r.Name),
		Category:    strings.TrimSpace(r.Category),
		Subcategory: strings.TrimSpace(r.Subcategory),
		Price:       r.Price,
		Currency:    strings.ToUpper(strings.TrimSpace(r.Currency)),
		Color:       strings.TrimSpace(r.Color),
		Sizes:       splitCell(r.Sizes),
		Material:    strings.TrimSpace(r.Material),
		Tags:        splitCell(r.Tags),
		Description: strings.TrimSpace(r.Description),
		InStock:     r.InStock,
		SKU:         strings.TrimSpace(r.SKU),
		Image:       strings.TrimSpace(r.Image),
		Position:    r.Position,
	}
}

func splitCell(s string) []string {
	var out []string
	for _, p := range strings.Split(s, listSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r Row) cells() []any {
	return []any{
		r.Slug, r.Name, r.Category, r.Subcategory, r.Price, r.Currency, r.Color, r.Sizes,
		r.Material, r.Tags, r.Description, r.InStock, r.SKU, r.Image, r.Position,
	}
}

// rowFromCells reads a sheet row by header name. Missing columns stay zero.
func rowFromCells(idx map[string]int, cells []string) (Row, error) {
	get := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}
	r := Row{
		Slug:        get("slug"),
		Name:        get("name"),
		Category:    get("category"),
		Subcategory: get("subcategory"),
		Currency:    get("currency"),
		Color:       get("color"),
		Sizes:       get("sizes"),
		Material:    get("material"),
		Tags:        get("tags"),
		Description: get("description"),
		SKU:         get("sku"),
		Image:       get("image"),
		InStock:     true,
	}
	var err error
	if v := get("price"); v != "" {
		if r.Price, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Row{}, fmt.Errorf("price %q: %w", v, err)
		}
	}
	if v := get("position"); v != "" {
		if r.Position, err = strconv.Atoi(v); err != nil {
			return Row{}, fmt.Errorf("position %q: %w", v, err)
		}
	}
	if v := strings.ToLower(get("in_stock")); v != "" {
		r.InStock = v == "true" || v == "1" || v == "yes"
	}
	return r, nil
}
