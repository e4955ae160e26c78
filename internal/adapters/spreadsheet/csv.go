package spreadsheet

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/phenrril/maison/internal/domain"
)

func ReadCSV(r io.Reader) ([]domain.CatalogItem, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	items := make([]domain.CatalogItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Item())
	}
	return items, nil
}

func WriteCSV(w io.Writer, items []domain.CatalogItem) error {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, FromItem(it))
	}
	return gocsv.Marshal(rows, w)
}
