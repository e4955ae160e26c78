package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TagNew        = "new"
	TagBestSeller = "best-seller"
)

// CatalogItem is one sellable product. Prices are integers in the minor unit of Currency.
type CatalogItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;size:140;not null" json:"slug"`
	Name        string    `gorm:"size:180;not null" json:"name"`
	Category    string    `gorm:"size:100;index" json:"category"`
	Subcategory string    `gorm:"size:100" json:"subcategory,omitempty"`
	Price       int64     `gorm:"not null" json:"price"`
	Currency    string    `gorm:"size:3;not null;default:'NGN'" json:"currency"`
	Color       string    `gorm:"size:60" json:"color,omitempty"`
	Sizes       []string  `gorm:"type:jsonb;serializer:json" json:"sizes"`
	Material    string    `gorm:"size:120" json:"material"`
	Tags        []string  `gorm:"type:jsonb;serializer:json" json:"tags"`
	Description string    `gorm:"type:text" json:"description"`
	InStock     bool      `gorm:"default:true;index" json:"inStock"`
	SKU         string    `gorm:"size:100;index" json:"sku"`
	Image       string    `gorm:"size:255" json:"image,omitempty"`
	Position    int       `gorm:"default:0;index" json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (CatalogItem) TableName() string { return "catalog_items" }

func (it CatalogItem) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (it CatalogItem) HasSize(size string) bool {
	for _, s := range it.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Validate reports items the query engine cannot price or address.
func (it CatalogItem) Validate() error {
	switch {
	case it.ID == uuid.Nil:
		return fmt.Errorf("%w: missing id", ErrInvalidCatalogItem)
	case strings.TrimSpace(it.Slug) == "":
		return fmt.Errorf("%w: %s: missing slug", ErrInvalidCatalogItem, it.ID)
	case strings.TrimSpace(it.Name) == "":
		return fmt.Errorf("%w: %s: missing name", ErrInvalidCatalogItem, it.Slug)
	case it.Price <= 0:
		return fmt.Errorf("%w: %s: price must be positive, got %d", ErrInvalidCatalogItem, it.Slug, it.Price)
	case len(it.Currency) != 3:
		return fmt.Errorf("%w: %s: bad currency %q", ErrInvalidCatalogItem, it.Slug, it.Currency)
	}
	return nil
}

// Slugify lowercases and hyphenates a display name.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
