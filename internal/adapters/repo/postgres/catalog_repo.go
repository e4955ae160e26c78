package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/phenrril/maison/internal/domain"
)

type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// List returns the whole catalog in featured order.
func (r *CatalogRepo) List(ctx context.Context) ([]domain.CatalogItem, error) {
	var list []domain.CatalogItem
	if err := r.db.WithContext(ctx).Order("position asc, created_at asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save inserts or updates it. A slug already taken by another item gets a
// numeric suffix.
func (r *CatalogRepo) Save(ctx context.Context, it *domain.CatalogItem) error {
	slug, err := r.uniqueSlug(ctx, it)
	if err != nil {
		return err
	}
	it.Slug = slug
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *CatalogRepo) uniqueSlug(ctx context.Context, it *domain.CatalogItem) (string, error) {
	base := strings.TrimSpace(it.Slug)
	if base == "" {
		base = it.ID.String()[:8]
	}
	slug := base
	for i := 1; ; i++ {
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.CatalogItem{}).
			Where("slug = ? AND id <> ?", slug, it.ID).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i+1)
	}
}

func (r *CatalogRepo) DeleteBySlug(ctx context.Context, slug string) error {
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&domain.CatalogItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepo) SetPosition(ctx context.Context, slug string, position int) error {
	res := r.db.WithContext(ctx).Model(&domain.CatalogItem{}).Where("slug = ?", slug).Update("position", position)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
