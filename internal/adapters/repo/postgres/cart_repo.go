package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/maison/internal/domain"
)

// cartLineRow is one persisted cart line. Position keeps insertion order.
type cartLineRow struct {
	CartID    string    `gorm:"primaryKey;autoIncrement:false;size:64"`
	Position  int       `gorm:"primaryKey;autoIncrement:false"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Size      string    `gorm:"size:20"`
	Color     string    `gorm:"size:60"`
	Quantity  int       `gorm:"not null"`
	UnitPrice int64     `gorm:"not null"`
	Currency  string    `gorm:"size:3"`
	Name      string    `gorm:"size:180"`
	Image     string    `gorm:"size:255"`
	Slug      string    `gorm:"size:140"`
	UpdatedAt time.Time `gorm:"index"`
}

func (cartLineRow) TableName() string { return "cart_lines" }

// CartRepo keeps carts in the cart_lines table.
type CartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) *CartRepo { return &CartRepo{db: db} }

// Model is the schema AutoMigrate needs for CartRepo.
func (r *CartRepo) Model() any { return &cartLineRow{} }

func (r *CartRepo) Load(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	var rows []cartLineRow
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Order("position asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]domain.CartLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, domain.CartLine{
			ProductID: row.ProductID,
			Size:      row.Size,
			Color:     row.Color,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
			Currency:  row.Currency,
			Name:      row.Name,
			Image:     row.Image,
			Slug:      row.Slug,
		})
	}
	return lines, nil
}

// Save replaces every line of the cart in one transaction.
func (r *CartRepo) Save(ctx context.Context, cartID string, lines []domain.CartLine) error {
	now := time.Now()
	rows := make([]cartLineRow, len(lines))
	for i, ln := range lines {
		rows[i] = cartLineRow{
			CartID:    cartID,
			Position:  i,
			ProductID: ln.ProductID,
			Size:      ln.Size,
			Color:     ln.Color,
			Quantity:  ln.Quantity,
			UnitPrice: ln.UnitPrice,
			Currency:  ln.Currency,
			Name:      ln.Name,
			Image:     ln.Image,
			Slug:      ln.Slug,
			UpdatedAt: now,
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&cartLineRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *CartRepo) Delete(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&cartLineRow{}).Error
}

// PurgeBefore drops carts untouched since cutoff and reports how many lines
// went.
func (r *CartRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&cartLineRow{})
	return res.RowsAffected, res.Error
}
