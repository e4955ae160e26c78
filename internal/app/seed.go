package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/maison/internal/domain"
)

// MigrateAndSeed creates the tables and loads the starter collection into
// an empty catalog.
func (a *App) MigrateAndSeed(ctx context.Context) error {
	models := []any{&domain.CatalogItem{}, &domain.Order{}, &domain.OrderItem{}}
	if a.pgCarts != nil {
		models = append(models, a.pgCarts.Model())
	}
	if err := a.DB.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var n int64
	if err := a.DB.WithContext(ctx).Model(&domain.CatalogItem{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	rep, err := a.CatalogUC.Import(ctx, seedCatalog(a.Config.Pricing.Currency))
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	log.Info().Int("items", rep.Imported).Msg("catalog seeded")
	return nil
}

func seedCatalog(currency string) []domain.CatalogItem {
	it := func(pos int, name, cat, sub string, price int64, color, material string, sizes, tags []string, desc string) domain.CatalogItem {
		return domain.CatalogItem{
			Name: name, Category: cat, Subcategory: sub, Price: price, Currency: currency,
			Color: color, Material: material, Sizes: sizes, Tags: tags, Description: desc,
			InStock: true, Position: pos,
		}
	}
	apparel := []string{"XS", "S", "M", "L", "XL"}
	items := []domain.CatalogItem{
		it(1, "Silk Slip Dress", "ready-to-wear", "dresses", 8_500_000, "black", "silk",
			apparel, []string{domain.TagNew, "evening"}, "Bias-cut slip dress in heavy sandwashed silk."),
		it(2, "Tailored Wool Blazer", "ready-to-wear", "jackets", 12_000_000, "navy", "wool",
			apparel, []string{domain.TagBestSeller}, "Single-breasted blazer with horn buttons."),
		it(3, "Cashmere Wrap", "accessories", "scarves", 3_000_000, "camel", "cashmere",
			nil, []string{"gift"}, "Oversized wrap woven from Mongolian cashmere."),
		it(4, "Gold Signet Ring", "jewelry", "rings", 4_500_000, "gold", "18k gold",
			[]string{"5", "6", "7", "8"}, []string{domain.TagBestSeller, "gift"}, "Polished signet ring, engravable."),
		it(5, "Pearl Drop Earrings", "jewelry", "earrings", 2_800_000, "ivory", "freshwater pearl",
			nil, []string{domain.TagNew}, "Baroque pearls on gold vermeil hooks."),
		it(6, "Leather Tote", "bags", "totes", 9_500_000, "cognac", "calf leather",
			nil, []string{"everyday"}, "Structured tote with suede lining."),
		it(7, "Quilted Shoulder Bag", "bags", "shoulder", 15_000_000, "black", "lambskin",
			nil, []string{domain.TagNew, domain.TagBestSeller}, "Chain-strap shoulder bag."),
		it(8, "Suede Loafers", "shoes", "flats", 5_200_000, "taupe", "suede",
			[]string{"37", "38", "39", "40", "41"}, nil, "Unlined loafers on a leather sole."),
		it(9, "Linen Shirt", "ready-to-wear", "shirts", 1_800_000, "white", "linen",
			apparel, nil, "Relaxed shirt in washed Irish linen."),
		it(10, "Silk Twill Scarf", "accessories", "scarves", 1_500_000, "red", "silk",
			nil, []string{"gift"}, "Hand-rolled edges, 90 cm square."),
	}
	items[8].InStock = false
	return items
}
