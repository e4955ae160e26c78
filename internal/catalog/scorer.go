package catalog

import (
	"sort"
	"strings"

	"github.com/phenrril/maison/internal/domain"
)

// Field weights for Score. Substring containment, not word or edit distance.
const (
	weightName        = 40
	weightNamePrefix  = 12
	weightTags        = 20
	weightTagsPrefix  = 6
	weightDescription = 10
	weightMaterial    = 8
	weightColor       = 8
	weightCategory    = 12
	bonusNew          = 6
	bonusBestSeller   = 8
	tagSeparator      = " "
)

// Tokenize lowercases q and splits it on whitespace.
func Tokenize(q string) []string {
	return strings.Fields(strings.ToLower(q))
}

func joinedTags(it domain.CatalogItem) string {
	return strings.ToLower(strings.Join(it.Tags, tagSeparator))
}

// Score weighs how well it matches the free-text query q.
func Score(it domain.CatalogItem, q string) int {
	return scoreTokens(it, Tokenize(q))
}

func scoreTokens(it domain.CatalogItem, tokens []string) int {
	name := strings.ToLower(it.Name)
	tags := joinedTags(it)
	desc := strings.ToLower(it.Description)
	material := strings.ToLower(it.Material)
	color := strings.ToLower(it.Color)
	category := strings.ToLower(it.Category)
	sub := strings.ToLower(it.Subcategory)

	score := 0
	for _, tok := range tokens {
		if strings.Contains(name, tok) {
			score += weightName
		}
		if strings.HasPrefix(name, tok) {
			score += weightNamePrefix
		}
		if strings.Contains(tags, tok) {
			score += weightTags
		}
		if strings.HasPrefix(tags, tok) {
			score += weightTagsPrefix
		}
		if strings.Contains(desc, tok) {
			score += weightDescription
		}
		if strings.Contains(material, tok) {
			score += weightMaterial
		}
		if strings.Contains(color, tok) {
			score += weightColor
		}
		if strings.Contains(category, tok) || strings.Contains(sub, tok) {
			score += weightCategory
		}
	}
	if it.HasTag(domain.TagNew) {
		score += bonusNew
	}
	if it.HasTag(domain.TagBestSeller) {
		score += bonusBestSeller
	}
	return score
}

// Search returns the items scoring above zero, best first, keeping input
// order between equal scores. With no scored hits it falls back to a plain
// substring match of the whole lowercased query against name and tags.
// A blank query returns items unchanged.
func Search(items []domain.CatalogItem, q string) []domain.CatalogItem {
	tokens := Tokenize(q)
	if len(tokens) == 0 {
		return items
	}

	type scored struct {
		item  domain.CatalogItem
		score int
	}
	hits := make([]scored, 0, len(items))
	for _, it := range items {
		if s := scoreTokens(it, tokens); s > 0 {
			hits = append(hits, scored{item: it, score: s})
		}
	}
	if len(hits) == 0 {
		return fallbackSearch(items, strings.ToLower(q))
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]domain.CatalogItem, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}

func fallbackSearch(items []domain.CatalogItem, raw string) []domain.CatalogItem {
	out := []domain.CatalogItem{}
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), raw) || strings.Contains(joinedTags(it), raw) {
			out = append(out, it)
		}
	}
	return out
}
