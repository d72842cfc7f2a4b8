package catalog

import (
	"math"
	"regexp"
	"strconv"

	"catalog-service/internal/models"
)

var discountBadgePattern = regexp.MustCompile(`^\s*-?\s*(\d+(?:\.\d+)?)\s*%`)

// DiscountPercent returns the discount carried by the first percentage badge,
// clamped to 0..100. ok is false when no badge carries a percentage.
func DiscountPercent(p models.Product) (pct float64, ok bool) {
	for _, badge := range p.ProductBadges {
		m := discountBadgePattern.FindStringSubmatch(badge.Label)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return math.Min(math.Max(v, 0), 100), true
	}
	return 0, false
}

// SalePrice applies the badge discount to the list price
func SalePrice(p models.Product) (float64, bool) {
	pct, ok := DiscountPercent(p)
	if !ok {
		return 0, false
	}
	return round2(p.ListPrice() * (1 - pct/100)), true
}

// Decorate returns copies of the products with derived pricing attached
func Decorate(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	for i, p := range products {
		display := round2(p.ExactPrice())
		p.DisplayPrice = &display
		p.DiscountPercent = nil
		p.SalePrice = nil
		if pct, ok := DiscountPercent(p); ok {
			sale, _ := SalePrice(p)
			p.DiscountPercent = &pct
			p.SalePrice = &sale
		}
		out[i] = p
	}
	return out
}

// ApplyCurrency returns copies with every monetary field multiplied by rate.
// A non-positive rate leaves the products unchanged.
func ApplyCurrency(products []models.Product, rate float64) []models.Product {
	if rate <= 0 || rate == 1 {
		return products
	}
	out := make([]models.Product, len(products))
	for i, p := range products {
		p.ListPriceAmount = scale(p.ListPriceAmount, rate)
		p.PriceRangeExactAmount = scale(p.PriceRangeExactAmount, rate)
		p.DisplayPrice = scale(p.DisplayPrice, rate)
		p.SalePrice = scale(p.SalePrice, rate)
		out[i] = p
	}
	return out
}

func scale(v *float64, rate float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := round2(*v * rate)
	return &scaled
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
