package catalog

import "catalog-service/internal/models"

// ExtractBrands returns the distinct non-empty brand names in first-seen order.
// Flat brand_name fields must already be normalised into Brand.
func ExtractBrands(products []models.Product) []string {
	brands := make([]string, 0)
	seen := make(map[string]struct{})
	for _, p := range products {
		name := p.BrandNameOrEmpty()
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		brands = append(brands, name)
	}
	return brands
}
