package catalog

import "catalog-service/internal/models"

// Dedupe collapses repeated products into a unique-by-key sequence.
// The key is the product id, or the sku when the id is empty; products with
// neither are dropped. The first occurrence of a key wins and input order is kept.
func Dedupe(products []models.Product) []models.Product {
	result := make([]models.Product, 0, len(products))
	if len(products) == 0 {
		return result
	}

	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		key, ok := p.DedupKey()
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, p)
	}
	return result
}
