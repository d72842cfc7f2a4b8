package catalog

import "catalog-service/internal/models"

func attr(label, key string) models.ProductAttributeValue {
	return models.ProductAttributeValue{Attribute: &models.Attribute{Label: label}, Key: key}
}

func floatPtr(v float64) *float64 {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		key, _ := p.DedupKey()
		out = append(out, key)
	}
	return out
}
