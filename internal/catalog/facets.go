package catalog

import "catalog-service/internal/models"

// BuildFacets derives one facet per distinct attribute label, in first-seen
// label order. Values within a facet are distinct and keep first-seen order.
// Entries missing a label or a value are skipped. Labels and values are used
// verbatim, so "M" and "M " are distinct values.
func BuildFacets(products []models.Product) []models.AttributeFacet {
	facets := make([]models.AttributeFacet, 0)
	index := make(map[string]int)
	seenValues := make(map[string]map[string]struct{})

	for _, p := range products {
		for _, entry := range p.ProductAttributeValues {
			label := entry.Label()
			value := entry.Key
			if label == "" || value == "" {
				continue
			}

			i, ok := index[label]
			if !ok {
				i = len(facets)
				index[label] = i
				facets = append(facets, models.AttributeFacet{Attribute: label, Values: []string{}})
				seenValues[label] = make(map[string]struct{})
			}
			if _, dup := seenValues[label][value]; dup {
				continue
			}
			seenValues[label][value] = struct{}{}
			facets[i].Values = append(facets[i].Values, value)
		}
	}
	return facets
}
