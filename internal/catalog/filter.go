package catalog

import (
	"strings"

	"catalog-service/internal/models"
)

// Filter returns the products whose attributes satisfy every constrained label
// of the selection. Values within a label are OR'd, labels are AND'd, and both
// label and value comparisons ignore case. Labels with no selected values
// impose no constraint. Output keeps input order.
func Filter(products []models.Product, selection models.FilterSelection) []models.Product {
	result := make([]models.Product, 0, len(products))
	constraints := normalizeSelection(selection)
	if len(constraints) == 0 {
		return append(result, products...)
	}

	for _, p := range products {
		if matchesAll(p, constraints) {
			result = append(result, p)
		}
	}
	return result
}

// normalizeSelection lowercases labels and values and drops empty constraints.
// Two labels differing only by case are merged.
func normalizeSelection(selection models.FilterSelection) map[string]map[string]struct{} {
	constraints := make(map[string]map[string]struct{})
	for label, values := range selection {
		l := strings.ToLower(label)
		if l == "" {
			continue
		}
		for _, v := range values {
			v = strings.ToLower(v)
			if v == "" {
				continue
			}
			if constraints[l] == nil {
				constraints[l] = make(map[string]struct{})
			}
			constraints[l][v] = struct{}{}
		}
	}
	return constraints
}

func matchesAll(p models.Product, constraints map[string]map[string]struct{}) bool {
	for label, values := range constraints {
		if !matchesLabel(p, label, values) {
			return false
		}
	}
	return true
}

func matchesLabel(p models.Product, label string, values map[string]struct{}) bool {
	for _, entry := range p.ProductAttributeValues {
		if strings.ToLower(entry.Label()) != label {
			continue
		}
		if _, ok := values[strings.ToLower(entry.Key)]; ok {
			return true
		}
	}
	return false
}
