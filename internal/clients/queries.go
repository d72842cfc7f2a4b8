package clients

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

const productCardFragment = `
fragment ProductCard on Product {
  id
  sku
  name
  images
  brand { name }
  brand_name
  list_price_amount
  price_range_exact_amount
  created_at
  productAttributeValues {
    key
    attribute { label }
  }
  productBadges {
    label
    color
  }
}`

const categoryByIDQuery = `
query CategoryByID($id: ID!) {
  category(id: $id) {
    id
    name
    slug
    image
    products { ...ProductCard }
    subCategories {
      id
      name
      slug
      image
      products { ...ProductCard }
    }
  }
}` + productCardFragment

const productsByCategoryPagedQuery = `
query ProductsByCategoryPaged($id: ID!, $limit: Int!, $offset: Int!, $sortBy: String!, $sortOrder: String!) {
  category(id: $id) {
    id
    name
    slug
    image
  }
  productsByCategory(categoryId: $id, limit: $limit, offset: $offset, sortBy: $sortBy, sortOrder: $sortOrder) {
    total
    items { ...ProductCard }
  }
}` + productCardFragment

const productsByBrandQuery = `
query ProductsByBrand($id: ID!) {
  productsByBrand(brandId: $id) { ...ProductCard }
}` + productCardFragment

const currencyRateQuery = `
query CurrencyRate($code: String!) {
  currencyRate(code: $code) {
    code
    rate
  }
}`

// operations maps each operation name to its document
var operations = map[string]string{
	"CategoryByID":            categoryByIDQuery,
	"ProductsByCategoryPaged": productsByCategoryPagedQuery,
	"ProductsByBrand":         productsByBrandQuery,
	"CurrencyRate":            currencyRateQuery,
}

// validateOperations parses every query document and checks that its
// operation name matches the key it is registered under
func validateOperations(docs map[string]string) error {
	for name, input := range docs {
		doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: input})
		if err != nil {
			return fmt.Errorf("invalid %s document: %w", name, err)
		}
		if len(doc.Operations) != 1 {
			return fmt.Errorf("invalid %s document: expected one operation, got %d", name, len(doc.Operations))
		}
		if doc.Operations[0].Name != name {
			return fmt.Errorf("invalid %s document: operation is named %q", name, doc.Operations[0].Name)
		}
	}
	return nil
}
