package models

// Category is a storefront category snapshot. Only the root and its direct
// subcategories are traversed when listing products.
type Category struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Image         *string    `json:"image,omitempty"`
	Products      []Product  `json:"products,omitempty"`
	SubCategories []Category `json:"subCategories,omitempty"`
}

// Summary returns a copy of the category without product lists,
// suitable for listing responses.
func (c *Category) Summary() *Category {
	if c == nil {
		return nil
	}
	out := &Category{
		ID:    c.ID,
		Name:  c.Name,
		Slug:  c.Slug,
		Image: c.Image,
	}
	for _, sub := range c.SubCategories {
		out.SubCategories = append(out.SubCategories, Category{
			ID:    sub.ID,
			Name:  sub.Name,
			Slug:  sub.Slug,
			Image: sub.Image,
		})
	}
	return out
}

// AttributeFacet is a filterable dimension derived from a product collection
type AttributeFacet struct {
	Attribute string   `json:"attribute"`
	Values    []string `json:"values"`
}

// FilterSelection maps an attribute label to the values a shopper selected.
// An empty value list for a label means no constraint.
type FilterSelection map[string][]string

// IsEmpty reports whether the selection constrains anything
func (s FilterSelection) IsEmpty() bool {
	for _, values := range s {
		if len(values) > 0 {
			return false
		}
	}
	return true
}

// ProductPage is one natively paged slice of a category's products
type ProductPage struct {
	Category *Category `json:"category,omitempty"`
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}
