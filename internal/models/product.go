package models

import (
	"strings"
	"time"
)

// Brand is the nested brand object exposed by the storefront backend
type Brand struct {
	Name string `json:"name"`
}

// Attribute identifies a filterable product attribute
type Attribute struct {
	Label string `json:"label"`
}

// ProductAttributeValue binds an attribute label to one value of a product
type ProductAttributeValue struct {
	Attribute *Attribute `json:"attribute,omitempty"`
	Key       string     `json:"key"`
}

// Label returns the attribute label or "" when the attribute is missing
func (v ProductAttributeValue) Label() string {
	if v.Attribute == nil {
		return ""
	}
	return v.Attribute.Label
}

// ProductBadge is a promotional badge shown on product cards
type ProductBadge struct {
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// Product is a read-only storefront product snapshot.
// Optional fields are pointers; a nil pointer means the backend omitted the field.
type Product struct {
	ID                     string                  `json:"id,omitempty"`
	SKU                    string                  `json:"sku,omitempty"`
	Name                   string                  `json:"name"`
	Images                 []string                `json:"images"`
	Brand                  *Brand                  `json:"brand,omitempty"`
	BrandName              *string                 `json:"brand_name,omitempty"`
	ListPriceAmount        *float64                `json:"list_price_amount,omitempty"`
	PriceRangeExactAmount  *float64                `json:"price_range_exact_amount,omitempty"`
	CreatedAt              string                  `json:"created_at,omitempty"`
	ProductAttributeValues []ProductAttributeValue `json:"productAttributeValues"`
	ProductBadges          []ProductBadge          `json:"productBadges"`

	// Derived pricing, attached by catalog.Decorate
	DisplayPrice    *float64 `json:"display_price,omitempty"`
	SalePrice       *float64 `json:"sale_price,omitempty"`
	DiscountPercent *float64 `json:"discount_percent,omitempty"`
}

// DedupKey returns the id, or the sku when the id is empty. Keys are compared
// exactly as the backend sends them.
// The second return value is false when neither is set.
func (p Product) DedupKey() (string, bool) {
	if p.ID != "" {
		return p.ID, true
	}
	if p.SKU != "" {
		return p.SKU, true
	}
	return "", false
}

// BrandNameOrEmpty returns the nested brand name, "" when absent
func (p Product) BrandNameOrEmpty() string {
	if p.Brand == nil {
		return ""
	}
	return strings.TrimSpace(p.Brand.Name)
}

// NormalizeBrand folds the flat brand_name field into the nested Brand shape
func (p *Product) NormalizeBrand() {
	if p.Brand != nil && strings.TrimSpace(p.Brand.Name) != "" {
		p.BrandName = nil
		return
	}
	if p.BrandName != nil && strings.TrimSpace(*p.BrandName) != "" {
		p.Brand = &Brand{Name: strings.TrimSpace(*p.BrandName)}
	}
	p.BrandName = nil
}

// ListPrice returns the list price, 0 when absent
func (p Product) ListPrice() float64 {
	if p.ListPriceAmount == nil {
		return 0
	}
	return *p.ListPriceAmount
}

// ExactPrice returns the price range exact amount when present, else the list price
func (p Product) ExactPrice() float64 {
	if p.PriceRangeExactAmount != nil {
		return *p.PriceRangeExactAmount
	}
	return p.ListPrice()
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CreatedAtTime parses CreatedAt. ok is false for an empty or unparsable value.
func (p Product) CreatedAtTime() (t time.Time, ok bool) {
	raw := strings.TrimSpace(p.CreatedAt)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
