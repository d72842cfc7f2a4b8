package models

import (
	"time"

	"github.com/google/uuid"
)

// JSON is a free-form object used for error details
type JSON map[string]interface{}

// Response types
type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// NewPaginationInfo builds pagination metadata for a page over total items
func NewPaginationInfo(page, limit int, total int64) *PaginationInfo {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// ListingData is the payload of a category or brand listing
type ListingData struct {
	Category *Category        `json:"category"`
	Products []Product        `json:"products"`
	Facets   []AttributeFacet `json:"facets"`
	Brands   []string         `json:"brands"`
	Currency string           `json:"currency,omitempty"`
	Rate     *float64         `json:"rate,omitempty"`
}

type ListingResponse struct {
	Success    bool            `json:"success"`
	Data       ListingData     `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

// FacetsData is the payload of the category facets endpoint
type FacetsData struct {
	Category *Category        `json:"category"`
	Facets   []AttributeFacet `json:"facets"`
	Brands   []string         `json:"brands"`
}

type FacetsResponse struct {
	Success bool       `json:"success"`
	Data    FacetsData `json:"data"`
}

// RefineRequest runs the pipeline over a caller-supplied product list
type RefineRequest struct {
	Products  []Product       `json:"products"`
	Selection FilterSelection `json:"selection,omitempty"`
	Page      int             `json:"page,omitempty"`
	Limit     int             `json:"limit,omitempty"`
}

type RefineResponse struct {
	Success    bool            `json:"success"`
	Data       ListingData     `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

// PopularFilter is one aggregated row of filter analytics
type PopularFilter struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type PopularFiltersResponse struct {
	Success bool            `json:"success"`
	Data    []PopularFilter `json:"data"`
}

// FilterUsage records one selected filter value on a category listing
type FilterUsage struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID   string    `json:"tenantId" gorm:"not null;index:idx_filter_usage_tenant_category"`
	CategoryID string    `json:"categoryId" gorm:"not null;index:idx_filter_usage_tenant_category"`
	Label      string    `json:"label" gorm:"not null"`
	Value      string    `json:"value" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName returns the table name for the FilterUsage model
func (FilterUsage) TableName() string {
	return "filter_usages"
}

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     Error  `json:"error"`
	Timestamp string `json:"timestamp,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details *JSON  `json:"details,omitempty"`
}
