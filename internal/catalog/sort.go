package catalog

import (
	"math"
	"sort"
	"time"

	"catalog-service/internal/models"
)

// DefaultPageSize is the listing page size used when none is configured
const DefaultPageSize = 24

// SortByCreatedAtDesc returns a copy ordered newest first. Products with a
// missing or unparsable created_at sort as the earliest; ties keep input order.
func SortByCreatedAtDesc(products []models.Product) []models.Product {
	type stamped struct {
		product models.Product
		at      time.Time
		valid   bool
	}
	items := make([]stamped, len(products))
	for i, p := range products {
		at, ok := p.CreatedAtTime()
		items[i] = stamped{product: p, at: at, valid: ok}
	}

	sort.SliceStable(items, func(a, b int) bool {
		if items[a].valid != items[b].valid {
			return items[a].valid
		}
		return items[a].at.After(items[b].at)
	})

	out := make([]models.Product, len(items))
	for i, item := range items {
		out[i] = item.product
	}
	return out
}

// Truncate returns at most limit products. A non-positive limit returns all.
func Truncate(products []models.Product, limit int) []models.Product {
	if limit <= 0 || len(products) <= limit {
		return products
	}
	return products[:limit]
}

// Paginate returns the 1-based page of size limit along with the total count.
// Out of range pages yield an empty slice.
func Paginate(products []models.Product, page, limit int) ([]models.Product, int) {
	total := len(products)
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if total == 0 || page-1 > (total-1)/limit {
		return []models.Product{}, total
	}
	start := (page - 1) * limit
	end := total
	if limit < total-start {
		end = start + limit
	}
	return products[start:end], total
}

// ClampPage caps page so that (page-1)*limit cannot overflow an int.
// limit must be positive.
func ClampPage(page, limit int) int {
	if page < 1 {
		return 1
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		return maxPage
	}
	return page
}
