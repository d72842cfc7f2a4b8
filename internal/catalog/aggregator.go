package catalog

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"catalog-service/internal/metrics"
	"catalog-service/internal/models"
)

// CategoryFetcher loads a category with its direct products and its
// subcategories' products
type CategoryFetcher interface {
	CategoryByID(ctx context.Context, tenantID, categoryID string) (*models.Category, error)
}

// PagedProductFetcher loads one page of a category's products with
// limit/offset applied by the backend
type PagedProductFetcher interface {
	ProductsByCategoryPaged(ctx context.Context, tenantID, categoryID string, limit, offset int) (*models.ProductPage, error)
}

// BrandProductFetcher loads the products of a brand
type BrandProductFetcher interface {
	ProductsByBrand(ctx context.Context, tenantID, brandID string) ([]models.Product, error)
}

// Result is the outcome of an aggregation. Failures produce an empty
// product list and a nil category.
type Result struct {
	Products    []models.Product
	Category    *models.Category
	Total       int
	ServerPaged bool
}

func emptyResult() Result {
	return Result{Products: []models.Product{}}
}

// Aggregator merges a two-level category tree into one deduplicated,
// newest-first product listing
type Aggregator struct {
	categories CategoryFetcher
	paged      PagedProductFetcher
	brands     BrandProductFetcher
	pageSize   int
	logger     *logrus.Entry
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithPagedFetcher enables backend-side pagination for AggregatePage
func WithPagedFetcher(f PagedProductFetcher) Option {
	return func(a *Aggregator) { a.paged = f }
}

// WithBrandFetcher enables AggregateBrand
func WithBrandFetcher(f BrandProductFetcher) Option {
	return func(a *Aggregator) { a.brands = f }
}

// WithPageSize sets the default page size
func WithPageSize(size int) Option {
	return func(a *Aggregator) {
		if size > 0 {
			a.pageSize = size
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Entry) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAggregator creates an aggregator over the given category fetcher
func NewAggregator(categories CategoryFetcher, opts ...Option) *Aggregator {
	silent := logrus.New()
	silent.SetOutput(io.Discard)

	a := &Aggregator{
		categories: categories,
		pageSize:   DefaultPageSize,
		logger:     logrus.NewEntry(silent),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PageSize returns the configured default page size
func (a *Aggregator) PageSize() int {
	return a.pageSize
}

// Aggregate fetches the category, concatenates its direct products with each
// subcategory's products in returned order, deduplicates and sorts newest first.
// It never returns an error: a failed fetch or an unknown id yields an empty
// result with a nil category.
func (a *Aggregator) Aggregate(ctx context.Context, tenantID, categoryID string) Result {
	log := a.logger.WithFields(logrus.Fields{"tenant_id": tenantID, "category_id": categoryID})

	if categoryID == "" {
		metrics.RecordAggregation("category", metrics.OutcomeEmpty)
		return emptyResult()
	}

	category, err := a.categories.CategoryByID(ctx, tenantID, categoryID)
	if err != nil {
		log.WithError(err).Warn("Category fetch failed, returning empty listing")
		metrics.RecordAggregation("category", metrics.OutcomeError)
		return emptyResult()
	}
	if category == nil {
		metrics.RecordAggregation("category", metrics.OutcomeEmpty)
		return emptyResult()
	}

	merged := make([]models.Product, 0, len(category.Products))
	merged = append(merged, category.Products...)
	for _, sub := range category.SubCategories {
		merged = append(merged, sub.Products...)
	}

	products := SortByCreatedAtDesc(Dedupe(merged))
	log.WithFields(logrus.Fields{
		"fetched":       len(merged),
		"unique":        len(products),
		"subcategories": len(category.SubCategories),
	}).Debug("Aggregated category products")

	metrics.RecordAggregation("category", metrics.OutcomeOK)
	return Result{
		Products: products,
		Category: category,
		Total:    len(products),
	}
}

// AggregatePage returns one page of the category listing. The backend's native
// limit/offset paging is preferred when a paged fetcher is configured; when it
// is not, or when the paged fetch fails, the whole tree is aggregated and sliced.
// A non-positive limit uses the default page size.
func (a *Aggregator) AggregatePage(ctx context.Context, tenantID, categoryID string, page, limit int) Result {
	if limit <= 0 {
		limit = a.pageSize
	}
	page = ClampPage(page, limit)

	if a.paged != nil && categoryID != "" {
		offset := (page - 1) * limit
		result, err := a.paged.ProductsByCategoryPaged(ctx, tenantID, categoryID, limit, offset)
		if err == nil && result != nil {
			products := SortByCreatedAtDesc(Dedupe(result.Products))
			metrics.RecordAggregation("paged", metrics.OutcomeOK)
			return Result{
				Products:    Truncate(products, limit),
				Category:    result.Category,
				Total:       result.Total,
				ServerPaged: true,
			}
		}
		a.logger.WithError(err).WithFields(logrus.Fields{
			"tenant_id":   tenantID,
			"category_id": categoryID,
		}).Warn("Paged fetch failed, falling back to client-side pagination")
		metrics.RecordAggregation("paged", metrics.OutcomeError)
	}

	full := a.Aggregate(ctx, tenantID, categoryID)
	pageItems, total := Paginate(full.Products, page, limit)
	return Result{
		Products: pageItems,
		Category: full.Category,
		Total:    total,
	}
}

// AggregateBrand fetches a brand's products, deduplicates and sorts them
// newest first. Like Aggregate it absorbs failures into an empty result.
func (a *Aggregator) AggregateBrand(ctx context.Context, tenantID, brandID string) Result {
	if a.brands == nil || brandID == "" {
		metrics.RecordAggregation("brand", metrics.OutcomeEmpty)
		return emptyResult()
	}

	products, err := a.brands.ProductsByBrand(ctx, tenantID, brandID)
	if err != nil {
		a.logger.WithError(err).WithFields(logrus.Fields{
			"tenant_id": tenantID,
			"brand_id":  brandID,
		}).Warn("Brand fetch failed, returning empty listing")
		metrics.RecordAggregation("brand", metrics.OutcomeError)
		return emptyResult()
	}

	sorted := SortByCreatedAtDesc(Dedupe(products))
	metrics.RecordAggregation("brand", metrics.OutcomeOK)
	return Result{Products: sorted, Total: len(sorted)}
}
