package services

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"catalog-service/internal/catalog"
	"catalog-service/internal/events"
	"catalog-service/internal/models"
)

const backgroundTimeout = 5 * time.Second

// RateFetcher resolves currency conversion rates
type RateFetcher interface {
	CurrencyRate(ctx context.Context, tenantID, code string) (float64, error)
}

// AnalyticsStore records and aggregates filter selections
type AnalyticsStore interface {
	TrackSelection(ctx context.Context, tenantID, categoryID string, selection models.FilterSelection) error
	TopFilters(ctx context.Context, tenantID, categoryID string, limit int) ([]models.PopularFilter, error)
}

// EventPublisher publishes storefront events
type EventPublisher interface {
	PublishListingViewed(ctx context.Context, event events.ListingViewed) error
}

// ListingQuery describes one listing request
type ListingQuery struct {
	TenantID   string
	CategoryID string
	BrandID    string
	Selection  models.FilterSelection
	Page       int
	Limit      int
	Currency   string
	// SkipFacets lets an unfiltered listing use backend paging
	SkipFacets bool
}

// Listing is a filtered, paged product listing with its filter affordances
type Listing struct {
	Category *models.Category
	Products []models.Product
	Facets   []models.AttributeFacet
	Brands   []string
	Total    int
	Page     int
	Limit    int
	Currency string
	Rate     *float64
}

// ListingService composes aggregation, filtering, pricing and pagination
type ListingService struct {
	aggregator      *catalog.Aggregator
	rates           RateFetcher
	analytics       AnalyticsStore
	publisher       EventPublisher
	defaultCurrency string
	maxPageSize     int
	logger          *logrus.Entry

	background sync.WaitGroup
}

// ListingOption configures a ListingService
type ListingOption func(*ListingService)

// WithRates enables currency conversion
func WithRates(r RateFetcher, defaultCurrency string) ListingOption {
	return func(s *ListingService) {
		s.rates = r
		s.defaultCurrency = strings.ToUpper(strings.TrimSpace(defaultCurrency))
	}
}

// WithAnalytics enables filter selection tracking
func WithAnalytics(a AnalyticsStore) ListingOption {
	return func(s *ListingService) { s.analytics = a }
}

// WithPublisher enables listing events
func WithPublisher(p EventPublisher) ListingOption {
	return func(s *ListingService) { s.publisher = p }
}

// WithMaxPageSize caps the requested page size
func WithMaxPageSize(max int) ListingOption {
	return func(s *ListingService) {
		if max > 0 {
			s.maxPageSize = max
		}
	}
}

// WithServiceLogger sets the logger
func WithServiceLogger(logger *logrus.Entry) ListingOption {
	return func(s *ListingService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewListingService(aggregator *catalog.Aggregator, opts ...ListingOption) *ListingService {
	silent := logrus.New()
	silent.SetOutput(io.Discard)

	s := &ListingService{
		aggregator:  aggregator,
		maxPageSize: 100,
		logger:      logrus.NewEntry(silent),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ListingService) normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.aggregator.PageSize()
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	return catalog.ClampPage(page, limit), limit
}

// CategoryListing fetches the category tree and the currency rate
// concurrently, then filters, prices and pages the products. Facets and
// brands describe the whole category, not the filtered subset.
func (s *ListingService) CategoryListing(ctx context.Context, q ListingQuery) *Listing {
	page, limit := s.normalizePaging(q.Page, q.Limit)
	serverPaged := q.SkipFacets && q.Selection.IsEmpty()

	var (
		wg     sync.WaitGroup
		result catalog.Result
		rate   *float64
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if serverPaged {
			result = s.aggregator.AggregatePage(ctx, q.TenantID, q.CategoryID, page, limit)
			return
		}
		result = s.aggregator.Aggregate(ctx, q.TenantID, q.CategoryID)
	}()
	go func() {
		defer wg.Done()
		rate = s.resolveRate(ctx, q.TenantID, q.Currency)
	}()
	wg.Wait()

	listing := &Listing{
		Category: result.Category.Summary(),
		Page:     page,
		Limit:    limit,
		Currency: s.currencyFor(q.Currency, rate),
		Rate:     rate,
		Facets:   []models.AttributeFacet{},
		Brands:   []string{},
	}

	if serverPaged {
		listing.Products = s.price(result.Products, rate)
		listing.Total = result.Total
	} else {
		s.fill(listing, result.Products, q.Selection, rate, !q.SkipFacets)
	}

	s.recordView(q, listing.Total)
	return listing
}

// BrandListing lists a brand's products with the same filtering and paging
// as a category listing
func (s *ListingService) BrandListing(ctx context.Context, q ListingQuery) *Listing {
	page, limit := s.normalizePaging(q.Page, q.Limit)

	var (
		wg     sync.WaitGroup
		result catalog.Result
		rate   *float64
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		result = s.aggregator.AggregateBrand(ctx, q.TenantID, q.BrandID)
	}()
	go func() {
		defer wg.Done()
		rate = s.resolveRate(ctx, q.TenantID, q.Currency)
	}()
	wg.Wait()

	listing := &Listing{
		Page:     page,
		Limit:    limit,
		Currency: s.currencyFor(q.Currency, rate),
		Rate:     rate,
	}
	s.fill(listing, result.Products, q.Selection, rate, !q.SkipFacets)

	s.recordView(q, listing.Total)
	return listing
}

// Refine runs the pipeline over a caller-supplied product collection
// without any backend fetch
func (s *ListingService) Refine(products []models.Product, selection models.FilterSelection, page, limit int) *Listing {
	page, limit = s.normalizePaging(page, limit)

	normalized := make([]models.Product, len(products))
	copy(normalized, products)
	for i := range normalized {
		normalized[i].NormalizeBrand()
	}

	listing := &Listing{Page: page, Limit: limit}
	s.fill(listing, catalog.SortByCreatedAtDesc(catalog.Dedupe(normalized)), selection, nil, true)
	return listing
}

// Facets returns the facets and brands of a whole category
func (s *ListingService) Facets(ctx context.Context, tenantID, categoryID string) (*models.Category, []models.AttributeFacet, []string) {
	result := s.aggregator.Aggregate(ctx, tenantID, categoryID)
	return result.Category.Summary(), catalog.BuildFacets(result.Products), catalog.ExtractBrands(result.Products)
}

// ExportCategory returns every filtered, priced product of a category
func (s *ListingService) ExportCategory(ctx context.Context, q ListingQuery) (*models.Category, []models.Product) {
	result := s.aggregator.Aggregate(ctx, q.TenantID, q.CategoryID)
	rate := s.resolveRate(ctx, q.TenantID, q.Currency)
	filtered := catalog.Filter(result.Products, q.Selection)
	return result.Category.Summary(), s.price(filtered, rate)
}

// PopularFilters returns the most used filter values of a category
func (s *ListingService) PopularFilters(ctx context.Context, tenantID, categoryID string, limit int) ([]models.PopularFilter, error) {
	if s.analytics == nil {
		return []models.PopularFilter{}, nil
	}
	return s.analytics.TopFilters(ctx, tenantID, categoryID, limit)
}

// Wait blocks until background analytics and event work has finished
func (s *ListingService) Wait() {
	s.background.Wait()
}

func (s *ListingService) fill(listing *Listing, products []models.Product, selection models.FilterSelection, rate *float64, withFacets bool) {
	if withFacets {
		listing.Facets = catalog.BuildFacets(products)
		listing.Brands = catalog.ExtractBrands(products)
	} else {
		listing.Facets = []models.AttributeFacet{}
		listing.Brands = []string{}
	}

	filtered := catalog.Filter(products, selection)
	pageItems, total := catalog.Paginate(filtered, listing.Page, listing.Limit)
	listing.Products = s.price(pageItems, rate)
	listing.Total = total
}

func (s *ListingService) price(products []models.Product, rate *float64) []models.Product {
	decorated := catalog.Decorate(products)
	if rate != nil {
		decorated = catalog.ApplyCurrency(decorated, *rate)
	}
	return decorated
}

// resolveRate returns nil when no conversion is needed or the rate is
// unavailable; prices then stay in the store currency
func (s *ListingService) resolveRate(ctx context.Context, tenantID, currency string) *float64 {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if s.rates == nil || code == "" || code == s.defaultCurrency {
		return nil
	}
	rate, err := s.rates.CurrencyRate(ctx, tenantID, code)
	if err != nil {
		s.logger.WithError(err).WithField("currency", code).Warn("Currency rate unavailable, using store currency")
		return nil
	}
	return &rate
}

func (s *ListingService) currencyFor(requested string, rate *float64) string {
	if rate != nil {
		return strings.ToUpper(strings.TrimSpace(requested))
	}
	return s.defaultCurrency
}

func (s *ListingService) recordView(q ListingQuery, total int) {
	if s.analytics == nil && s.publisher == nil {
		return
	}

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		log := s.logger.WithField("tenant_id", q.TenantID)
		if s.analytics != nil && q.CategoryID != "" && !q.Selection.IsEmpty() {
			if err := s.analytics.TrackSelection(ctx, q.TenantID, q.CategoryID, q.Selection); err != nil {
				log.WithError(err).Warn("Failed to track filter selection")
			}
		}
		if s.publisher != nil {
			err := s.publisher.PublishListingViewed(ctx, events.ListingViewed{
				TenantID:    q.TenantID,
				CategoryID:  q.CategoryID,
				BrandID:     q.BrandID,
				ResultCount: total,
				Selection:   q.Selection,
			})
			if err != nil {
				log.WithError(err).Warn("Failed to publish listing event")
			}
		}
	}()
}
