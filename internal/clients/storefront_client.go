package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/metrics"
	"catalog-service/internal/models"
)

// ErrCategoryNotFound is returned when the backend has no category for an id
var ErrCategoryNotFound = errors.New("category not found")

// StorefrontConfig configures the storefront GraphQL client
type StorefrontConfig struct {
	Endpoint   string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logrus.Entry
}

// StorefrontClient queries the storefront GraphQL backend
type StorefrontClient struct {
	gql    *graphql.Client
	token  string
	logger *logrus.Entry
}

// NewStorefrontClient creates a new storefront client. Query documents are
// parsed up front so a malformed document fails at startup, not per request.
func NewStorefrontClient(cfg StorefrontConfig) (*StorefrontClient, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("storefront endpoint is required")
	}
	if err := validateOperations(operations); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		logger = logrus.NewEntry(silent)
	}
	logger = logger.WithField("component", "StorefrontClient")

	gql := graphql.NewClient(cfg.Endpoint, graphql.WithHTTPClient(httpClient))
	gql.Log = func(s string) { logger.Trace(s) }

	return &StorefrontClient{
		gql:    gql,
		token:  cfg.Token,
		logger: logger,
	}, nil
}

func (c *StorefrontClient) newRequest(operation, tenantID string) *graphql.Request {
	req := graphql.NewRequest(operations[operation])
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if tenantID != "" {
		req.Header.Set("X-Tenant-ID", tenantID)
	}
	return req
}

func (c *StorefrontClient) run(ctx context.Context, operation string, req *graphql.Request, resp interface{}) error {
	start := time.Now()
	defer metrics.ObserveFetch(operation, start)

	if err := c.gql.Run(ctx, req, resp); err != nil {
		c.logger.WithError(err).WithField("operation", operation).Warn("Storefront query failed")
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

type categoryByIDResponse struct {
	Category *models.Category `json:"category"`
}

// CategoryByID loads a category with its products and its direct
// subcategories' products
func (c *StorefrontClient) CategoryByID(ctx context.Context, tenantID, categoryID string) (*models.Category, error) {
	req := c.newRequest("CategoryByID", tenantID)
	req.Var("id", categoryID)

	var resp categoryByIDResponse
	if err := c.run(ctx, "CategoryByID", req, &resp); err != nil {
		return nil, err
	}
	if resp.Category == nil {
		return nil, ErrCategoryNotFound
	}

	normalizeProducts(resp.Category.Products)
	for i := range resp.Category.SubCategories {
		normalizeProducts(resp.Category.SubCategories[i].Products)
	}
	return resp.Category, nil
}

type productsByCategoryPagedResponse struct {
	Category           *models.Category `json:"category"`
	ProductsByCategory *struct {
		Total int              `json:"total"`
		Items []models.Product `json:"items"`
	} `json:"productsByCategory"`
}

// Ordering requested for paged category listings
const (
	pagedSortField = "created_at"
	pagedSortOrder = "desc"
)

// ProductsByCategoryPaged loads one page of a category's products using the
// backend's limit/offset paging, ordered newest first
func (c *StorefrontClient) ProductsByCategoryPaged(ctx context.Context, tenantID, categoryID string, limit, offset int) (*models.ProductPage, error) {
	req := c.newRequest("ProductsByCategoryPaged", tenantID)
	req.Var("id", categoryID)
	req.Var("limit", limit)
	req.Var("offset", offset)
	req.Var("sortBy", pagedSortField)
	req.Var("sortOrder", pagedSortOrder)

	var resp productsByCategoryPagedResponse
	if err := c.run(ctx, "ProductsByCategoryPaged", req, &resp); err != nil {
		return nil, err
	}
	if resp.Category == nil {
		return nil, ErrCategoryNotFound
	}

	page := &models.ProductPage{Category: resp.Category, Products: []models.Product{}}
	if resp.ProductsByCategory != nil {
		page.Total = resp.ProductsByCategory.Total
		if resp.ProductsByCategory.Items != nil {
			page.Products = resp.ProductsByCategory.Items
		}
	}
	normalizeProducts(page.Products)
	return page, nil
}

type productsByBrandResponse struct {
	ProductsByBrand []models.Product `json:"productsByBrand"`
}

// ProductsByBrand loads every product of a brand
func (c *StorefrontClient) ProductsByBrand(ctx context.Context, tenantID, brandID string) ([]models.Product, error) {
	req := c.newRequest("ProductsByBrand", tenantID)
	req.Var("id", brandID)

	var resp productsByBrandResponse
	if err := c.run(ctx, "ProductsByBrand", req, &resp); err != nil {
		return nil, err
	}
	if resp.ProductsByBrand == nil {
		return []models.Product{}, nil
	}
	normalizeProducts(resp.ProductsByBrand)
	return resp.ProductsByBrand, nil
}

type currencyRateResponse struct {
	CurrencyRate *struct {
		Code string  `json:"code"`
		Rate float64 `json:"rate"`
	} `json:"currencyRate"`
}

// CurrencyRate returns the conversion rate from the store currency to code
func (c *StorefrontClient) CurrencyRate(ctx context.Context, tenantID, code string) (float64, error) {
	req := c.newRequest("CurrencyRate", tenantID)
	req.Var("code", strings.ToUpper(strings.TrimSpace(code)))

	var resp currencyRateResponse
	if err := c.run(ctx, "CurrencyRate", req, &resp); err != nil {
		return 0, err
	}
	if resp.CurrencyRate == nil || resp.CurrencyRate.Rate <= 0 {
		return 0, fmt.Errorf("CurrencyRate: no rate for %q", code)
	}
	return resp.CurrencyRate.Rate, nil
}

func normalizeProducts(products []models.Product) {
	for i := range products {
		products[i].NormalizeBrand()
	}
}
