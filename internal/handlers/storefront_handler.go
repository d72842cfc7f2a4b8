package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
	"catalog-service/internal/services"
)

// ListingProvider is the listing pipeline used by the storefront handler
type ListingProvider interface {
	CategoryListing(ctx context.Context, q services.ListingQuery) *services.Listing
	BrandListing(ctx context.Context, q services.ListingQuery) *services.Listing
	Refine(products []models.Product, selection models.FilterSelection, page, limit int) *services.Listing
	Facets(ctx context.Context, tenantID, categoryID string) (*models.Category, []models.AttributeFacet, []string)
	ExportCategory(ctx context.Context, q services.ListingQuery) (*models.Category, []models.Product)
	PopularFilters(ctx context.Context, tenantID, categoryID string, limit int) ([]models.PopularFilter, error)
}

// StorefrontHandler serves public category and brand listings
type StorefrontHandler struct {
	listings ListingProvider
	logger   *logrus.Entry
}

func NewStorefrontHandler(listings ListingProvider, logger *logrus.Entry) *StorefrontHandler {
	return &StorefrontHandler{
		listings: listings,
		logger:   logger,
	}
}

// GetCategoryProducts lists a category's products with facets and filters
// @Summary List category products
// @Description Aggregates a category and its direct subcategories, deduplicated and newest first
// @Tags Storefront
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param id path string true "Category ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(24)
// @Param currency query string false "ISO currency code for display prices"
// @Param facets query bool false "Include facets and brands" default(true)
// @Success 200 {object} models.ListingResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /storefront/categories/{id}/products [get]
func (h *StorefrontHandler) GetCategoryProducts(c *gin.Context) {
	page, limit, ok := h.parsePaging(c)
	if !ok {
		return
	}

	listing := h.listings.CategoryListing(c.Request.Context(), services.ListingQuery{
		TenantID:   middleware.GetTenantID(c),
		CategoryID: c.Param("id"),
		Selection:  parseSelection(c.Request.URL.Query()),
		Page:       page,
		Limit:      limit,
		Currency:   c.Query("currency"),
		SkipFacets: c.Query("facets") == "false",
	})

	c.JSON(http.StatusOK, listingResponse(listing))
}

// GetCategoryFacets returns the filter affordances of a whole category
// @Summary Category facets
// @Tags Storefront
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param id path string true "Category ID"
// @Success 200 {object} models.FacetsResponse
// @Router /storefront/categories/{id}/facets [get]
func (h *StorefrontHandler) GetCategoryFacets(c *gin.Context) {
	category, facets, brands := h.listings.Facets(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"))

	c.JSON(http.StatusOK, models.FacetsResponse{
		Success: true,
		Data: models.FacetsData{
			Category: category,
			Facets:   facets,
			Brands:   brands,
		},
	})
}

// GetBrandProducts lists a brand's products
// @Summary List brand products
// @Tags Storefront
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param brandId path string true "Brand ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(24)
// @Success 200 {object} models.ListingResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /storefront/brands/{brandId}/products [get]
func (h *StorefrontHandler) GetBrandProducts(c *gin.Context) {
	page, limit, ok := h.parsePaging(c)
	if !ok {
		return
	}

	listing := h.listings.BrandListing(c.Request.Context(), services.ListingQuery{
		TenantID:   middleware.GetTenantID(c),
		BrandID:    c.Param("brandId"),
		Selection:  parseSelection(c.Request.URL.Query()),
		Page:       page,
		Limit:      limit,
		Currency:   c.Query("currency"),
		SkipFacets: c.Query("facets") == "false",
	})

	c.JSON(http.StatusOK, listingResponse(listing))
}

// RefineProducts runs dedupe, sort, facets, filter and pagination over a
// caller-supplied product list
// @Summary Refine a product list
// @Tags Storefront
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param request body models.RefineRequest true "Products and selection"
// @Success 200 {object} models.RefineResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /storefront/products/refine [post]
func (h *StorefrontHandler) RefineProducts(c *gin.Context) {
	var req models.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body", err)
		return
	}

	listing := h.listings.Refine(req.Products, req.Selection, req.Page, req.Limit)

	c.JSON(http.StatusOK, models.RefineResponse{
		Success:    true,
		Data:       listingData(listing),
		Pagination: models.NewPaginationInfo(listing.Page, listing.Limit, int64(listing.Total)),
	})
}

// GetPopularFilters returns the most selected filter values of a category
// @Summary Popular filters
// @Tags Storefront
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param id path string true "Category ID"
// @Param limit query int false "Number of filters" default(10)
// @Success 200 {object} models.PopularFiltersResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /storefront/categories/{id}/filters/popular [get]
func (h *StorefrontHandler) GetPopularFilters(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filters, err := h.listings.PopularFilters(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load popular filters")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve popular filters",
			},
			RequestID: middleware.GetRequestID(c),
		})
		return
	}

	c.JSON(http.StatusOK, models.PopularFiltersResponse{
		Success: true,
		Data:    filters,
	})
}

func (h *StorefrontHandler) parsePaging(c *gin.Context) (page, limit int, ok bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		h.badRequest(c, "page must be a number", nil)
		return 0, 0, false
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		h.badRequest(c, "limit must be a number", nil)
		return 0, 0, false
	}
	// Out-of-range values are clamped by the listing service
	return page, limit, true
}

func (h *StorefrontHandler) badRequest(c *gin.Context, message string, err error) {
	resp := models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    "INVALID_REQUEST",
			Message: message,
		},
		RequestID: middleware.GetRequestID(c),
	}
	if err != nil {
		details := models.JSON{"error": err.Error()}
		resp.Error.Details = &details
	}
	c.JSON(http.StatusBadRequest, resp)
}

// parseSelection reads filter[<label>]=v1,v2 parameters. Repeated keys
// merge and blank values are dropped.
func parseSelection(query url.Values) models.FilterSelection {
	selection := models.FilterSelection{}
	for key, raw := range query {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}
		label := strings.TrimSpace(key[len("filter[") : len(key)-1])
		if label == "" {
			continue
		}
		for _, joined := range raw {
			for _, value := range strings.Split(joined, ",") {
				if value = strings.TrimSpace(value); value != "" {
					selection[label] = append(selection[label], value)
				}
			}
		}
	}
	return selection
}

func listingData(listing *services.Listing) models.ListingData {
	return models.ListingData{
		Category: listing.Category,
		Products: listing.Products,
		Facets:   listing.Facets,
		Brands:   listing.Brands,
		Currency: listing.Currency,
		Rate:     listing.Rate,
	}
}

func listingResponse(listing *services.Listing) models.ListingResponse {
	return models.ListingResponse{
		Success:    true,
		Data:       listingData(listing),
		Pagination: models.NewPaginationInfo(listing.Page, listing.Limit, int64(listing.Total)),
	}
}
