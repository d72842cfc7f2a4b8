package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// newTestServer answers every request with body and records the last request
func newTestServer(t *testing.T, body string, captured *graphQLRequest, headers *http.Header) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		if headers != nil {
			*headers = r.Header.Clone()
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, endpoint string) *StorefrontClient {
	t.Helper()
	client, err := NewStorefrontClient(StorefrontConfig{Endpoint: endpoint, Token: "secret"})
	require.NoError(t, err)
	return client
}

func TestNewStorefrontClient_RequiresEndpoint(t *testing.T) {
	_, err := NewStorefrontClient(StorefrontConfig{})
	assert.Error(t, err)
}

func TestValidateOperations(t *testing.T) {
	assert.NoError(t, validateOperations(operations))

	err := validateOperations(map[string]string{"Broken": "query Broken { category(id: "})
	assert.Error(t, err)

	err = validateOperations(map[string]string{"Expected": "query Other { ping }"})
	assert.ErrorContains(t, err, "Other")
}

func TestCategoryByID(t *testing.T) {
	var captured graphQLRequest
	var headers http.Header
	server := newTestServer(t, `{"data":{"category":{
		"id":"cat-1","name":"Shoes","slug":"shoes",
		"products":[{"id":"p1","name":"Runner","brand_name":"Acme","created_at":"2024-01-01"}],
		"subCategories":[{"id":"cat-2","name":"Boots","products":[{"id":"p2","brand":{"name":"Stomp"}}]}]
	}}}`, &captured, &headers)

	category, err := newTestClient(t, server.URL).CategoryByID(context.Background(), "tenant-1", "cat-1")

	require.NoError(t, err)
	assert.Equal(t, "Shoes", category.Name)
	require.Len(t, category.Products, 1)
	assert.Equal(t, "Acme", category.Products[0].BrandNameOrEmpty())
	assert.Nil(t, category.Products[0].BrandName)
	assert.Equal(t, "Stomp", category.SubCategories[0].Products[0].BrandNameOrEmpty())

	assert.Equal(t, "cat-1", captured.Variables["id"])
	assert.Contains(t, captured.Query, "query CategoryByID")
	assert.Equal(t, "Bearer secret", headers.Get("Authorization"))
	assert.Equal(t, "tenant-1", headers.Get("X-Tenant-ID"))
}

func TestCategoryByID_NotFound(t *testing.T) {
	server := newTestServer(t, `{"data":{"category":null}}`, nil, nil)

	category, err := newTestClient(t, server.URL).CategoryByID(context.Background(), "tenant-1", "missing")

	assert.Nil(t, category)
	assert.True(t, errors.Is(err, ErrCategoryNotFound))
}

func TestCategoryByID_GraphQLError(t *testing.T) {
	server := newTestServer(t, `{"errors":[{"message":"backend exploded"}]}`, nil, nil)

	_, err := newTestClient(t, server.URL).CategoryByID(context.Background(), "tenant-1", "cat-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend exploded")
	assert.False(t, errors.Is(err, ErrCategoryNotFound))
}

func TestProductsByCategoryPaged(t *testing.T) {
	var captured graphQLRequest
	server := newTestServer(t, `{"data":{
		"category":{"id":"cat-1","name":"Shoes"},
		"productsByCategory":{"total":57,"items":[{"id":"p9","brand_name":"Acme"}]}
	}}`, &captured, nil)

	page, err := newTestClient(t, server.URL).ProductsByCategoryPaged(context.Background(), "tenant-1", "cat-1", 24, 48)

	require.NoError(t, err)
	assert.Equal(t, 57, page.Total)
	assert.Equal(t, "Shoes", page.Category.Name)
	assert.Equal(t, "Acme", page.Products[0].BrandNameOrEmpty())
	assert.EqualValues(t, 24, captured.Variables["limit"])
	assert.EqualValues(t, 48, captured.Variables["offset"])
	assert.Equal(t, "created_at", captured.Variables["sortBy"])
	assert.Equal(t, "desc", captured.Variables["sortOrder"])
	assert.Contains(t, captured.Query, "sortOrder: $sortOrder")
}

func TestProductsByCategoryPaged_EmptyItems(t *testing.T) {
	server := newTestServer(t, `{"data":{"category":{"id":"cat-1"},"productsByCategory":null}}`, nil, nil)

	page, err := newTestClient(t, server.URL).ProductsByCategoryPaged(context.Background(), "tenant-1", "cat-1", 24, 0)

	require.NoError(t, err)
	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)
	assert.Equal(t, 0, page.Total)
}

func TestProductsByBrand(t *testing.T) {
	server := newTestServer(t, `{"data":{"productsByBrand":[{"id":"p1","brand_name":"Acme"},{"sku":"s2"}]}}`, nil, nil)

	products, err := newTestClient(t, server.URL).ProductsByBrand(context.Background(), "tenant-1", "brand-1")

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Acme", products[0].BrandNameOrEmpty())
	assert.Equal(t, "s2", products[1].SKU)
}

func TestProductsByBrand_Null(t *testing.T) {
	server := newTestServer(t, `{"data":{"productsByBrand":null}}`, nil, nil)

	products, err := newTestClient(t, server.URL).ProductsByBrand(context.Background(), "tenant-1", "brand-1")

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestCurrencyRate(t *testing.T) {
	var captured graphQLRequest
	server := newTestServer(t, `{"data":{"currencyRate":{"code":"EUR","rate":0.92}}}`, &captured, nil)

	rate, err := newTestClient(t, server.URL).CurrencyRate(context.Background(), "tenant-1", " eur ")

	require.NoError(t, err)
	assert.Equal(t, 0.92, rate)
	assert.Equal(t, "EUR", captured.Variables["code"])
}

func TestCurrencyRate_Missing(t *testing.T) {
	server := newTestServer(t, `{"data":{"currencyRate":null}}`, nil, nil)

	_, err := newTestClient(t, server.URL).CurrencyRate(context.Background(), "tenant-1", "XYZ")

	assert.Error(t, err)
}

func TestStorefrontClient_ContextCancelled(t *testing.T) {
	server := newTestServer(t, `{"data":{"category":null}}`, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, server.URL).CategoryByID(ctx, "tenant-1", "cat-1")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCategoryNotFound))
}
