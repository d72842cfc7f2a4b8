package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DEFAULT_PAGE_SIZE", "MAX_PAGE_SIZE", "GRAPHQL_TIMEOUT_SECONDS",
		"SNAPSHOT_CACHE_TTL_SECONDS", "GRAPHQL_SUPPORTS_PAGING", "ANALYTICS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8089", cfg.Port)
	assert.Equal(t, 24, cfg.DefaultPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, 10*time.Second, cfg.GraphQLTimeout)
	assert.Equal(t, 2*time.Minute, cfg.SnapshotCacheTTL)
	assert.True(t, cfg.GraphQLSupportsPaging)
	assert.False(t, cfg.AnalyticsEnabled)
	assert.Empty(t, cfg.DBPassword)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("GRAPHQL_ENDPOINT", "https://shop.example.com/graphql")
	t.Setenv("GRAPHQL_TOKEN", "token-1")
	t.Setenv("GRAPHQL_TIMEOUT_SECONDS", "3")
	t.Setenv("GRAPHQL_SUPPORTS_PAGING", "false")
	t.Setenv("DEFAULT_PAGE_SIZE", "12")
	t.Setenv("DEFAULT_CURRENCY", "eur")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://shop.example.com/graphql", cfg.GraphQLEndpoint)
	assert.Equal(t, "token-1", cfg.GraphQLToken)
	assert.Equal(t, 3*time.Second, cfg.GraphQLTimeout)
	assert.False(t, cfg.GraphQLSupportsPaging)
	assert.Equal(t, 12, cfg.DefaultPageSize)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("DEFAULT_PAGE_SIZE", "lots")
	t.Setenv("MAX_PAGE_SIZE", "5")
	t.Setenv("GRAPHQL_TIMEOUT_SECONDS", "-1")

	cfg := Load()

	assert.Equal(t, 24, cfg.DefaultPageSize)
	assert.Equal(t, 24, cfg.MaxPageSize)
	assert.Equal(t, 10*time.Second, cfg.GraphQLTimeout)
}
