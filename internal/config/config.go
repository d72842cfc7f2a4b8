package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Tesseract-Nexus/go-shared/secrets"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog-service/internal/models"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Storefront GraphQL backend
	GraphQLEndpoint       string
	GraphQLToken          string
	GraphQLTimeout        time.Duration
	GraphQLSupportsPaging bool

	// Pagination
	DefaultPageSize int
	MaxPageSize     int

	// Pricing
	DefaultCurrency string

	// Redis
	RedisURL         string
	SnapshotCacheTTL time.Duration

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Database (filter analytics)
	AnalyticsEnabled bool
	DBHost           string
	DBPort           int
	DBUser           string
	DBPassword       string
	DBName           string
	DBSSLMode        string

	// Events
	NATSURL string

	// CORS
	AllowedOrigins []string
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	graphQLTimeout, _ := strconv.Atoi(getEnv("GRAPHQL_TIMEOUT_SECONDS", "10"))
	supportsPaging, _ := strconv.ParseBool(getEnv("GRAPHQL_SUPPORTS_PAGING", "true"))
	defaultPageSize, _ := strconv.Atoi(getEnv("DEFAULT_PAGE_SIZE", "24"))
	maxPageSize, _ := strconv.Atoi(getEnv("MAX_PAGE_SIZE", "100"))
	snapshotTTL, _ := strconv.Atoi(getEnv("SNAPSHOT_CACHE_TTL_SECONDS", "120"))
	rateLimitRequests, _ := strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "120"))
	rateLimitWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	analyticsEnabled, _ := strconv.ParseBool(getEnv("ANALYTICS_ENABLED", "false"))

	cfg := &Config{
		// Server
		Port:        getEnv("PORT", "8089"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Storefront backend
		GraphQLEndpoint:       getEnv("GRAPHQL_ENDPOINT", "http://localhost:4000/graphql"),
		GraphQLToken:          os.Getenv("GRAPHQL_TOKEN"),
		GraphQLTimeout:        time.Duration(graphQLTimeout) * time.Second,
		GraphQLSupportsPaging: supportsPaging,

		// Pagination
		DefaultPageSize: defaultPageSize,
		MaxPageSize:     maxPageSize,

		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),

		// Redis
		RedisURL:         getEnv("REDIS_URL", "redis://redis.redis-marketplace.svc.cluster.local:6379/0"),
		SnapshotCacheTTL: time.Duration(snapshotTTL) * time.Second,

		RateLimitRequests: rateLimitRequests,
		RateLimitWindow:   time.Duration(rateLimitWindow) * time.Second,

		// Database - password only fetched when analytics needs it
		AnalyticsEnabled: analyticsEnabled,
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           dbPort,
		DBUser:           getEnv("DB_USER", "postgres"),
		DBName:           getEnv("DB_NAME", "catalog_db"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),

		NATSURL: os.Getenv("NATS_URL"),

		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.AnalyticsEnabled {
		cfg.DBPassword = secrets.GetDBPassword()
	}
	cfg.normalize()
	return cfg
}

// normalize replaces unusable numeric settings with their defaults
func (c *Config) normalize() {
	if c.GraphQLTimeout <= 0 {
		c.GraphQLTimeout = 10 * time.Second
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = 24
	}
	if c.MaxPageSize < c.DefaultPageSize {
		c.MaxPageSize = c.DefaultPageSize
	}
	if c.SnapshotCacheTTL <= 0 {
		c.SnapshotCacheTTL = 2 * time.Minute
	}
	if c.RateLimitWindow <= 0 {
		c.RateLimitWindow = time.Minute
	}
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.IsProduction() {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Running auto-migrations...")
	if err := db.AutoMigrate(&models.FilterUsage{}); err != nil {
		return nil, fmt.Errorf("failed to run auto-migrations: %w", err)
	}
	log.Println("Auto-migrations completed successfully")

	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
