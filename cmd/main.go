package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"catalog-service/internal/catalog"
	"catalog-service/internal/clients"
	"catalog-service/internal/config"
	"catalog-service/internal/events"
	"catalog-service/internal/handlers"
	"catalog-service/internal/middleware"
	"catalog-service/internal/repository"
	"catalog-service/internal/services"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
	"github.com/Tesseract-Nexus/go-shared/secrets"
	"github.com/Tesseract-Nexus/go-shared/tracing"
)

// @title Storefront Catalog API
// @version 1.0.0
// @description Category and brand product listings with facets, filters and pagination for public storefronts
// @termsOfService http://swagger.io/terms/

// @contact.name Catalog API Support
// @contact.url http://www.example.com/support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8089
// @BasePath /api/v1

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.IsProduction() {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize Redis client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		redisOpts = &redis.Options{
			Addr: "localhost:6379",
		}
	}
	redisOpts.Password = secrets.GetRedisPassword()
	redisClient := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (snapshot cache and rate limiting will be bypassed)", err)
	} else {
		log.Println("✓ Redis connected successfully")
	}
	cancel()
	defer redisClient.Close()

	// Storefront backend client
	storefrontClient, err := clients.NewStorefrontClient(clients.StorefrontConfig{
		Endpoint: cfg.GraphQLEndpoint,
		Token:    cfg.GraphQLToken,
		Timeout:  cfg.GraphQLTimeout,
		Logger:   logrus.NewEntry(logger),
	})
	if err != nil {
		log.Fatal("Failed to initialize storefront client:", err)
	}
	log.Printf("✓ Storefront client initialized (%s)", cfg.GraphQLEndpoint)

	snapshots := repository.NewSnapshotRepository(storefrontClient, redisClient, cfg.SnapshotCacheTTL,
		logrus.NewEntry(logger))

	aggregatorOpts := []catalog.Option{
		catalog.WithBrandFetcher(storefrontClient),
		catalog.WithPageSize(cfg.DefaultPageSize),
		catalog.WithLogger(logrus.NewEntry(logger).WithField("component", "aggregator")),
	}
	if cfg.GraphQLSupportsPaging {
		aggregatorOpts = append(aggregatorOpts, catalog.WithPagedFetcher(storefrontClient))
	}
	aggregator := catalog.NewAggregator(snapshots, aggregatorOpts...)

	listingOpts := []services.ListingOption{
		services.WithRates(storefrontClient, cfg.DefaultCurrency),
		services.WithMaxPageSize(cfg.MaxPageSize),
		services.WithServiceLogger(logrus.NewEntry(logger).WithField("component", "listing_service")),
	}

	// Filter analytics only if enabled
	if cfg.AnalyticsEnabled {
		db, err := config.InitDB(cfg)
		if err != nil {
			log.Printf("WARNING: Failed to connect to database: %v (continuing without filter analytics)", err)
		} else {
			listingOpts = append(listingOpts, services.WithAnalytics(repository.NewAnalyticsRepository(db)))
			log.Println("✓ Filter analytics enabled")
		}
	}

	// Initialize event publisher only if NATS_URL is set
	var eventsPublisher *events.Publisher
	if cfg.NATSURL != "" {
		eventsPublisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (continuing without event publishing)", err)
		} else {
			listingOpts = append(listingOpts, services.WithPublisher(eventsPublisher))
			log.Println("✓ Events publisher initialized (NATS connected)")
		}
	} else {
		log.Println("NATS_URL not set, skipping event publishing initialization")
	}
	defer eventsPublisher.Close()

	listingService := services.NewListingService(aggregator, listingOpts...)
	storefrontHandler := handlers.NewStorefrontHandler(listingService,
		logrus.NewEntry(logger).WithField("component", "storefront_handler"))

	// Initialize OpenTelemetry tracing
	var tracerProvider *tracing.TracerProvider
	if cfg.IsProduction() {
		tracerProvider, err = tracing.InitTracer(tracing.ProductionConfig("catalog-service"))
	} else {
		tracerProvider, err = tracing.InitTracer(tracing.DefaultConfig("catalog-service"))
	}
	if err != nil {
		log.Printf("WARNING: Failed to initialize tracing: %v (continuing without tracing)", err)
	} else {
		log.Println("✓ OpenTelemetry tracing initialized")
	}

	// Initialize Prometheus metrics
	metrics := gosharedmw.InitGlobalMetrics("tesseract", "catalog_service")
	log.Println("✓ Prometheus metrics initialized")

	// Initialize Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	// Add observability middleware (metrics + tracing)
	router.Use(metrics.Middleware())
	router.Use(tracing.GinMiddleware("catalog-service"))
	router.Use(gosharedmw.CompressionMiddleware())

	router.Use(middleware.CORS(cfg.AllowedOrigins...))

	// Health check endpoints
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.ReadyCheck(redisClient))
	router.GET("/metrics", gosharedmw.Handler())

	// Public storefront endpoints (no auth required, only tenant context)
	storefront := router.Group("/api/v1/storefront")
	storefront.Use(middleware.TenantMiddleware())
	storefront.Use(middleware.RateLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow,
		logrus.NewEntry(logger).WithField("component", "rate_limiter")))
	{
		categories := storefront.Group("/categories")
		{
			categories.GET("/:id/products", storefrontHandler.GetCategoryProducts)
			categories.GET("/:id/products/export", storefrontHandler.ExportCategoryProducts)
			categories.GET("/:id/facets", storefrontHandler.GetCategoryFacets)
			categories.GET("/:id/filters/popular", storefrontHandler.GetPopularFilters)
		}

		storefront.GET("/brands/:brandId/products", storefrontHandler.GetBrandProducts)
		storefront.POST("/products/refine", storefrontHandler.RefineProducts)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Catalog service starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-quit
	log.Println("Shutting down catalog-service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	// Let in-flight analytics and events finish
	listingService.Wait()

	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		} else {
			log.Println("✓ Tracer provider shut down")
		}
	}

	log.Println("Catalog service stopped")
}
