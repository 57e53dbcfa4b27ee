package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luminacart/discovery/internal/adapters/analytics"
	"github.com/luminacart/discovery/internal/adapters/behavior"
	"github.com/luminacart/discovery/internal/adapters/cache"
	"github.com/luminacart/discovery/internal/adapters/catalog"
	"github.com/luminacart/discovery/internal/adapters/events"
	"github.com/luminacart/discovery/internal/api/handlers"
	"github.com/luminacart/discovery/internal/api/middleware"
	"github.com/luminacart/discovery/internal/api/routes"
	"github.com/luminacart/discovery/internal/application/services"
	"github.com/luminacart/discovery/internal/domain/providers"
	"github.com/luminacart/discovery/internal/infrastructure/clients/redis"
	"github.com/luminacart/discovery/internal/infrastructure/observability"
	"github.com/luminacart/discovery/pkg/config"
	"github.com/rs/zerolog/log"
)

func main() {

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Load the product catalog
	catalogAdapter, err := catalog.NewJSONAdapter(cfg.Catalog.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load product catalog")
	}
	log.Info().Int("products", catalogAdapter.Size()).Msg("Product catalog loaded")

	// Initialize Redis client if enabled
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Redis client")
			// Continue without Redis - the application can work without caching
		} else {
			defer redisClient.Close()
			log.Info().Msg("Redis client initialized successfully")
		}
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	} else {
		cacheProvider = cache.NewMemoryAdapter()
		log.Info().Msg("Using in-memory cache (Redis unavailable)")
	}

	// Initialize event bus for behavior fan-out
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("Event bus initialized successfully")
	} else {
		log.Info().Msg("Event bus disabled (Redis not available)")
	}

	// Initialize in-memory stores
	behaviorAdapter := behavior.NewMemoryAdapter()
	analyticsAdapter := analytics.NewMemoryAdapter()

	// Initialize services

	vocab := services.DefaultVocabulary()
	if cfg.Search.VocabularyPath != "" {
		vocab, err = services.LoadVocabulary(cfg.Search.VocabularyPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Search.VocabularyPath).Msg("Failed to load vocabulary")
		}
		log.Info().Str("path", cfg.Search.VocabularyPath).Msg("Vocabulary loaded")
	}
	parser := services.NewQueryUnderstandingService(vocab)

	suggestionService := services.NewSuggestionService(catalogAdapter, parser, analyticsAdapter)

	searchService := services.NewSearchService(parser, catalogAdapter, suggestionService, analyticsAdapter)
	searchService.SetMetrics(metrics)

	recommendationService := services.NewRecommendationService(catalogAdapter, behaviorAdapter)
	if eventBus != nil {
		recommendationService.SetEventBus(eventBus)
		log.Info().Msg("Event bus configured for recommendation service")
	}

	// Initialize handlers

	productHandler := handlers.NewProductHandler(catalogAdapter, recommendationService)
	searchHandler := handlers.NewSearchHandler(searchService, suggestionService, recommendationService, cfg.Search)
	behaviorHandler := handlers.NewBehaviorHandler(recommendationService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService, cfg.Search.RecommendationLimit)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsAdapter)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Info().Msg("Cache middleware initialized successfully")
	}

	// Set up router

	router := routes.NewRouter(
		productHandler,
		searchHandler,
		behaviorHandler,
		recommendationHandler,
		analyticsHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}
