package routes

import (
	"net/http"

	"github.com/luminacart/discovery/internal/api/handlers"
	"github.com/luminacart/discovery/internal/api/middleware"
	"github.com/luminacart/discovery/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	productHandler        *handlers.ProductHandler
	searchHandler         *handlers.SearchHandler
	behaviorHandler       *handlers.BehaviorHandler
	recommendationHandler *handlers.RecommendationHandler
	analyticsHandler      *handlers.AnalyticsHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router

func NewRouter(
	productHandler *handlers.ProductHandler,
	searchHandler *handlers.SearchHandler,
	behaviorHandler *handlers.BehaviorHandler,
	recommendationHandler *handlers.RecommendationHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {

	return &Router{
		mux: http.NewServeMux(),

		productHandler:        productHandler,
		searchHandler:         searchHandler,
		behaviorHandler:       behaviorHandler,
		recommendationHandler: recommendationHandler,
		analyticsHandler:      analyticsHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}

}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {

		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}

	})

	// Product catalog endpoints

	r.mux.HandleFunc("GET /api/products", r.productHandler.ListProducts)

	r.mux.HandleFunc("GET /api/products/search", r.searchHandler.Search)

	r.mux.HandleFunc("GET /api/products/suggest", r.searchHandler.Suggest)

	r.mux.HandleFunc("GET /api/products/{id}", r.productHandler.GetProduct)

	r.mux.HandleFunc("GET /api/products/{id}/related", r.productHandler.GetRelatedProducts)

	// Behavior tracking endpoint

	r.mux.HandleFunc("POST /api/events", r.behaviorHandler.TrackEvent)

	// Recommendation endpoints

	r.mux.HandleFunc("GET /api/recommendations/personal", r.recommendationHandler.GetPersonalRecommendations)

	r.mux.HandleFunc("GET /api/recommendations/trending", r.recommendationHandler.GetTrendingRecommendations)

	r.mux.HandleFunc("POST /api/recommendations/cross-sell", r.recommendationHandler.GetCrossSellRecommendations)

	// Analytics endpoints
	if r.analyticsHandler != nil {
		r.mux.HandleFunc("GET /api/analytics/popular-queries", r.analyticsHandler.GetPopularQueries)
		r.mux.HandleFunc("GET /api/analytics/zero-result-queries", r.analyticsHandler.GetZeroResultQueries)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
