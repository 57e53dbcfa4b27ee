package handlers

import (
	"net/http"

	"github.com/luminacart/discovery/internal/domain/repositories"
)

// AnalyticsHandler exposes search analytics aggregates
type AnalyticsHandler struct {
	analytics repositories.SearchAnalyticsRepository
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics repositories.SearchAnalyticsRepository) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GetPopularQueries handles GET /api/analytics/popular-queries
func (h *AnalyticsHandler) GetPopularQueries(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)

	queries, err := h.analytics.PopularQueries(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get popular queries")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queries": queries,
		"count":   len(queries),
	})
}

// GetZeroResultQueries handles GET /api/analytics/zero-result-queries
func (h *AnalyticsHandler) GetZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)

	events, err := h.analytics.ZeroResultQueries(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get zero-result queries")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}
