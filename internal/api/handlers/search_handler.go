package handlers

import (
	"net/http"

	"github.com/luminacart/discovery/internal/application/services"
	"github.com/luminacart/discovery/internal/domain/entities"
	"github.com/luminacart/discovery/pkg/config"
	"github.com/rs/zerolog/log"
)

// SearchHandler handles search and suggestion HTTP requests
type SearchHandler struct {
	search          *services.SearchService
	suggestions     *services.SuggestionService
	recommendations *services.RecommendationService
	cfg             config.SearchConfig
}

// NewSearchHandler creates a new search handler. The recommendation service
// is optional; when present, searches are tracked as behavior signals.
func NewSearchHandler(
	search *services.SearchService,
	suggestions *services.SuggestionService,
	recommendations *services.RecommendationService,
	cfg config.SearchConfig,
) *SearchHandler {
	return &SearchHandler{
		search:          search,
		suggestions:     suggestions,
		recommendations: recommendations,
		cfg:             cfg,
	}
}

// Search handles GET /api/products/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := queryInt(r, "limit", h.cfg.DefaultLimit)
	if limit <= 0 {
		limit = h.cfg.DefaultLimit
	}
	if limit > h.cfg.MaxLimit {
		limit = h.cfg.MaxLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	opts := services.SearchOptions{
		Limit:     limit,
		Offset:    offset,
		UserID:    r.URL.Query().Get("user_id"),
		SessionID: r.URL.Query().Get("session_id"),
	}

	result, err := h.search.Search(r.Context(), query, opts)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "search failed")
		return
	}

	if h.recommendations != nil && query != "" {
		if err := h.recommendations.TrackBehavior(r.Context(), opts.UserID, entities.ActionSearch, "", map[string]string{"query": query}); err != nil {
			log.Warn().Err(err).Msg("failed to track search behavior")
		}
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Suggest handles GET /api/products/suggest
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	partial := r.URL.Query().Get("q")
	suggestions := h.suggestions.Suggest(r.Context(), partial)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}
