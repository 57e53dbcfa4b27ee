package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/luminacart/discovery/internal/application/services"
)

// RecommendationHandler handles recommendation HTTP requests
type RecommendationHandler struct {
	recommendations *services.RecommendationService
	defaultLimit    int
}

// NewRecommendationHandler creates a new recommendation handler. defaultLimit
// is the page size used when the request does not pass one; zero falls back
// to the engine default.
func NewRecommendationHandler(recommendations *services.RecommendationService, defaultLimit int) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		defaultLimit:    defaultLimit,
	}
}

// GetPersonalRecommendations handles GET /api/recommendations/personal
func (h *RecommendationHandler) GetPersonalRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	limit := queryInt(r, "limit", h.defaultLimit)

	recs, err := h.recommendations.GetPersonalRecommendations(r.Context(), userID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get recommendations")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
		"count":           len(recs),
	})
}

// GetTrendingRecommendations handles GET /api/recommendations/trending
func (h *RecommendationHandler) GetTrendingRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", h.defaultLimit)

	recs, err := h.recommendations.GetTrendingRecommendations(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get trending products")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
		"count":           len(recs),
	})
}

type crossSellRequest struct {
	ProductIDs []string `json:"product_ids"`
	Limit      int      `json:"limit"`
}

// GetCrossSellRecommendations handles POST /api/recommendations/cross-sell
func (h *RecommendationHandler) GetCrossSellRecommendations(w http.ResponseWriter, r *http.Request) {
	var req crossSellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ProductIDs) == 0 {
		respondWithError(w, http.StatusBadRequest, "product_ids is required")
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = h.defaultLimit
	}

	recs, err := h.recommendations.GetCrossSellRecommendations(r.Context(), req.ProductIDs, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get cross-sell recommendations")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
		"count":           len(recs),
	})
}
