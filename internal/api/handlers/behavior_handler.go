package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/luminacart/discovery/internal/application/services"
	"github.com/luminacart/discovery/internal/domain/entities"
)

// BehaviorHandler handles behavior tracking HTTP requests
type BehaviorHandler struct {
	recommendations *services.RecommendationService
}

// NewBehaviorHandler creates a new behavior handler
func NewBehaviorHandler(recommendations *services.RecommendationService) *BehaviorHandler {
	return &BehaviorHandler{
		recommendations: recommendations,
	}
}

type trackEventRequest struct {
	UserID    string            `json:"user_id"`
	Action    string            `json:"action"`
	ProductID string            `json:"product_id"`
	Metadata  map[string]string `json:"metadata"`
}

// TrackEvent handles POST /api/events
func (h *BehaviorHandler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var req trackEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Action == "" {
		respondWithError(w, http.StatusBadRequest, "action is required")
		return
	}

	err := h.recommendations.TrackBehavior(r.Context(), req.UserID, entities.Action(req.Action), req.ProductID, req.Metadata)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to track event")
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{
		"status": "tracked",
	})
}
