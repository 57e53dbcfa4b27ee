package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/luminacart/discovery/internal/application/services"
	"github.com/luminacart/discovery/internal/domain/repositories"
	apperrors "github.com/luminacart/discovery/pkg/errors"
)

// ProductHandler handles product catalog HTTP requests
type ProductHandler struct {
	catalog         repositories.CatalogRepository
	recommendations *services.RecommendationService
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog repositories.CatalogRepository, recommendations *services.RecommendationService) *ProductHandler {
	return &ProductHandler{
		catalog:         catalog,
		recommendations: recommendations,
	}
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	if productID == "" {
		respondWithError(w, http.StatusBadRequest, "product ID is required")
		return
	}

	product, err := h.catalog.GetByID(r.Context(), productID)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			switch appErr.Type {
			case apperrors.ErrorTypeNotFound:
				respondWithError(w, http.StatusNotFound, appErr.Message)
			default:
				respondWithError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, product)
}

// GetRelatedProducts handles GET /api/products/{id}/related
func (h *ProductHandler) GetRelatedProducts(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	if productID == "" {
		respondWithError(w, http.StatusBadRequest, "product ID is required")
		return
	}

	limit := queryInt(r, "limit", 0)
	related, err := h.recommendations.GetRelatedProducts(r.Context(), productID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get related products")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"related": related,
		"count":   len(related),
	})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
