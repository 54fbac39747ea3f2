package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/edulabs/promo-service/internal/models"
	"github.com/edulabs/promo-service/internal/service"
	"github.com/go-chi/chi/v5"
)

// CatalogHandler handles catalog-related HTTP requests
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// Snapshot handles GET /api/catalog
// Returns the full catalog keyed by product type
func (h *CatalogHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, catalog)
}

// ListByType handles GET /api/catalog/{productType}
// Returns all products of one type in catalog order:
// - 200: successful operation
// - 400: unknown product type
func (h *CatalogHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	t := models.ProductType(chi.URLParam(r, "productType"))

	products, err := h.service.ListByType(r.Context(), t)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProductType) {
			h.logger.Warn("unknown product type", "type", string(t))
			h.writeError(w, http.StatusBadRequest, "Unknown product type")
			return
		}

		h.logger.Error("failed to list products", "type", string(t), "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if products == nil {
		products = []models.Product{}
	}
	h.writeJSON(w, http.StatusOK, products)
}

// writeJSON writes a JSON response
func (h *CatalogHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response
func (h *CatalogHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}
