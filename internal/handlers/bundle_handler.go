package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/edulabs/promo-service/internal/models"
	"github.com/edulabs/promo-service/internal/repository"
	"github.com/edulabs/promo-service/internal/service"
	"github.com/edulabs/promo-service/internal/validation"
	"github.com/go-chi/chi/v5"
)

// BundleHandler handles bundle-related HTTP requests
type BundleHandler struct {
	bundleService *service.BundleService
	log           *slog.Logger
}

// NewBundleHandler creates a new bundle handler
func NewBundleHandler(bundleService *service.BundleService, log *slog.Logger) *BundleHandler {
	return &BundleHandler{
		bundleService: bundleService,
		log:           log,
	}
}

// validateResponse is the body returned by the validate endpoint and by
// rejected create/update calls.
type validateResponse struct {
	Valid      bool              `json:"valid"`
	Violations map[string]string `json:"violations"`
	Bundle     *models.Bundle    `json:"bundle,omitempty"`
}

func newValidateResponse(report validation.Report, b *models.Bundle) validateResponse {
	return validateResponse{
		Valid:      report.Valid(),
		Violations: report.Violations,
		Bundle:     b,
	}
}

// Validate handles POST /api/bundle/validate
// Runs deadline derivation and invariant checks over the submitted
// draft and returns the report together with the normalized draft.
func (h *BundleHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var draft models.Bundle
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.log.Error("failed to decode bundle draft", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	report := h.bundleService.Validate(&draft)
	WriteJSON(w, http.StatusOK, newValidateResponse(report, &draft), h.log)
}

// Create handles POST /api/bundle
func (h *BundleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft models.Bundle
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.log.Error("failed to decode bundle draft", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	report, err := h.bundleService.Create(r.Context(), &draft)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDraft) {
			WriteJSON(w, http.StatusUnprocessableEntity, newValidateResponse(report, nil), h.log)
			return
		}
		h.log.Error("failed to create bundle", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusCreated, draft, h.log)
	h.log.Info("bundle created", "bundle_id", draft.ID, "items_count", len(draft.Items))
}

// List handles GET /api/bundle
func (h *BundleHandler) List(w http.ResponseWriter, r *http.Request) {
	bundles, err := h.bundleService.List(r.Context())
	if err != nil {
		h.log.Error("failed to list bundles", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}
	if bundles == nil {
		bundles = []models.Bundle{}
	}
	WriteJSON(w, http.StatusOK, bundles, h.log)
}

// Get handles GET /api/bundle/{bundleId}
func (h *BundleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bundleId")

	b, err := h.bundleService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBundleNotFound) {
			WriteError(w, http.StatusNotFound, "Bundle not found", h.log)
			return
		}
		h.log.Error("failed to get bundle", "bundle_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, b, h.log)
}

// Update handles PUT /api/bundle/{bundleId}
func (h *BundleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bundleId")

	var draft models.Bundle
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.log.Error("failed to decode bundle draft", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	report, err := h.bundleService.Update(r.Context(), id, &draft)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDraft):
			WriteJSON(w, http.StatusUnprocessableEntity, newValidateResponse(report, nil), h.log)
		case errors.Is(err, repository.ErrBundleNotFound):
			WriteError(w, http.StatusNotFound, "Bundle not found", h.log)
		default:
			h.log.Error("failed to update bundle", "bundle_id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, draft, h.log)
}

// Delete handles DELETE /api/bundle/{bundleId}
func (h *BundleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bundleId")

	if err := h.bundleService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrBundleNotFound) {
			WriteError(w, http.StatusNotFound, "Bundle not found", h.log)
			return
		}
		h.log.Error("failed to delete bundle", "bundle_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
