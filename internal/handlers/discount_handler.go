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

// DiscountHandler handles discount-code HTTP requests
type DiscountHandler struct {
	discountService *service.DiscountService
	log             *slog.Logger
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(discountService *service.DiscountService, log *slog.Logger) *DiscountHandler {
	return &DiscountHandler{
		discountService: discountService,
		log:             log,
	}
}

type discountValidateResponse struct {
	Valid      bool              `json:"valid"`
	Violations map[string]string `json:"violations"`
}

func newDiscountValidateResponse(report validation.Report) discountValidateResponse {
	return discountValidateResponse{
		Valid:      report.Valid(),
		Violations: report.Violations,
	}
}

// Validate handles POST /api/discount/validate
func (h *DiscountHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var draft models.DiscountCode
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.log.Error("failed to decode discount draft", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	report := h.discountService.Validate(&draft)
	WriteJSON(w, http.StatusOK, newDiscountValidateResponse(report), h.log)
}

// availableResponse pairs the still-selectable products with the status
// classification of the products already on the allow-list.
type availableResponse struct {
	Available []models.Product          `json:"available"`
	Selected  []service.SelectedProduct `json:"selected"`
}

// Available handles POST /api/discount/available?type={productType}
// Body is the current draft; the response lists the products of the
// requested type the draft can still target, given its start date.
func (h *DiscountHandler) Available(w http.ResponseWriter, r *http.Request) {
	t := models.ProductType(r.URL.Query().Get("type"))

	var draft models.DiscountCode
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.log.Error("failed to decode discount draft", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	products, err := h.discountService.AvailableProducts(r.Context(), t, &draft)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProductType) {
			WriteError(w, http.StatusBadRequest, "Unknown product type", h.log)
			return
		}
		h.log.Error("failed to resolve available products", "type", string(t), "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, availableResponse{
		Available: products,
		Selected:  h.discountService.SelectedProducts(&draft),
	}, h.log)
}

// Create handles POST /api/discount
func (h *DiscountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft models.DiscountCode
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.log.Error("failed to decode discount draft", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	report, err := h.discountService.Create(r.Context(), &draft)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDraft):
			WriteJSON(w, http.StatusUnprocessableEntity, newDiscountValidateResponse(report), h.log)
		case errors.Is(err, service.ErrCodeTaken):
			WriteError(w, http.StatusConflict, "Discount code already in use", h.log)
		default:
			h.log.Error("failed to create discount code", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, draft, h.log)
	h.log.Info("discount code created", "discount_id", draft.ID, "code", draft.Code)
}

// List handles GET /api/discount
func (h *DiscountHandler) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.discountService.List(r.Context())
	if err != nil {
		h.log.Error("failed to list discount codes", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}
	if codes == nil {
		codes = []models.DiscountCode{}
	}
	WriteJSON(w, http.StatusOK, codes, h.log)
}

// Get handles GET /api/discount/{discountId}
func (h *DiscountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "discountId")

	c, err := h.discountService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrDiscountCodeNotFound) {
			WriteError(w, http.StatusNotFound, "Discount code not found", h.log)
			return
		}
		h.log.Error("failed to get discount code", "discount_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, c, h.log)
}

// Update handles PUT /api/discount/{discountId}
func (h *DiscountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "discountId")

	var draft models.DiscountCode
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.log.Error("failed to decode discount draft", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	report, err := h.discountService.Update(r.Context(), id, &draft)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDraft):
			WriteJSON(w, http.StatusUnprocessableEntity, newDiscountValidateResponse(report), h.log)
		case errors.Is(err, service.ErrCodeTaken):
			WriteError(w, http.StatusConflict, "Discount code already in use", h.log)
		case errors.Is(err, repository.ErrDiscountCodeNotFound):
			WriteError(w, http.StatusNotFound, "Discount code not found", h.log)
		default:
			h.log.Error("failed to update discount code", "discount_id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, draft, h.log)
}

// Delete handles DELETE /api/discount/{discountId}
func (h *DiscountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "discountId")

	if err := h.discountService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrDiscountCodeNotFound) {
			WriteError(w, http.StatusNotFound, "Discount code not found", h.log)
			return
		}
		h.log.Error("failed to delete discount code", "discount_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
