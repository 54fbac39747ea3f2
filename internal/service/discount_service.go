package service

import (
	"context"
	"errors"
	"time"

	"github.com/edulabs/promo-service/internal/discount"
	"github.com/edulabs/promo-service/internal/models"
	"github.com/edulabs/promo-service/internal/repository"
	"github.com/edulabs/promo-service/internal/validation"
	"github.com/google/uuid"
)

var (
	// ErrCodeTaken signals that another discount code already uses the
	// requested code string.
	ErrCodeTaken = errors.New("discount code already in use")
)

// SelectedProduct pairs an allow-list entry with its display status,
// recomputed against the draft's current start date.
type SelectedProduct struct {
	models.BundleItem
	Status discount.Status `json:"status,omitempty"`
}

// DiscountService handles discount-code business logic: eligibility
// resolution, validation and CRUD with unique-code enforcement.
type DiscountService struct {
	codes    repository.DiscountCodeRepository
	products repository.ProductRepository
	now      func() time.Time
}

// NewDiscountService creates a new discount service. A nil clock
// defaults to time.Now.
func NewDiscountService(codes repository.DiscountCodeRepository, products repository.ProductRepository, now func() time.Time) *DiscountService {
	if now == nil {
		now = time.Now
	}
	return &DiscountService{codes: codes, products: products, now: now}
}

// Validate evaluates the draft's value and window invariants.
func (s *DiscountService) Validate(draft *models.DiscountCode) validation.Report {
	return discount.Validate(draft)
}

// AvailableProducts returns the catalog products of the given type the
// draft can still add to its allow-list, honoring the start-date filter
// for time-bound types.
func (s *DiscountService) AvailableProducts(ctx context.Context, t models.ProductType, draft *models.DiscountCode) ([]models.Product, error) {
	if !t.Valid() {
		return nil, ErrInvalidProductType
	}
	snapshot, err := s.products.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return discount.AvailableProducts(t, snapshot, draft), nil
}

// SelectedProducts classifies the draft's current allow-list entries
// for display. Entries picked before a start-date change are kept and
// merely annotated, never dropped.
func (s *DiscountService) SelectedProducts(draft *models.DiscountCode) []SelectedProduct {
	now := s.now()
	out := make([]SelectedProduct, 0, len(draft.ApplicableProducts))
	for _, p := range draft.ApplicableProducts {
		out = append(out, SelectedProduct{
			BundleItem: p,
			Status:     discount.ClassifyProduct(p, now, draft.StartsAt),
		})
	}
	return out
}

// Create persists a new discount code. Invalid drafts are rejected with
// ErrInvalidDraft; duplicate code strings with ErrCodeTaken.
func (s *DiscountService) Create(ctx context.Context, draft *models.DiscountCode) (validation.Report, error) {
	report := s.Validate(draft)
	if !report.Valid() {
		return report, ErrInvalidDraft
	}

	taken, err := s.codes.CodeExists(ctx, draft.Code)
	if err != nil {
		return report, err
	}
	if taken {
		return report, ErrCodeTaken
	}

	draft.ID = uuid.New().String()
	if err := s.codes.Create(ctx, draft); err != nil {
		return report, err
	}
	return report, nil
}

// Update replaces an existing discount code, re-checking code
// uniqueness only when the code string actually changed.
func (s *DiscountService) Update(ctx context.Context, id string, draft *models.DiscountCode) (validation.Report, error) {
	report := s.Validate(draft)
	if !report.Valid() {
		return report, ErrInvalidDraft
	}

	existing, err := s.codes.GetByID(ctx, id)
	if err != nil {
		return report, err
	}
	if draft.Code != existing.Code {
		taken, err := s.codes.CodeExists(ctx, draft.Code)
		if err != nil {
			return report, err
		}
		if taken {
			return report, ErrCodeTaken
		}
	}

	draft.ID = id
	if err := s.codes.Update(ctx, draft); err != nil {
		return report, err
	}
	return report, nil
}

// Get returns a discount code by ID.
func (s *DiscountService) Get(ctx context.Context, id string) (*models.DiscountCode, error) {
	return s.codes.GetByID(ctx, id)
}

// List returns all discount codes.
func (s *DiscountService) List(ctx context.Context) ([]models.DiscountCode, error) {
	return s.codes.List(ctx)
}

// Delete removes a discount code by ID.
func (s *DiscountService) Delete(ctx context.Context, id string) error {
	return s.codes.Delete(ctx, id)
}
