package service

import (
	"context"
	"errors"
	"time"

	"github.com/edulabs/promo-service/internal/bundle"
	"github.com/edulabs/promo-service/internal/models"
	"github.com/edulabs/promo-service/internal/repository"
	"github.com/edulabs/promo-service/internal/validation"
	"github.com/google/uuid"
)

var (
	// ErrInvalidDraft signals that a create or update was attempted with
	// a draft that fails validation; the report carries the details.
	ErrInvalidDraft = errors.New("draft failed validation")
)

// BundleService handles bundle business logic: draft normalization,
// validation and CRUD gated on a clean validation report.
type BundleService struct {
	bundles repository.BundleRepository
	now     func() time.Time
}

// NewBundleService creates a new bundle service. A nil clock defaults
// to time.Now.
func NewBundleService(bundles repository.BundleRepository, now func() time.Time) *BundleService {
	if now == nil {
		now = time.Now
	}
	return &BundleService{bundles: bundles, now: now}
}

// Normalize re-derives the bundle's registration deadline from its
// current item set. Drafts arrive whole from the form layer on every
// change, so this replays the derivation the editor would have run:
// when a future deadline exists among the items and the field has not
// been manually overridden, the earliest one wins; when none exists the
// manual value is kept and the auto flag cleared.
func (s *BundleService) Normalize(draft *models.Bundle) {
	derived, ok := bundle.DeriveRegistrationDeadline(draft.Items, s.now())
	if !ok {
		draft.DeadlineIsAuto = false
		return
	}
	if draft.DeadlineIsAuto {
		draft.RegistrationDeadline = &derived
	}
}

// Validate normalizes the draft and evaluates the composition and
// pricing invariants.
func (s *BundleService) Validate(draft *models.Bundle) validation.Report {
	s.Normalize(draft)
	return bundle.Validate(draft)
}

// Create persists a new bundle. An invalid draft is rejected with
// ErrInvalidDraft and the offending report.
func (s *BundleService) Create(ctx context.Context, draft *models.Bundle) (validation.Report, error) {
	report := s.Validate(draft)
	if !report.Valid() {
		return report, ErrInvalidDraft
	}
	draft.ID = uuid.New().String()
	if err := s.bundles.Create(ctx, draft); err != nil {
		return report, err
	}
	return report, nil
}

// Update replaces an existing bundle, subject to the same validation
// gate as Create.
func (s *BundleService) Update(ctx context.Context, id string, draft *models.Bundle) (validation.Report, error) {
	report := s.Validate(draft)
	if !report.Valid() {
		return report, ErrInvalidDraft
	}
	draft.ID = id
	if err := s.bundles.Update(ctx, draft); err != nil {
		return report, err
	}
	return report, nil
}

// Get returns a bundle by ID.
func (s *BundleService) Get(ctx context.Context, id string) (*models.Bundle, error) {
	return s.bundles.GetByID(ctx, id)
}

// List returns all bundles.
func (s *BundleService) List(ctx context.Context) ([]models.Bundle, error) {
	return s.bundles.List(ctx)
}

// Delete removes a bundle by ID.
func (s *BundleService) Delete(ctx context.Context, id string) error {
	return s.bundles.Delete(ctx, id)
}
