// Package discount implements the discount-code eligibility rules:
// which catalog products a code may target given its type filters,
// explicit allow-list and validity window, plus the draft-level
// value and window validation.
package discount

import (
	"time"

	"github.com/edulabs/promo-service/internal/models"
	"github.com/edulabs/promo-service/internal/validation"
)

// Status classifies an already-selected product for display. It is
// never a hard filter: a product picked before the code's start date
// changed stays in the allow-list and is merely annotated.
type Status string

const (
	// StatusNone applies to courses and to products without a deadline.
	StatusNone Status = ""
	// StatusClosed means registration is already over in absolute time.
	StatusClosed Status = "closed"
	// StatusClosesBeforeStart means registration is still open now but
	// will close before the discount period begins.
	StatusClosesBeforeStart Status = "closes-before-discount-active"
	// StatusOpen means registration stays open into the discount window.
	StatusOpen Status = "open"
)

// AvailableProducts returns the catalog products of the given type that
// the draft can still add to its allow-list, in catalog order. Products
// already in ApplicableProducts are excluded; for time-bound types,
// products whose registration closes strictly before the code starts
// are excluded as well, since the discount could never apply to them.
// Courses are not time-bound and are never deadline-filtered.
func AvailableProducts(t models.ProductType, c models.Catalog, draft *models.DiscountCode) []models.Product {
	out := make([]models.Product, 0, len(c[t]))
	for _, p := range c[t] {
		if draft.HasProduct(t, p.ID) {
			continue
		}
		if t.TimeBound() && p.RegistrationDeadline != nil && p.RegistrationDeadline.Before(draft.StartsAt) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ClassifyProduct returns the display status for a selected product.
func ClassifyProduct(p models.BundleItem, now, startsAt time.Time) Status {
	if !p.Type.TimeBound() || p.RegistrationDeadline == nil {
		return StatusNone
	}
	deadline := *p.RegistrationDeadline
	switch {
	case deadline.Before(now):
		return StatusClosed
	case !startsAt.IsZero() && deadline.Before(startsAt):
		return StatusClosesBeforeStart
	default:
		return StatusOpen
	}
}

// Draft wraps a discount-code draft with its mutation operations. All
// filter operations are pure and total; only Validate produces
// reportable violations.
type Draft struct {
	code *models.DiscountCode
}

// NewDraft wraps an existing discount-code draft.
func NewDraft(code *models.DiscountCode) *Draft {
	return &Draft{code: code}
}

// Code returns the draft under edit.
func (d *Draft) Code() *models.DiscountCode {
	return d.code
}

// SetApplicableTypes replaces the allowed-type set. Allow-list entries
// whose type is no longer allowed are removed, preserving the order of
// the survivors: a code cannot reference a product of a de-selected
// type.
func (d *Draft) SetApplicableTypes(types []models.ProductType) {
	d.code.ApplicableTypes = types
	if len(types) == 0 {
		return
	}
	kept := d.code.ApplicableProducts[:0]
	for _, p := range d.code.ApplicableProducts {
		if d.code.AllowsType(p.Type) {
			kept = append(kept, p)
		}
	}
	d.code.ApplicableProducts = kept
}

// AddApplicableProduct appends a product snapshot to the allow-list,
// capturing title, price and deadline for later status classification.
// A duplicate add is a silent no-op.
func (d *Draft) AddApplicableProduct(t models.ProductType, p models.Product) {
	if d.code.HasProduct(t, p.ID) {
		return
	}
	d.code.ApplicableProducts = append(d.code.ApplicableProducts, models.BundleItem{
		Type:                 t,
		ProductID:            p.ID,
		Title:                p.Title,
		Price:                p.Price,
		RegistrationDeadline: p.RegistrationDeadline,
	})
}

// RemoveApplicableProduct removes the matching snapshot, if present.
func (d *Draft) RemoveApplicableProduct(t models.ProductType, productID string) {
	for i, p := range d.code.ApplicableProducts {
		if p.Type == t && p.ProductID == productID {
			d.code.ApplicableProducts = append(d.code.ApplicableProducts[:i], d.code.ApplicableProducts[i+1:]...)
			return
		}
	}
}

// Validate evaluates the current draft.
func (d *Draft) Validate() validation.Report {
	return Validate(d.code)
}

// Validate checks the discount-code invariants and reports per-field
// violations:
//
//   - code: must be non-empty
//   - value: at least 1; percentage codes additionally capped at 100
//   - expiresAt: must be strictly after startsAt
//
// The allow-list content is not validated here; type consistency is
// enforced as a side effect of SetApplicableTypes.
func Validate(code *models.DiscountCode) validation.Report {
	report := validation.NewReport()

	if code.Code == "" {
		report.Add("code", "code is required")
	}

	if code.Value < 1 {
		report.Add("value", "value must be at least 1")
	} else if code.Type == models.DiscountPercentage && code.Value > 100 {
		report.Add("value", "percentage must not exceed 100")
	}

	if !code.ExpiresAt.After(code.StartsAt) {
		report.Add("expiresAt", "expiry must be after the start date")
	}

	return report
}
