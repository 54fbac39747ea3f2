// Package bundle implements the bundle composition rules: item
// selection, registration-deadline derivation and the composition and
// pricing invariants a bundle must satisfy before it can be persisted.
package bundle

import (
	"errors"
	"time"

	"github.com/edulabs/promo-service/internal/models"
	"github.com/edulabs/promo-service/internal/validation"
)

var (
	// ErrAlreadyAdded signals a duplicate AddItem call. It is a
	// recoverable user notice, not a validation failure: the draft is
	// left unchanged and remains submittable.
	ErrAlreadyAdded = errors.New("product already added to bundle")

	// ErrItemIndex signals a RemoveItem call with an out-of-range index.
	ErrItemIndex = errors.New("bundle item index out of range")
)

// Composer maintains a bundle draft's item set and its derived fields.
// The clock is injectable so deadline derivation is testable.
type Composer struct {
	draft *models.Bundle
	now   func() time.Time
}

// NewComposer wraps an existing draft. A nil clock defaults to time.Now.
func NewComposer(draft *models.Bundle, now func() time.Time) *Composer {
	if now == nil {
		now = time.Now
	}
	return &Composer{draft: draft, now: now}
}

// Draft returns the draft under edit.
func (c *Composer) Draft() *models.Bundle {
	return c.draft
}

// AddItem appends a catalog product to the bundle, snapshotting its
// price and registration deadline at selection time. Returns
// ErrAlreadyAdded if the product is already in the bundle.
func (c *Composer) AddItem(t models.ProductType, p models.Product) error {
	if c.draft.HasItem(t, p.ID) {
		return ErrAlreadyAdded
	}
	c.draft.Items = append(c.draft.Items, models.BundleItem{
		Type:                 t,
		ProductID:            p.ID,
		Title:                p.Title,
		Price:                p.Price,
		RegistrationDeadline: p.RegistrationDeadline,
	})
	c.rederiveDeadline()
	return nil
}

// RemoveItem removes the item at the given index and recomputes the
// derived deadline from the remaining items.
func (c *Composer) RemoveItem(index int) error {
	if index < 0 || index >= len(c.draft.Items) {
		return ErrItemIndex
	}
	c.draft.Items = append(c.draft.Items[:index], c.draft.Items[index+1:]...)
	c.rederiveDeadline()
	return nil
}

// SetRegistrationDeadline records a manual deadline override. The auto
// flag is cleared until the next item-set change forces recomputation.
func (c *Composer) SetRegistrationDeadline(ts *time.Time) {
	c.draft.RegistrationDeadline = ts
	c.draft.DeadlineIsAuto = false
}

// TotalOriginalPrice sums the snapshotted prices of all current items.
// It is both the displayed "normal price" and the upper bound for the
// bundle's own sale price.
func (c *Composer) TotalOriginalPrice() float64 {
	return TotalOriginalPrice(c.draft.Items)
}

// rederiveDeadline runs after every item-set mutation. When no item
// contributes a future deadline the field keeps its last manually-set
// value and the auto flag is cleared.
func (c *Composer) rederiveDeadline() {
	deadline, ok := DeriveRegistrationDeadline(c.draft.Items, c.now())
	if !ok {
		c.draft.DeadlineIsAuto = false
		return
	}
	c.draft.RegistrationDeadline = &deadline
	c.draft.DeadlineIsAuto = true
}

// Validate evaluates the current draft against the composition and
// pricing invariants.
func (c *Composer) Validate() validation.Report {
	return Validate(c.draft)
}

// TotalOriginalPrice sums the snapshotted item prices.
func TotalOriginalPrice(items []models.BundleItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price
	}
	return total
}

// DeriveRegistrationDeadline returns the earliest registration deadline
// among items whose deadline is non-nil and strictly after now. Once any
// one sub-product closes registration, joint enrollment is impossible
// beyond that point, so the minimum is the binding constraint.
//
// The second return value is false when no item has a future deadline
// (all courses, or every deadline already passed); callers then keep the
// last manually-set value. Derivation is always a full recompute over
// the item set, never an incremental patch.
func DeriveRegistrationDeadline(items []models.BundleItem, now time.Time) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, it := range items {
		d := it.RegistrationDeadline
		if d == nil || !d.After(now) {
			continue
		}
		if !found || d.Before(earliest) {
			earliest = *d
		}
		found = true
	}
	return earliest, found
}

// Validate checks the bundle invariants and reports per-field
// violations:
//
//   - title: must be non-empty
//   - items: at least two distinct products, at least one of them paid
//   - price: non-negative and no greater than the sum of item prices
//
// Duplicate products are counted once; AddItem prevents duplicates but
// drafts arriving over the wire are not trusted to be de-duplicated.
func Validate(draft *models.Bundle) validation.Report {
	report := validation.NewReport()

	if draft.Title == "" {
		report.Add("title", "title is required")
	}

	distinct := make(map[models.ProductType]map[string]bool)
	hasPaid := false
	for _, it := range draft.Items {
		if distinct[it.Type] == nil {
			distinct[it.Type] = make(map[string]bool)
		}
		if distinct[it.Type][it.ProductID] {
			continue
		}
		distinct[it.Type][it.ProductID] = true
		if it.Price > 0 {
			hasPaid = true
		}
	}
	count := 0
	for _, ids := range distinct {
		count += len(ids)
	}

	switch {
	case count < 2:
		report.Add("items", "bundle requires at least 2 products")
	case !hasPaid:
		report.Add("items", "bundle requires at least one paid product")
	}

	if draft.Price < 0 {
		report.Add("price", "price must not be negative")
	} else if total := TotalOriginalPrice(draft.Items); draft.Price > total {
		report.Add("price", "price must not exceed the total normal price")
	}

	return report
}
