package models

import "time"

// BundleItem references a catalog product plus a snapshot of its price
// and registration deadline taken at selection time. The snapshot does
// not track later catalog price changes.
type BundleItem struct {
	Type                 ProductType `json:"type"`
	ProductID            string      `json:"productId"`
	Title                string      `json:"title"`
	Price                float64     `json:"price"`
	RegistrationDeadline *time.Time  `json:"registrationDeadline,omitempty"`
}

// Bundle is a composite offering built from at least two distinct
// catalog products sold at a single price.
//
// RegistrationDeadline is auto-derived from the items' deadlines while
// DeadlineIsAuto is true; a manual edit clears the flag until the next
// item-set change forces recomputation.
type Bundle struct {
	ID                   string       `json:"id,omitempty"`
	Title                string       `json:"title"`
	Price                float64      `json:"price"`
	RegistrationDeadline *time.Time   `json:"registrationDeadline,omitempty"`
	DeadlineIsAuto       bool         `json:"deadlineIsAuto"`
	Items                []BundleItem `json:"items"`
}

// HasItem reports whether the bundle already contains the given product.
func (b *Bundle) HasItem(t ProductType, productID string) bool {
	for _, it := range b.Items {
		if it.Type == t && it.ProductID == productID {
			return true
		}
	}
	return false
}

// IsSelected implements catalog.Selection for bundle drafts.
func (b *Bundle) IsSelected(t ProductType, productID string) bool {
	return b.HasItem(t, productID)
}
