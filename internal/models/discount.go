package models

import "time"

// DiscountValueType distinguishes percentage codes from fixed-amount codes.
type DiscountValueType string

const (
	DiscountPercentage DiscountValueType = "percentage"
	DiscountFixed      DiscountValueType = "fixed"
)

// Valid reports whether t is a known discount value type.
func (t DiscountValueType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// DiscountCode is a promotional rule limiting which products, and over
// which time window, a price reduction applies to.
//
// ApplicableTypes empty means all types; ApplicableProducts empty means
// all products of the allowed types. Every ApplicableProducts entry must
// have a type present in ApplicableTypes whenever the latter is non-empty.
type DiscountCode struct {
	ID                 string            `json:"id,omitempty"`
	Code               string            `json:"code"`
	Type               DiscountValueType `json:"type"`
	Value              float64           `json:"value"`
	StartsAt           time.Time         `json:"startsAt"`
	ExpiresAt          time.Time         `json:"expiresAt"`
	ApplicableTypes    []ProductType     `json:"applicableTypes,omitempty"`
	ApplicableProducts []BundleItem      `json:"applicableProducts,omitempty"`
}

// AllowsType reports whether products of type t are within the code's
// type filter. An empty filter allows every type.
func (d *DiscountCode) AllowsType(t ProductType) bool {
	if len(d.ApplicableTypes) == 0 {
		return true
	}
	for _, allowed := range d.ApplicableTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// HasProduct reports whether the code's allow-list already contains the
// given product.
func (d *DiscountCode) HasProduct(t ProductType, productID string) bool {
	for _, p := range d.ApplicableProducts {
		if p.Type == t && p.ProductID == productID {
			return true
		}
	}
	return false
}

// IsSelected implements catalog.Selection for discount drafts.
func (d *DiscountCode) IsSelected(t ProductType, productID string) bool {
	return d.HasProduct(t, productID)
}
