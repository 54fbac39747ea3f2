package models

import "time"

// ProductType identifies the kind of catalog product.
// The set is closed; use ProductTypes to iterate exhaustively.
type ProductType string

const (
	TypeCourse   ProductType = "course"
	TypeBootcamp ProductType = "bootcamp"
	TypeWebinar  ProductType = "webinar"
)

// ProductTypes lists every valid product type, in catalog display order.
var ProductTypes = []ProductType{TypeCourse, TypeBootcamp, TypeWebinar}

// Valid reports whether t is a known product type.
func (t ProductType) Valid() bool {
	switch t {
	case TypeCourse, TypeBootcamp, TypeWebinar:
		return true
	}
	return false
}

// TimeBound reports whether products of this type can carry a
// registration deadline. Courses never expire.
func (t ProductType) TimeBound() bool {
	return t == TypeBootcamp || t == TypeWebinar
}

// Product is an immutable catalog entry. IDs are unique within a type.
// RegistrationDeadline is nil for courses and for bootcamps/webinars
// with open-ended enrollment.
type Product struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Price                float64    `json:"price"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty"`
}

// Catalog is a read-only snapshot of available products, keyed by type.
// The engine never mutates it; slice order is catalog display order.
type Catalog map[ProductType][]Product
