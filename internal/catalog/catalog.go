// Package catalog provides read-only views over the product catalog for
// the bundle and discount editors. All functions are pure over the
// snapshot and the current draft selection.
package catalog

import "github.com/edulabs/promo-service/internal/models"

// Selection is the subset of a draft the catalog view needs: whether a
// product is already chosen. Both bundle and discount drafts satisfy it.
type Selection interface {
	IsSelected(t models.ProductType, productID string) bool
}

// Available returns the products of the given type that are not already
// part of the current selection, preserving catalog order.
func Available(c models.Catalog, t models.ProductType, sel Selection) []models.Product {
	products := c[t]
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if sel != nil && sel.IsSelected(t, p.ID) {
			continue
		}
		out = append(out, p)
	}
	return out
}
