package service

import (
	"context"
	"errors"

	"github.com/edulabs/promo-service/internal/catalog"
	"github.com/edulabs/promo-service/internal/models"
	"github.com/edulabs/promo-service/internal/repository"
)

var (
	ErrInvalidProductType = errors.New("invalid product type")
)

// CatalogService exposes the read-only catalog views used by the bundle
// and discount editors.
type CatalogService struct {
	products repository.ProductRepository
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(products repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// Snapshot returns the full catalog keyed by type.
func (s *CatalogService) Snapshot(ctx context.Context) (models.Catalog, error) {
	return s.products.Snapshot(ctx)
}

// ListByType returns all products of the given type in catalog order.
func (s *CatalogService) ListByType(ctx context.Context, t models.ProductType) ([]models.Product, error) {
	if !t.Valid() {
		return nil, ErrInvalidProductType
	}
	return s.products.GetByType(ctx, t)
}

// Selectable returns the products of the given type not already chosen
// by the draft, for populating pickers.
func (s *CatalogService) Selectable(ctx context.Context, t models.ProductType, sel catalog.Selection) ([]models.Product, error) {
	if !t.Valid() {
		return nil, ErrInvalidProductType
	}
	snapshot, err := s.products.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Available(snapshot, t, sel), nil
}
