package repository

import (
	"context"
	"errors"
	"time"

	"github.com/edulabs/promo-service/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for catalog data access. The
// catalog is read-only from the engine's point of view; products are
// created and destroyed by an upstream system.
type ProductRepository interface {
	Snapshot(ctx context.Context) (models.Catalog, error)
	GetByType(ctx context.Context, t models.ProductType) ([]models.Product, error)
	GetByID(ctx context.Context, t models.ProductType, id string) (*models.Product, error)
}

// InMemoryProductRepository implements ProductRepository with in-memory
// storage, used in tests and when no database is configured.
type InMemoryProductRepository struct {
	catalog models.Catalog
}

// NewInMemoryProductRepository creates an in-memory catalog with seed
// data covering all three product types.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	in30d := time.Now().AddDate(0, 0, 30)
	in14d := time.Now().AddDate(0, 0, 14)
	in7d := time.Now().AddDate(0, 0, 7)

	catalog := models.Catalog{
		models.TypeCourse: {
			{ID: "crs-1", Title: "Intro to Programming", Price: 150000},
			{ID: "crs-2", Title: "Data Structures in Practice", Price: 200000},
			{ID: "crs-3", Title: "SQL Fundamentals", Price: 175000},
			{ID: "crs-4", Title: "Git Essentials", Price: 0},
		},
		models.TypeBootcamp: {
			{ID: "btc-1", Title: "Fullstack Web Bootcamp", Price: 1500000, RegistrationDeadline: &in30d},
			{ID: "btc-2", Title: "Data Engineering Bootcamp", Price: 1750000, RegistrationDeadline: &in14d},
			{ID: "btc-3", Title: "UI/UX Bootcamp", Price: 1250000},
		},
		models.TypeWebinar: {
			{ID: "web-1", Title: "Career Switch Q&A", Price: 0, RegistrationDeadline: &in7d},
			{ID: "web-2", Title: "System Design Deep Dive", Price: 50000, RegistrationDeadline: &in14d},
			{ID: "web-3", Title: "Freelancing 101", Price: 25000},
		},
	}

	return &InMemoryProductRepository{catalog: catalog}
}

// NewInMemoryProductRepositoryWith creates an in-memory catalog from the
// given snapshot.
func NewInMemoryProductRepositoryWith(c models.Catalog) *InMemoryProductRepository {
	return &InMemoryProductRepository{catalog: c}
}

// Snapshot returns the full catalog.
func (r *InMemoryProductRepository) Snapshot(ctx context.Context) (models.Catalog, error) {
	return r.catalog, nil
}

// GetByType returns all products of the given type in catalog order.
func (r *InMemoryProductRepository) GetByType(ctx context.Context, t models.ProductType) ([]models.Product, error) {
	return r.catalog[t], nil
}

// GetByID returns a product by type and ID.
func (r *InMemoryProductRepository) GetByID(ctx context.Context, t models.ProductType, id string) (*models.Product, error) {
	for _, p := range r.catalog[t] {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, ErrProductNotFound
}
