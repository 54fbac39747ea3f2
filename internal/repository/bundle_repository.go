package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/edulabs/promo-service/internal/models"
)

var (
	ErrBundleNotFound = errors.New("bundle not found")
)

// BundleRepository defines the interface for bundle persistence.
type BundleRepository interface {
	Create(ctx context.Context, b *models.Bundle) error
	GetByID(ctx context.Context, id string) (*models.Bundle, error)
	List(ctx context.Context) ([]models.Bundle, error)
	Update(ctx context.Context, b *models.Bundle) error
	Delete(ctx context.Context, id string) error
}

// InMemoryBundleRepository implements BundleRepository with a mutex-guarded
// map, used in tests and when no database is configured.
type InMemoryBundleRepository struct {
	mu      sync.RWMutex
	bundles map[string]models.Bundle
	order   []string
}

// NewInMemoryBundleRepository creates an empty in-memory bundle store.
func NewInMemoryBundleRepository() *InMemoryBundleRepository {
	return &InMemoryBundleRepository{
		bundles: make(map[string]models.Bundle),
	}
}

// Create stores a new bundle.
func (r *InMemoryBundleRepository) Create(ctx context.Context, b *models.Bundle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bundles[b.ID]; !exists {
		r.order = append(r.order, b.ID)
	}
	r.bundles[b.ID] = *b
	return nil
}

// GetByID returns a bundle by ID.
func (r *InMemoryBundleRepository) GetByID(ctx context.Context, id string) (*models.Bundle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, exists := r.bundles[id]
	if !exists {
		return nil, ErrBundleNotFound
	}
	return &b, nil
}

// List returns all bundles in insertion order.
func (r *InMemoryBundleRepository) List(ctx context.Context) ([]models.Bundle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Bundle, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.bundles[id])
	}
	return out, nil
}

// Update replaces an existing bundle.
func (r *InMemoryBundleRepository) Update(ctx context.Context, b *models.Bundle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bundles[b.ID]; !exists {
		return ErrBundleNotFound
	}
	r.bundles[b.ID] = *b
	return nil
}

// Delete removes a bundle by ID.
func (r *InMemoryBundleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bundles[id]; !exists {
		return ErrBundleNotFound
	}
	delete(r.bundles, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
