package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/edulabs/promo-service/internal/models"
)

var (
	ErrDiscountCodeNotFound = errors.New("discount code not found")
)

// DiscountCodeRepository defines the interface for discount-code
// persistence.
type DiscountCodeRepository interface {
	Create(ctx context.Context, c *models.DiscountCode) error
	GetByID(ctx context.Context, id string) (*models.DiscountCode, error)
	List(ctx context.Context) ([]models.DiscountCode, error)
	Update(ctx context.Context, c *models.DiscountCode) error
	Delete(ctx context.Context, id string) error
	CodeExists(ctx context.Context, code string) (bool, error)
}

// InMemoryDiscountCodeRepository implements DiscountCodeRepository with
// a mutex-guarded map, used in tests and when no database is configured.
type InMemoryDiscountCodeRepository struct {
	mu    sync.RWMutex
	codes map[string]models.DiscountCode
	order []string
}

// NewInMemoryDiscountCodeRepository creates an empty in-memory store.
func NewInMemoryDiscountCodeRepository() *InMemoryDiscountCodeRepository {
	return &InMemoryDiscountCodeRepository{
		codes: make(map[string]models.DiscountCode),
	}
}

// Create stores a new discount code.
func (r *InMemoryDiscountCodeRepository) Create(ctx context.Context, c *models.DiscountCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codes[c.ID]; !exists {
		r.order = append(r.order, c.ID)
	}
	r.codes[c.ID] = *c
	return nil
}

// GetByID returns a discount code by ID.
func (r *InMemoryDiscountCodeRepository) GetByID(ctx context.Context, id string) (*models.DiscountCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, exists := r.codes[id]
	if !exists {
		return nil, ErrDiscountCodeNotFound
	}
	return &c, nil
}

// List returns all discount codes in insertion order.
func (r *InMemoryDiscountCodeRepository) List(ctx context.Context) ([]models.DiscountCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.DiscountCode, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.codes[id])
	}
	return out, nil
}

// Update replaces an existing discount code.
func (r *InMemoryDiscountCodeRepository) Update(ctx context.Context, c *models.DiscountCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codes[c.ID]; !exists {
		return ErrDiscountCodeNotFound
	}
	r.codes[c.ID] = *c
	return nil
}

// Delete removes a discount code by ID.
func (r *InMemoryDiscountCodeRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codes[id]; !exists {
		return ErrDiscountCodeNotFound
	}
	delete(r.codes, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// CodeExists reports whether any stored discount code uses the given
// code string, regardless of ID.
func (r *InMemoryDiscountCodeRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.codes {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}
