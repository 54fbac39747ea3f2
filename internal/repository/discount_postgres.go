package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/edulabs/promo-service/internal/models"
	"github.com/lib/pq"
)

// PostgresDiscountCodeRepository implements DiscountCodeRepository on
// top of database/sql. The applicable-types and applicable-products
// filters are stored as an array column and a JSONB column.
//
// Code uniqueness checks are frequent (every keystroke in the code field
// triggers one), so the repository keeps a bloom filter over existing
// codes: a "definitely absent" answer skips the database round trip.
// The filter can report false positives, never false negatives, so a
// "maybe present" falls through to the real query.
type PostgresDiscountCodeRepository struct {
	db *sql.DB

	mu    sync.RWMutex
	codes *bloom.BloomFilter
}

// NewPostgresDiscountCodeRepository creates a Postgres-backed store and
// primes the bloom filter from the existing codes.
func NewPostgresDiscountCodeRepository(ctx context.Context, db *sql.DB) (*PostgresDiscountCodeRepository, error) {
	r := &PostgresDiscountCodeRepository{
		db:    db,
		codes: bloom.NewWithEstimates(100000, 0.01),
	}

	rows, err := db.QueryContext(ctx, `SELECT code FROM discount_codes`)
	if err != nil {
		return nil, fmt.Errorf("load discount codes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan discount code: %w", err)
		}
		r.codes.AddString(code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load discount codes: %w", err)
	}

	return r, nil
}

// Create inserts a new discount-code row and records the code in the
// bloom filter.
func (r *PostgresDiscountCodeRepository) Create(ctx context.Context, c *models.DiscountCode) error {
	products, err := json.Marshal(c.ApplicableProducts)
	if err != nil {
		return fmt.Errorf("marshal applicable products: %w", err)
	}

	types := make([]string, 0, len(c.ApplicableTypes))
	for _, t := range c.ApplicableTypes {
		types = append(types, string(t))
	}

	query := `
		INSERT INTO discount_codes (id, code, type, value, starts_at, expires_at, applicable_types, applicable_products, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.Code, string(c.Type), c.Value, c.StartsAt, c.ExpiresAt, pq.Array(types), products,
	)
	if err != nil {
		return fmt.Errorf("insert discount code: %w", err)
	}

	r.mu.Lock()
	r.codes.AddString(c.Code)
	r.mu.Unlock()
	return nil
}

// GetByID returns a discount code by ID.
func (r *PostgresDiscountCodeRepository) GetByID(ctx context.Context, id string) (*models.DiscountCode, error) {
	query := `
		SELECT id, code, type, value, starts_at, expires_at, applicable_types, applicable_products
		FROM discount_codes
		WHERE id = $1
	`
	c, err := scanDiscountCode(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDiscountCodeNotFound
		}
		return nil, fmt.Errorf("select discount code: %w", err)
	}
	return c, nil
}

// List returns all discount codes, oldest first.
func (r *PostgresDiscountCodeRepository) List(ctx context.Context) ([]models.DiscountCode, error) {
	query := `
		SELECT id, code, type, value, starts_at, expires_at, applicable_types, applicable_products
		FROM discount_codes
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select discount codes: %w", err)
	}
	defer rows.Close()

	var codes []models.DiscountCode
	for rows.Next() {
		c, err := scanDiscountCode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discount code: %w", err)
		}
		codes = append(codes, *c)
	}
	return codes, rows.Err()
}

// Update replaces an existing discount-code row.
func (r *PostgresDiscountCodeRepository) Update(ctx context.Context, c *models.DiscountCode) error {
	products, err := json.Marshal(c.ApplicableProducts)
	if err != nil {
		return fmt.Errorf("marshal applicable products: %w", err)
	}

	types := make([]string, 0, len(c.ApplicableTypes))
	for _, t := range c.ApplicableTypes {
		types = append(types, string(t))
	}

	query := `
		UPDATE discount_codes
		SET code = $2, type = $3, value = $4, starts_at = $5, expires_at = $6, applicable_types = $7, applicable_products = $8, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		c.ID, c.Code, string(c.Type), c.Value, c.StartsAt, c.ExpiresAt, pq.Array(types), products,
	)
	if err != nil {
		return fmt.Errorf("update discount code: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update discount code: %w", err)
	}
	if affected == 0 {
		return ErrDiscountCodeNotFound
	}

	r.mu.Lock()
	r.codes.AddString(c.Code)
	r.mu.Unlock()
	return nil
}

// Delete removes a discount-code row by ID. The bloom filter is left
// as-is; it cannot forget entries, and a stale positive only costs one
// extra query.
func (r *PostgresDiscountCodeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM discount_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete discount code: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete discount code: %w", err)
	}
	if affected == 0 {
		return ErrDiscountCodeNotFound
	}
	return nil
}

// CodeExists reports whether any stored discount code uses the given
// code string.
func (r *PostgresDiscountCodeRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	r.mu.RLock()
	maybe := r.codes.TestString(code)
	r.mu.RUnlock()
	if !maybe {
		return false, nil
	}

	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM discount_codes WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check discount code: %w", err)
	}
	return exists, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDiscountCode(row rowScanner) (*models.DiscountCode, error) {
	var c models.DiscountCode
	var typ string
	var types pq.StringArray
	var products []byte

	if err := row.Scan(&c.ID, &c.Code, &typ, &c.Value, &c.StartsAt, &c.ExpiresAt, &types, &products); err != nil {
		return nil, err
	}

	c.Type = models.DiscountValueType(typ)
	for _, t := range types {
		c.ApplicableTypes = append(c.ApplicableTypes, models.ProductType(t))
	}
	if err := json.Unmarshal(products, &c.ApplicableProducts); err != nil {
		return nil, fmt.Errorf("unmarshal applicable products: %w", err)
	}
	return &c, nil
}
