package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/edulabs/promo-service/internal/models"
)

// PostgresBundleRepository implements BundleRepository on top of
// database/sql. Bundle items are stored as a JSONB column; the item
// snapshots are opaque to SQL and always read and written whole.
type PostgresBundleRepository struct {
	db *sql.DB
}

// NewPostgresBundleRepository creates a Postgres-backed bundle store.
func NewPostgresBundleRepository(db *sql.DB) *PostgresBundleRepository {
	return &PostgresBundleRepository{db: db}
}

// Create inserts a new bundle row.
func (r *PostgresBundleRepository) Create(ctx context.Context, b *models.Bundle) error {
	items, err := json.Marshal(b.Items)
	if err != nil {
		return fmt.Errorf("marshal bundle items: %w", err)
	}

	query := `
		INSERT INTO bundles (id, title, price, registration_deadline, deadline_is_auto, items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err = r.db.ExecContext(ctx, query, b.ID, b.Title, b.Price, b.RegistrationDeadline, b.DeadlineIsAuto, items)
	if err != nil {
		return fmt.Errorf("insert bundle: %w", err)
	}
	return nil
}

// GetByID returns a bundle by ID.
func (r *PostgresBundleRepository) GetByID(ctx context.Context, id string) (*models.Bundle, error) {
	query := `
		SELECT id, title, price, registration_deadline, deadline_is_auto, items
		FROM bundles
		WHERE id = $1
	`
	var b models.Bundle
	var items []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Title, &b.Price, &b.RegistrationDeadline, &b.DeadlineIsAuto, &items,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBundleNotFound
		}
		return nil, fmt.Errorf("select bundle: %w", err)
	}
	if err := json.Unmarshal(items, &b.Items); err != nil {
		return nil, fmt.Errorf("unmarshal bundle items: %w", err)
	}
	return &b, nil
}

// List returns all bundles, oldest first.
func (r *PostgresBundleRepository) List(ctx context.Context) ([]models.Bundle, error) {
	query := `
		SELECT id, title, price, registration_deadline, deadline_is_auto, items
		FROM bundles
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select bundles: %w", err)
	}
	defer rows.Close()

	var bundles []models.Bundle
	for rows.Next() {
		var b models.Bundle
		var items []byte
		if err := rows.Scan(&b.ID, &b.Title, &b.Price, &b.RegistrationDeadline, &b.DeadlineIsAuto, &items); err != nil {
			return nil, fmt.Errorf("scan bundle: %w", err)
		}
		if err := json.Unmarshal(items, &b.Items); err != nil {
			return nil, fmt.Errorf("unmarshal bundle items: %w", err)
		}
		bundles = append(bundles, b)
	}
	return bundles, rows.Err()
}

// Update replaces an existing bundle row.
func (r *PostgresBundleRepository) Update(ctx context.Context, b *models.Bundle) error {
	items, err := json.Marshal(b.Items)
	if err != nil {
		return fmt.Errorf("marshal bundle items: %w", err)
	}

	query := `
		UPDATE bundles
		SET title = $2, price = $3, registration_deadline = $4, deadline_is_auto = $5, items = $6, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, b.ID, b.Title, b.Price, b.RegistrationDeadline, b.DeadlineIsAuto, items)
	if err != nil {
		return fmt.Errorf("update bundle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update bundle: %w", err)
	}
	if affected == 0 {
		return ErrBundleNotFound
	}
	return nil
}

// Delete removes a bundle row by ID.
func (r *PostgresBundleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bundles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bundle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bundle: %w", err)
	}
	if affected == 0 {
		return ErrBundleNotFound
	}
	return nil
}
