package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edulabs/promo-service/internal/models"
)

// PostgresProductRepository implements ProductRepository against the
// catalog tables owned by the upstream catalog system. This service
// only ever reads them.
type PostgresProductRepository struct {
	db *sql.DB
}

// NewPostgresProductRepository creates a Postgres-backed catalog view.
func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// Snapshot returns the full catalog keyed by type.
func (r *PostgresProductRepository) Snapshot(ctx context.Context) (models.Catalog, error) {
	catalog := make(models.Catalog, len(models.ProductTypes))
	for _, t := range models.ProductTypes {
		products, err := r.GetByType(ctx, t)
		if err != nil {
			return nil, err
		}
		catalog[t] = products
	}
	return catalog, nil
}

// GetByType returns all products of the given type in catalog order.
func (r *PostgresProductRepository) GetByType(ctx context.Context, t models.ProductType) ([]models.Product, error) {
	query := `
		SELECT id, title, price, registration_deadline
		FROM products
		WHERE type = $1
		ORDER BY position, created_at
	`
	rows, err := r.db.QueryContext(ctx, query, string(t))
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.RegistrationDeadline); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetByID returns a product by type and ID.
func (r *PostgresProductRepository) GetByID(ctx context.Context, t models.ProductType, id string) (*models.Product, error) {
	query := `
		SELECT id, title, price, registration_deadline
		FROM products
		WHERE type = $1 AND id = $2
	`
	var p models.Product
	err := r.db.QueryRowContext(ctx, query, string(t), id).Scan(&p.ID, &p.Title, &p.Price, &p.RegistrationDeadline)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	return &p, nil
}
