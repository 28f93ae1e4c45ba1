package repository

import (
	"context"
	"database/sql"
	"fmt"

	"food-court/internal/domain"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for catalog data access. Lookups
// only ever see active products; soft-deleted rows are invisible here.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	SoftDelete(ctx context.Context, id int64, enterpriseID uuid.UUID) error
	FindActiveByID(ctx context.Context, id int64, enterpriseID uuid.UUID) (*domain.Product, error)
	ListActiveByEnterprise(ctx context.Context, enterpriseID uuid.UUID) ([]*domain.Product, error)
}

type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product and fills in its generated ID
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (enterprise_id, name, price, description, category, photo_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.EnterpriseID,
		product.Name,
		product.Price,
		product.Description,
		product.Category,
		product.PhotoURL,
		product.IsActive,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update rewrites the mutable fields of an active product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $3, price = $4, description = $5, category = $6, photo_url = $7, updated_at = NOW()
		WHERE id = $1 AND enterprise_id = $2 AND is_active = TRUE
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.EnterpriseID,
		product.Name,
		product.Price,
		product.Description,
		product.Category,
		product.PhotoURL,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NotFoundf("product %d not found", product.ID)
	}

	return nil
}

// SoftDelete flips is_active to false; the row is never physically removed
func (r *productRepository) SoftDelete(ctx context.Context, id int64, enterpriseID uuid.UUID) error {
	query := `
		UPDATE products
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND enterprise_id = $2 AND is_active = TRUE
	`

	result, err := r.db.ExecContext(ctx, query, id, enterpriseID)
	if err != nil {
		return fmt.Errorf("failed to soft delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NotFoundf("product %d not found", id)
	}

	return nil
}

// FindActiveByID retrieves an active product scoped to an enterprise
func (r *productRepository) FindActiveByID(ctx context.Context, id int64, enterpriseID uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, enterprise_id, name, price, description, category, photo_url, is_active, created_at, updated_at
		FROM products
		WHERE id = $1 AND enterprise_id = $2 AND is_active = TRUE
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id, enterpriseID).Scan(
		&product.ID,
		&product.EnterpriseID,
		&product.Name,
		&product.Price,
		&product.Description,
		&product.Category,
		&product.PhotoURL,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("product %d not found", id)
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// ListActiveByEnterprise retrieves the active catalog of an enterprise ordered by id
func (r *productRepository) ListActiveByEnterprise(ctx context.Context, enterpriseID uuid.UUID) ([]*domain.Product, error) {
	query := `
		SELECT id, enterprise_id, name, price, description, category, photo_url, is_active, created_at, updated_at
		FROM products
		WHERE enterprise_id = $1 AND is_active = TRUE
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, enterpriseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.EnterpriseID,
			&product.Name,
			&product.Price,
			&product.Description,
			&product.Category,
			&product.PhotoURL,
			&product.IsActive,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
