package repository

import (
	"context"
	"database/sql"
	"fmt"

	"food-court/internal/domain"

	"github.com/google/uuid"
)

// EnterpriseRepository defines the interface for enterprise account data access
type EnterpriseRepository interface {
	Create(ctx context.Context, enterprise *domain.Enterprise) error
	FindByEmail(ctx context.Context, email string) (*domain.Enterprise, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Enterprise, error)
	SearchByName(ctx context.Context, name string) ([]*domain.Enterprise, error)
	SetOpen(ctx context.Context, id uuid.UUID, isOpen bool) error
	SetOpeningHours(ctx context.Context, id uuid.UUID, openingHours string) error
	SetLogoURL(ctx context.Context, id uuid.UUID, logoURL string) error
}

type enterpriseRepository struct {
	db DBTX
}

// NewEnterpriseRepository creates a new instance of EnterpriseRepository
func NewEnterpriseRepository(db DBTX) EnterpriseRepository {
	return &enterpriseRepository{db: db}
}

const enterpriseColumns = `id, name, email, password_hash, street, number, city, state, is_open, opening_hours, logo_url, created_at, updated_at`

func scanEnterprise(row interface{ Scan(...any) error }) (*domain.Enterprise, error) {
	e := &domain.Enterprise{}
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.PasswordHash,
		&e.Address.Street,
		&e.Address.Number,
		&e.Address.City,
		&e.Address.State,
		&e.IsOpen,
		&e.OpeningHours,
		&e.LogoURL,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new enterprise into the database using parameterized queries
func (r *enterpriseRepository) Create(ctx context.Context, enterprise *domain.Enterprise) error {
	query := `
		INSERT INTO enterprises (id, name, email, password_hash, street, number, city, state, is_open, opening_hours, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		enterprise.ID,
		enterprise.Name,
		enterprise.Email,
		enterprise.PasswordHash,
		enterprise.Address.Street,
		enterprise.Address.Number,
		enterprise.Address.City,
		enterprise.Address.State,
		enterprise.IsOpen,
		enterprise.OpeningHours,
		enterprise.LogoURL,
		enterprise.CreatedAt,
		enterprise.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("enterprise with this email already exists")
		}
		return fmt.Errorf("failed to create enterprise: %w", err)
	}

	return nil
}

// FindByEmail retrieves an enterprise by email using parameterized queries
func (r *enterpriseRepository) FindByEmail(ctx context.Context, email string) (*domain.Enterprise, error) {
	query := fmt.Sprintf(`SELECT %s FROM enterprises WHERE email = $1`, enterpriseColumns)

	enterprise, err := scanEnterprise(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("enterprise not found")
		}
		return nil, fmt.Errorf("failed to find enterprise by email: %w", err)
	}

	return enterprise, nil
}

// FindByID retrieves an enterprise by ID using parameterized queries
func (r *enterpriseRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Enterprise, error) {
	query := fmt.Sprintf(`SELECT %s FROM enterprises WHERE id = $1`, enterpriseColumns)

	enterprise, err := scanEnterprise(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("enterprise not found")
		}
		return nil, fmt.Errorf("failed to find enterprise by ID: %w", err)
	}

	return enterprise, nil
}

// SearchByName retrieves enterprises whose name contains the given substring,
// case-insensitively. An empty name matches everything.
func (r *enterpriseRepository) SearchByName(ctx context.Context, name string) ([]*domain.Enterprise, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM enterprises
		WHERE name ILIKE $1
		ORDER BY name ASC
	`, enterpriseColumns)

	rows, err := r.db.QueryContext(ctx, query, "%"+name+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search enterprises: %w", err)
	}
	defer rows.Close()

	enterprises := []*domain.Enterprise{}
	for rows.Next() {
		enterprise, err := scanEnterprise(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enterprise: %w", err)
		}
		enterprises = append(enterprises, enterprise)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enterprises: %w", err)
	}

	return enterprises, nil
}

// SetOpen updates the is-open flag of an enterprise
func (r *enterpriseRepository) SetOpen(ctx context.Context, id uuid.UUID, isOpen bool) error {
	return r.patch(ctx, id, `UPDATE enterprises SET is_open = $2, updated_at = NOW() WHERE id = $1`, isOpen)
}

// SetOpeningHours updates the opening-hours text of an enterprise
func (r *enterpriseRepository) SetOpeningHours(ctx context.Context, id uuid.UUID, openingHours string) error {
	return r.patch(ctx, id, `UPDATE enterprises SET opening_hours = $2, updated_at = NOW() WHERE id = $1`, openingHours)
}

// SetLogoURL updates the stored logo filename of an enterprise
func (r *enterpriseRepository) SetLogoURL(ctx context.Context, id uuid.UUID, logoURL string) error {
	return r.patch(ctx, id, `UPDATE enterprises SET logo_url = $2, updated_at = NOW() WHERE id = $1`, logoURL)
}

func (r *enterpriseRepository) patch(ctx context.Context, id uuid.UUID, query string, value any) error {
	result, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("failed to update enterprise: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NotFoundf("enterprise not found")
	}

	return nil
}
