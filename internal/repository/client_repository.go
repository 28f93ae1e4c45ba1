package repository

import (
	"context"
	"database/sql"
	"fmt"

	"food-court/internal/domain"

	"github.com/google/uuid"
)

// ClientRepository defines the interface for client account data access
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	FindByEmail(ctx context.Context, email string) (*domain.Client, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
}

type clientRepository struct {
	db DBTX
}

// NewClientRepository creates a new instance of ClientRepository
func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepository{db: db}
}

// Create inserts a new client into the database using parameterized queries
func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		client.ID,
		client.Name,
		client.Email,
		client.PasswordHash,
		client.CreatedAt,
		client.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("client with this email already exists")
		}
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// FindByEmail retrieves a client by email using parameterized queries
func (r *clientRepository) FindByEmail(ctx context.Context, email string) (*domain.Client, error) {
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM clients
		WHERE email = $1
	`

	client := &domain.Client{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.PasswordHash,
		&client.CreatedAt,
		&client.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("client not found")
		}
		return nil, fmt.Errorf("failed to find client by email: %w", err)
	}

	return client, nil
}

// FindByID retrieves a client by ID using parameterized queries
func (r *clientRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	client := &domain.Client{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.PasswordHash,
		&client.CreatedAt,
		&client.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("client not found")
		}
		return nil, fmt.Errorf("failed to find client by ID: %w", err)
	}

	return client, nil
}
