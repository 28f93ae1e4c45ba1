package service

import (
	"context"
	"fmt"
	"time"

	"food-court/internal/domain"
	"food-court/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ClientService defines the interface for client account business logic
type ClientService interface {
	Register(ctx context.Context, name, email, password string) (*domain.Client, error)
	Login(ctx context.Context, email, password string) (token string, client *domain.Client, err error)
}

type clientService struct {
	clients     repository.ClientRepository
	jwtSecret   string
	tokenExpiry time.Duration
}

// NewClientService creates a new instance of ClientService
func NewClientService(clients repository.ClientRepository, jwtSecret string, tokenExpiry time.Duration) ClientService {
	return &clientService{
		clients:     clients,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

// Register creates a new client account with a bcrypt-hashed password.
// A duplicate email fails with a conflict error.
func (s *clientService) Register(ctx context.Context, name, email, password string) (*domain.Client, error) {
	existing, err := s.clients.FindByEmail(ctx, email)
	if err != nil && !domain.IsKind(err, domain.KindNotFound) {
		return nil, fmt.Errorf("failed to check existing client: %w", err)
	}
	if existing != nil {
		return nil, domain.Conflictf("client with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	client := &domain.Client{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// Login authenticates a client and issues a bearer token. A missing account
// and a wrong password fail identically so account existence never leaks.
func (s *clientService) Login(ctx context.Context, email, password string) (string, *domain.Client, error) {
	client, err := s.clients.FindByEmail(ctx, email)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return "", nil, domain.Unauthorized()
		}
		return "", nil, fmt.Errorf("failed to find client: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.Unauthorized()
	}

	token, err := issueToken(s.jwtSecret, client.ID, domain.RoleClient, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, client, nil
}
