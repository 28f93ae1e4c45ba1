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

// EnterpriseService defines the interface for enterprise account business logic
type EnterpriseService interface {
	Register(ctx context.Context, name, email, password string, address domain.Address) (*domain.Enterprise, error)
	Login(ctx context.Context, email, password string) (token string, enterprise *domain.Enterprise, err error)
	Search(ctx context.Context, name string) ([]*domain.Enterprise, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Enterprise, error)
	SetOpen(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, isOpen bool) error
	SetOpeningHours(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, openingHours string) error
	SetLogo(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, filename string) error
}

type enterpriseService struct {
	enterprises repository.EnterpriseRepository
	jwtSecret   string
	tokenExpiry time.Duration
}

// NewEnterpriseService creates a new instance of EnterpriseService
func NewEnterpriseService(enterprises repository.EnterpriseRepository, jwtSecret string, tokenExpiry time.Duration) EnterpriseService {
	return &enterpriseService{
		enterprises: enterprises,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

// Register creates a new enterprise account with a bcrypt-hashed password
func (s *enterpriseService) Register(ctx context.Context, name, email, password string, address domain.Address) (*domain.Enterprise, error) {
	existing, err := s.enterprises.FindByEmail(ctx, email)
	if err != nil && !domain.IsKind(err, domain.KindNotFound) {
		return nil, fmt.Errorf("failed to check existing enterprise: %w", err)
	}
	if existing != nil {
		return nil, domain.Conflictf("enterprise with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	enterprise := &domain.Enterprise{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Address:      address,
		IsOpen:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.enterprises.Create(ctx, enterprise); err != nil {
		return nil, err
	}

	return enterprise, nil
}

// Login authenticates an enterprise and issues a bearer token
func (s *enterpriseService) Login(ctx context.Context, email, password string) (string, *domain.Enterprise, error) {
	enterprise, err := s.enterprises.FindByEmail(ctx, email)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return "", nil, domain.Unauthorized()
		}
		return "", nil, fmt.Errorf("failed to find enterprise: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(enterprise.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.Unauthorized()
	}

	token, err := issueToken(s.jwtSecret, enterprise.ID, domain.RoleEnterprise, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, enterprise, nil
}

// Search lists enterprises whose name contains the given substring
func (s *enterpriseService) Search(ctx context.Context, name string) ([]*domain.Enterprise, error) {
	return s.enterprises.SearchByName(ctx, name)
}

// GetByID retrieves the public profile of an enterprise
func (s *enterpriseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enterprise, error) {
	return s.enterprises.FindByID(ctx, id)
}

// SetOpen toggles the is-open flag; owner only
func (s *enterpriseService) SetOpen(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, isOpen bool) error {
	if err := domain.RequireOwnership(caller, enterpriseID); err != nil {
		return err
	}
	return s.enterprises.SetOpen(ctx, enterpriseID, isOpen)
}

// SetOpeningHours updates the opening-hours text; owner only
func (s *enterpriseService) SetOpeningHours(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, openingHours string) error {
	if err := domain.RequireOwnership(caller, enterpriseID); err != nil {
		return err
	}
	if openingHours == "" || len(openingHours) > 85 {
		return domain.Validationf("opening hours must be between 1 and 85 characters")
	}
	return s.enterprises.SetOpeningHours(ctx, enterpriseID, openingHours)
}

// SetLogo stores the uploaded logo filename; owner only
func (s *enterpriseService) SetLogo(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, filename string) error {
	if err := domain.RequireOwnership(caller, enterpriseID); err != nil {
		return err
	}
	return s.enterprises.SetLogoURL(ctx, enterpriseID, filename)
}
