package service

import (
	"context"
	"time"

	"food-court/internal/domain"
	"food-court/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductInput carries the fields of a new catalog entry.
type CreateProductInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Category    domain.ProductCategory
	PhotoURL    string
}

// ProductUpdate is a partial-field update. A nil field means "leave
// unchanged"; there is no way to blank a field through it.
type ProductUpdate struct {
	Name        *string
	Price       *decimal.Decimal
	Description *string
	Category    *domain.ProductCategory
	PhotoURL    *string
}

// ProductService defines the interface for catalog business logic. Every
// mutation requires the caller to own the enterprise.
type ProductService interface {
	Create(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, productID int64, update ProductUpdate) (*domain.Product, error)
	SoftDelete(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, productID int64) error
	ListActiveByEnterprise(ctx context.Context, enterpriseID uuid.UUID) ([]*domain.Product, error)
	GetActiveByID(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, productID int64) (*domain.Product, error)
}

type productService struct {
	products repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(products repository.ProductRepository) ProductService {
	return &productService{products: products}
}

// Create adds a new active product to the enterprise's catalog
func (s *productService) Create(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, input CreateProductInput) (*domain.Product, error) {
	if err := domain.RequireOwnership(caller, enterpriseID); err != nil {
		return nil, err
	}

	if !domain.ValidCategory(input.Category) {
		return nil, domain.Validationf("unknown product category %q", input.Category)
	}
	if input.Price.Sign() <= 0 {
		return nil, domain.Validationf("price must be positive")
	}

	product := &domain.Product{
		EnterpriseID: enterpriseID,
		Name:         input.Name,
		Price:        input.Price,
		Description:  input.Description,
		Category:     input.Category,
		PhotoURL:     input.PhotoURL,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Update merges the non-nil fields of update into the existing product.
// Unspecified fields retain their prior value.
func (s *productService) Update(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, productID int64, update ProductUpdate) (*domain.Product, error) {
	if err := domain.RequireOwnership(caller, enterpriseID); err != nil {
		return nil, err
	}

	product, err := s.products.FindActiveByID(ctx, productID, enterpriseID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Price != nil {
		if update.Price.Sign() <= 0 {
			return nil, domain.Validationf("price must be positive")
		}
		product.Price = *update.Price
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Category != nil {
		if !domain.ValidCategory(*update.Category) {
			return nil, domain.Validationf("unknown product category %q", *update.Category)
		}
		product.Category = *update.Category
	}
	if update.PhotoURL != nil {
		product.PhotoURL = *update.PhotoURL
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// SoftDelete deactivates a product without removing its row
func (s *productService) SoftDelete(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, productID int64) error {
	if err := domain.RequireOwnership(caller, enterpriseID); err != nil {
		return err
	}
	return s.products.SoftDelete(ctx, productID, enterpriseID)
}

// ListActiveByEnterprise lists the active catalog of an enterprise
func (s *productService) ListActiveByEnterprise(ctx context.Context, enterpriseID uuid.UUID) ([]*domain.Product, error) {
	return s.products.ListActiveByEnterprise(ctx, enterpriseID)
}

// GetActiveByID retrieves a single active product; owner only
func (s *productService) GetActiveByID(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, productID int64) (*domain.Product, error) {
	if err := domain.RequireOwnership(caller, enterpriseID); err != nil {
		return nil, err
	}
	return s.products.FindActiveByID(ctx, productID, enterpriseID)
}
