package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/catalog-service/internal/domain"
	"github.com/utafrali/catalog-service/internal/repository"
	apperrors "github.com/utafrali/catalog-service/pkg/errors"
	"github.com/utafrali/catalog-service/pkg/slug"
)

// BrandService implements the business logic for brand operations.
type BrandService struct {
	repo   repository.BrandRepository
	logger *slog.Logger
}

// NewBrandService creates a new brand service.
func NewBrandService(repo repository.BrandRepository, logger *slog.Logger) *BrandService {
	return &BrandService{repo: repo, logger: logger}
}

// CreateBrandInput holds the parameters for creating a brand.
type CreateBrandInput struct {
	Name     string
	IsActive bool
}

// UpdateBrandInput holds the parameters for updating a brand.
type UpdateBrandInput struct {
	Name     *string
	IsActive *bool
}

// CreateBrand creates a new brand with the given input.
func (s *BrandService) CreateBrand(ctx context.Context, input *CreateBrandInput) (*domain.Brand, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("brand name is required")
	}

	now := time.Now().UTC()
	brand := &domain.Brand{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Slug:      slug.Generate(input.Name),
		IsActive:  input.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, brand); err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}

	s.logger.InfoContext(ctx, "brand created",
		slog.String("brand_id", brand.ID),
		slog.String("slug", brand.Slug),
	)

	return brand, nil
}

// GetBrand retrieves a brand by its ID.
func (s *BrandService) GetBrand(ctx context.Context, id string) (*domain.Brand, error) {
	brand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get brand by id: %w", err)
	}
	return brand, nil
}

// GetBrandBySlug retrieves a brand by its slug.
func (s *BrandService) GetBrandBySlug(ctx context.Context, brandSlug string) (*domain.Brand, error) {
	brand, err := s.repo.GetBySlug(ctx, brandSlug)
	if err != nil {
		return nil, fmt.Errorf("get brand by slug: %w", err)
	}
	return brand, nil
}

// ListBrands returns brands, optionally only active ones.
func (s *BrandService) ListBrands(ctx context.Context, activeOnly bool) ([]domain.Brand, error) {
	brands, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return brands, nil
}

// UpdateBrand applies partial updates to an existing brand.
func (s *BrandService) UpdateBrand(ctx context.Context, id string, input *UpdateBrandInput) (*domain.Brand, error) {
	brand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get brand for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("brand name must not be empty")
		}
		brand.Name = *input.Name
		brand.Slug = slug.Generate(*input.Name)
	}
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, brand); err != nil {
		return nil, fmt.Errorf("update brand: %w", err)
	}

	s.logger.InfoContext(ctx, "brand updated",
		slog.String("brand_id", brand.ID),
	)

	return brand, nil
}

// DeleteBrand removes a brand by its ID.
func (s *BrandService) DeleteBrand(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}

	s.logger.InfoContext(ctx, "brand deleted",
		slog.String("brand_id", id),
	)

	return nil
}
