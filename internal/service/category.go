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

// CategoryService implements the business logic for category operations.
type CategoryService struct {
	repo   repository.CategoryRepository
	logger *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

// CreateCategoryInput holds the parameters for creating a category.
type CreateCategoryInput struct {
	Name     string
	IsActive bool
	ParentID *string
}

// UpdateCategoryInput holds the parameters for updating a category.
type UpdateCategoryInput struct {
	Name     *string
	IsActive *bool
	ParentID *string
}

// CreateCategory creates a new category with the given input.
func (s *CategoryService) CreateCategory(ctx context.Context, input *CreateCategoryInput) (*domain.Category, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("category name is required")
	}

	if input.ParentID != nil {
		if _, err := s.repo.GetByID(ctx, *input.ParentID); err != nil {
			return nil, fmt.Errorf("get parent category: %w", err)
		}
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Slug:      slug.Generate(input.Name),
		IsActive:  input.IsActive,
		ParentID:  input.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
	)

	return category, nil
}

// GetCategory retrieves a category by its ID.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return category, nil
}

// GetCategoryBySlug retrieves a category by its slug.
func (s *CategoryService) GetCategoryBySlug(ctx context.Context, categorySlug string) (*domain.Category, error) {
	category, err := s.repo.GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	return category, nil
}

// ListCategories returns categories, optionally only active ones.
func (s *CategoryService) ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	categories, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory applies partial updates to an existing category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, input *UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("category name must not be empty")
		}
		category.Name = *input.Name
		category.Slug = slug.Generate(*input.Name)
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if input.ParentID != nil {
		if *input.ParentID == id {
			return nil, apperrors.InvalidInput("category cannot be its own parent")
		}
		category.ParentID = input.ParentID
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.logger.InfoContext(ctx, "category updated",
		slog.String("category_id", category.ID),
	)

	return category, nil
}

// DeleteCategory removes a category by its ID. Categories with child
// categories or products are protected.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.logger.InfoContext(ctx, "category deleted",
		slog.String("category_id", id),
	)

	return nil
}
