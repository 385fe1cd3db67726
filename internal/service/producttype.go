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
)

// ProductTypeService implements the business logic for product types and
// the attribute assignments that define which attributes a type permits.
type ProductTypeService struct {
	repo     repository.ProductTypeRepository
	attrRepo repository.AttributeRepository
	logger   *slog.Logger
}

// NewProductTypeService creates a new product type service.
func NewProductTypeService(repo repository.ProductTypeRepository, attrRepo repository.AttributeRepository, logger *slog.Logger) *ProductTypeService {
	return &ProductTypeService{repo: repo, attrRepo: attrRepo, logger: logger}
}

// CreateProductTypeInput holds the parameters for creating a product type.
type CreateProductTypeInput struct {
	Name     string
	ParentID *string
}

// UpdateProductTypeInput holds the parameters for updating a product type.
type UpdateProductTypeInput struct {
	Name     *string
	ParentID *string
}

// CreateProductType creates a new product type with the given input.
func (s *ProductTypeService) CreateProductType(ctx context.Context, input *CreateProductTypeInput) (*domain.ProductType, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product type name is required")
	}

	if input.ParentID != nil {
		if _, err := s.repo.GetByID(ctx, *input.ParentID); err != nil {
			return nil, fmt.Errorf("get parent product type: %w", err)
		}
	}

	now := time.Now().UTC()
	productType := &domain.ProductType{
		ID:        uuid.New().String(),
		Name:      input.Name,
		ParentID:  input.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, productType); err != nil {
		return nil, fmt.Errorf("create product type: %w", err)
	}

	s.logger.InfoContext(ctx, "product type created",
		slog.String("product_type_id", productType.ID),
		slog.String("name", productType.Name),
	)

	return productType, nil
}

// GetProductType retrieves a product type by its ID, including its
// permitted attributes.
func (s *ProductTypeService) GetProductType(ctx context.Context, id string) (*domain.ProductType, error) {
	productType, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product type by id: %w", err)
	}

	attributes, err := s.repo.ListAttributes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list product type attributes: %w", err)
	}
	productType.Attributes = attributes

	return productType, nil
}

// ListProductTypes returns all product types.
func (s *ProductTypeService) ListProductTypes(ctx context.Context) ([]domain.ProductType, error) {
	types, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list product types: %w", err)
	}
	return types, nil
}

// UpdateProductType applies partial updates to an existing product type.
func (s *ProductTypeService) UpdateProductType(ctx context.Context, id string, input *UpdateProductTypeInput) (*domain.ProductType, error) {
	productType, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product type for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("product type name must not be empty")
		}
		productType.Name = *input.Name
	}
	if input.ParentID != nil {
		if *input.ParentID == id {
			return nil, apperrors.InvalidInput("product type cannot be its own parent")
		}
		productType.ParentID = input.ParentID
	}

	if err := s.repo.Update(ctx, productType); err != nil {
		return nil, fmt.Errorf("update product type: %w", err)
	}

	s.logger.InfoContext(ctx, "product type updated",
		slog.String("product_type_id", productType.ID),
	)

	return productType, nil
}

// DeleteProductType removes a product type by its ID. Types referenced by
// products, product lines or child types are protected.
func (s *ProductTypeService) DeleteProductType(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product type: %w", err)
	}

	s.logger.InfoContext(ctx, "product type deleted",
		slog.String("product_type_id", id),
	)

	return nil
}

// AddAttribute permits an attribute on the product type.
func (s *ProductTypeService) AddAttribute(ctx context.Context, typeID, attributeID string) error {
	if _, err := s.repo.GetByID(ctx, typeID); err != nil {
		return fmt.Errorf("get product type: %w", err)
	}
	if _, err := s.attrRepo.GetByID(ctx, attributeID); err != nil {
		return fmt.Errorf("get attribute: %w", err)
	}

	link := &domain.ProductTypeAttribute{
		ID:            uuid.New().String(),
		ProductTypeID: typeID,
		AttributeID:   attributeID,
	}
	if err := s.repo.AddAttribute(ctx, link); err != nil {
		return fmt.Errorf("add product type attribute: %w", err)
	}

	s.logger.InfoContext(ctx, "product type attribute added",
		slog.String("product_type_id", typeID),
		slog.String("attribute_id", attributeID),
	)

	return nil
}

// RemoveAttribute withdraws an attribute from the product type.
func (s *ProductTypeService) RemoveAttribute(ctx context.Context, typeID, attributeID string) error {
	if err := s.repo.RemoveAttribute(ctx, typeID, attributeID); err != nil {
		return fmt.Errorf("remove product type attribute: %w", err)
	}

	s.logger.InfoContext(ctx, "product type attribute removed",
		slog.String("product_type_id", typeID),
		slog.String("attribute_id", attributeID),
	)

	return nil
}

// ListEligibleValues returns every attribute value that lines of the given
// product type may carry, across all of the type's permitted attributes.
func (s *ProductTypeService) ListEligibleValues(ctx context.Context, typeID string) ([]domain.AttributeValue, error) {
	if _, err := s.repo.GetByID(ctx, typeID); err != nil {
		return nil, fmt.Errorf("get product type: %w", err)
	}

	values, err := s.repo.ListEligibleValues(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("list eligible attribute values: %w", err)
	}
	return values, nil
}
