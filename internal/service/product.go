package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/catalog-service/internal/domain"
	"github.com/utafrali/catalog-service/internal/event"
	"github.com/utafrali/catalog-service/internal/repository"
	apperrors "github.com/utafrali/catalog-service/pkg/errors"
	"github.com/utafrali/catalog-service/pkg/slug"
)

const maxPIDLength = 10

// DetailCache caches assembled product details. The Redis implementation
// lives in internal/repository/redis; a nil cache disables caching.
type DetailCache interface {
	Get(ctx context.Context, productID string) (*domain.ProductDetail, error)
	Set(ctx context.Context, detail *domain.ProductDetail) error
	Invalidate(ctx context.Context, productID string) error
}

// ProductService implements the business logic for product operations.
type ProductService struct {
	repo      repository.ProductRepository
	catRepo   repository.CategoryRepository
	typeRepo  repository.ProductTypeRepository
	lineRepo  repository.ProductLineRepository
	imageRepo repository.ProductImageRepository
	producer  *event.Producer
	cache     DetailCache
	logger    *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	repo repository.ProductRepository,
	catRepo repository.CategoryRepository,
	typeRepo repository.ProductTypeRepository,
	lineRepo repository.ProductLineRepository,
	imageRepo repository.ProductImageRepository,
	producer *event.Producer,
	cache DetailCache,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		repo:      repo,
		catRepo:   catRepo,
		typeRepo:  typeRepo,
		lineRepo:  lineRepo,
		imageRepo: imageRepo,
		producer:  producer,
		cache:     cache,
		logger:    logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	PID           string
	Name          string
	Description   string
	IsDigital     bool
	IsActive      bool
	CategoryID    string
	ProductTypeID string
}

// UpdateProductInput holds the parameters for updating a product.
type UpdateProductInput struct {
	PID           *string
	Name          *string
	Description   *string
	IsDigital     *bool
	IsActive      *bool
	CategoryID    *string
	ProductTypeID *string
}

// CreateProduct creates a new product with the given input.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.PID == "" {
		return nil, apperrors.InvalidInput("pid is required")
	}
	if len(input.PID) > maxPIDLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("pid must be at most %d characters", maxPIDLength))
	}
	if input.CategoryID == "" {
		return nil, apperrors.InvalidInput("category_id is required")
	}
	if input.ProductTypeID == "" {
		return nil, apperrors.InvalidInput("product_type_id is required")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:            uuid.New().String(),
		PID:           input.PID,
		Name:          input.Name,
		Slug:          slug.Generate(input.Name),
		Description:   input.Description,
		IsDigital:     input.IsDigital,
		IsActive:      input.IsActive,
		CategoryID:    input.CategoryID,
		ProductTypeID: input.ProductTypeID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// GetProductBySlug retrieves a product by its slug.
func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return product, nil
}

// GetProductDetail retrieves a product by ID and enriches it with its
// category, product type, and lines with flattened attributes and images.
// Details are served from the cache when present.
func (s *ProductService) GetProductDetail(ctx context.Context, id string) (*domain.ProductDetail, error) {
	if s.cache != nil {
		detail, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.ErrorContext(ctx, "product detail cache read failed",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		} else if detail != nil {
			return detail, nil
		}
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return s.enrichProduct(ctx, product)
}

// GetProductDetailBySlug retrieves a product by slug and enriches it. Slug
// lookups resolve the ID first so the cache stays keyed by ID.
func (s *ProductService) GetProductDetailBySlug(ctx context.Context, productSlug string) (*domain.ProductDetail, error) {
	product, err := s.repo.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}

	if s.cache != nil {
		detail, err := s.cache.Get(ctx, product.ID)
		if err == nil && detail != nil {
			return detail, nil
		}
	}

	return s.enrichProduct(ctx, product)
}

// enrichProduct assembles the full detail for a product and stores it in the
// cache.
func (s *ProductService) enrichProduct(ctx context.Context, product *domain.Product) (*domain.ProductDetail, error) {
	detail := &domain.ProductDetail{
		Product: *product,
		Lines:   []domain.ProductLineDetail{},
	}

	category, err := s.catRepo.GetByID(ctx, product.CategoryID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load product category",
			slog.String("product_id", product.ID),
			slog.String("category_id", product.CategoryID),
			slog.String("error", err.Error()),
		)
	} else {
		detail.Category = category
	}

	pt, err := s.typeRepo.GetByID(ctx, product.ProductTypeID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load product type",
			slog.String("product_id", product.ID),
			slog.String("product_type_id", product.ProductTypeID),
			slog.String("error", err.Error()),
		)
	} else {
		detail.ProductType = pt
	}

	lines, err := s.lineRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("list product lines: %w", err)
	}

	for i := range lines {
		links, err := s.lineRepo.ListAttributeValues(ctx, lines[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list attribute values: %w", err)
		}

		flat, err := FlattenAttributes(links)
		if err != nil {
			return nil, fmt.Errorf("flatten attributes: %w", err)
		}

		images, err := s.imageRepo.ListByLine(ctx, lines[i].ID)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to load line images",
				slog.String("line_id", lines[i].ID),
				slog.String("error", err.Error()),
			)
			images = []domain.ProductImage{}
		}

		detail.Lines = append(detail.Lines, domain.ProductLineDetail{
			ProductLine: lines[i],
			Attributes:  flat,
			Images:      images,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, detail); err != nil {
			s.logger.ErrorContext(ctx, "product detail cache write failed",
				slog.String("product_id", product.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return detail, nil
}

// ListProducts returns a filtered, paginated list of products.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// UpdateProduct applies partial updates to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		product.Name = *input.Name
		product.Slug = slug.Generate(*input.Name)
	}
	if input.PID != nil {
		if *input.PID == "" {
			return nil, apperrors.InvalidInput("pid must not be empty")
		}
		if len(*input.PID) > maxPIDLength {
			return nil, apperrors.InvalidInput(fmt.Sprintf("pid must be at most %d characters", maxPIDLength))
		}
		product.PID = *input.PID
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.IsDigital != nil {
		product.IsDigital = *input.IsDigital
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.ProductTypeID != nil {
		product.ProductTypeID = *input.ProductTypeID
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, product.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to invalidate product detail cache",
				slog.String("product_id", product.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// DeleteProduct removes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	// Verify the product exists before deleting.
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.logger.ErrorContext(ctx, "failed to invalidate product detail cache",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}
