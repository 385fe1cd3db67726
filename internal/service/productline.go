package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/utafrali/catalog-service/internal/domain"
	"github.com/utafrali/catalog-service/internal/event"
	"github.com/utafrali/catalog-service/internal/repository"
	apperrors "github.com/utafrali/catalog-service/pkg/errors"
	"github.com/utafrali/catalog-service/pkg/slug"
)

// ProductLineService implements the business logic for product line and
// product image operations.
type ProductLineService struct {
	lineRepo    repository.ProductLineRepository
	imageRepo   repository.ProductImageRepository
	productRepo repository.ProductRepository
	validator   *AttributeValidator
	producer    *event.Producer
	cache       DetailCache
	logger      *slog.Logger
}

// NewProductLineService creates a new product line service.
func NewProductLineService(
	lineRepo repository.ProductLineRepository,
	imageRepo repository.ProductImageRepository,
	productRepo repository.ProductRepository,
	validator *AttributeValidator,
	producer *event.Producer,
	cache DetailCache,
	logger *slog.Logger,
) *ProductLineService {
	return &ProductLineService{
		lineRepo:    lineRepo,
		imageRepo:   imageRepo,
		productRepo: productRepo,
		validator:   validator,
		producer:    producer,
		cache:       cache,
		logger:      logger,
	}
}

// CreateProductLineInput holds the parameters for creating a product line.
type CreateProductLineInput struct {
	ProductTypeID     string
	SKU               string
	SecondName        string
	SecondDescription string
	Price             decimal.Decimal
	Weight            *decimal.Decimal
	Quantity          int
	IsActive          bool
	DisplayOrder      *int
}

// UpdateProductLineInput holds the parameters for updating a product line.
// Nil fields keep their stored values; a nil DisplayOrder keeps the stored
// order rather than reassigning it.
type UpdateProductLineInput struct {
	SKU               *string
	SecondName        *string
	SecondDescription *string
	Price             *decimal.Decimal
	Weight            *decimal.Decimal
	Quantity          *int
	IsActive          *bool
	DisplayOrder      *int
}

// CreateLine creates a new product line under the given product. An unset
// display order takes the next free position within the product.
func (s *ProductLineService) CreateLine(ctx context.Context, productID string, input *CreateProductLineInput) (*domain.ProductLine, error) {
	if input.SKU == "" {
		return nil, apperrors.InvalidInput("sku is required")
	}
	if input.Price.IsNegative() {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.Quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}

	// The product must exist; its lines reference it with RESTRICT.
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product for line: %w", err)
	}

	now := time.Now().UTC()
	line := &domain.ProductLine{
		ID:                uuid.New().String(),
		ProductID:         productID,
		ProductTypeID:     input.ProductTypeID,
		SKU:               input.SKU,
		Slug:              slug.Generate(input.SKU),
		SecondName:        input.SecondName,
		SecondDescription: input.SecondDescription,
		Price:             input.Price,
		Weight:            input.Weight,
		Quantity:          input.Quantity,
		IsActive:          input.IsActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	line.Normalize()

	if err := s.lineRepo.Create(ctx, line, input.DisplayOrder); err != nil {
		return nil, fmt.Errorf("create product line: %w", err)
	}

	s.invalidateDetail(ctx, productID)

	if err := s.producer.PublishProductLineCreated(ctx, line); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product_line.created event",
			slog.String("line_id", line.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product line created",
		slog.String("line_id", line.ID),
		slog.String("product_id", productID),
		slog.Int("display_order", line.DisplayOrder),
	)

	return line, nil
}

// GetLine retrieves a product line by its ID.
func (s *ProductLineService) GetLine(ctx context.Context, id string) (*domain.ProductLine, error) {
	line, err := s.lineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product line by id: %w", err)
	}
	return line, nil
}

// GetLineDetail retrieves a product line with its flattened attributes and
// ordered images.
func (s *ProductLineService) GetLineDetail(ctx context.Context, id string) (*domain.ProductLineDetail, error) {
	line, err := s.lineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product line by id: %w", err)
	}
	return s.enrichLine(ctx, line)
}

// ListLines returns the product's lines ordered by display order.
func (s *ProductLineService) ListLines(ctx context.Context, productID string) ([]domain.ProductLine, error) {
	lines, err := s.lineRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list product lines: %w", err)
	}
	return lines, nil
}

// UpdateLine applies partial updates to an existing product line. A nil
// DisplayOrder in the input keeps the stored order; an explicit one is
// validated within the product with the line itself excluded.
func (s *ProductLineService) UpdateLine(ctx context.Context, id string, input *UpdateProductLineInput) (*domain.ProductLine, error) {
	line, err := s.lineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product line for update: %w", err)
	}

	if input.SKU != nil {
		if *input.SKU == "" {
			return nil, apperrors.InvalidInput("sku must not be empty")
		}
		line.SKU = *input.SKU
		line.Slug = slug.Generate(*input.SKU)
	}
	if input.SecondName != nil {
		line.SecondName = *input.SecondName
	}
	if input.SecondDescription != nil {
		line.SecondDescription = *input.SecondDescription
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		line.Price = *input.Price
	}
	if input.Weight != nil {
		line.Weight = input.Weight
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, apperrors.InvalidInput("quantity must not be negative")
		}
		line.Quantity = *input.Quantity
	}
	if input.IsActive != nil {
		line.IsActive = *input.IsActive
	}
	line.Normalize()

	if err := s.lineRepo.Update(ctx, line, input.DisplayOrder); err != nil {
		return nil, fmt.Errorf("update product line: %w", err)
	}

	s.invalidateDetail(ctx, line.ProductID)

	if err := s.producer.PublishProductLineUpdated(ctx, line); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product_line.updated event",
			slog.String("line_id", line.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product line updated",
		slog.String("line_id", line.ID),
		slog.Int("display_order", line.DisplayOrder),
	)

	return line, nil
}

// DeleteLine removes a product line by its ID.
func (s *ProductLineService) DeleteLine(ctx context.Context, id string) error {
	line, err := s.lineRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get product line for delete: %w", err)
	}

	if err := s.lineRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product line: %w", err)
	}

	s.invalidateDetail(ctx, line.ProductID)

	if err := s.producer.PublishProductLineDeleted(ctx, id, line.ProductID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product_line.deleted event",
			slog.String("line_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product line deleted",
		slog.String("line_id", id),
	)

	return nil
}

// AttachAttributeValue links an attribute value to the line after validating
// it against the line's product type schema.
func (s *ProductLineService) AttachAttributeValue(ctx context.Context, lineID, valueID string) (*domain.LineAttributeValue, error) {
	line, err := s.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("get product line for attach: %w", err)
	}

	name, err := s.validator.Validate(ctx, line, valueID, "")
	if err != nil {
		return nil, err
	}

	link := &domain.LineAttributeValue{
		ID:               uuid.New().String(),
		ProductLineID:    lineID,
		AttributeValueID: valueID,
	}

	if err := s.lineRepo.AttachAttributeValue(ctx, link, name); err != nil {
		return nil, fmt.Errorf("attach attribute value: %w", err)
	}

	s.invalidateDetail(ctx, line.ProductID)

	s.logger.InfoContext(ctx, "attribute value attached",
		slog.String("line_id", lineID),
		slog.String("attribute_value_id", valueID),
	)

	return link, nil
}

// RebindAttributeValue replaces one of the line's attribute values with
// another in a single transaction. The existing join row is excluded from
// duplicate validation so swapping a value for another of the same attribute
// succeeds.
func (s *ProductLineService) RebindAttributeValue(ctx context.Context, lineID, oldValueID, newValueID string) (*domain.LineAttributeValue, error) {
	line, err := s.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("get product line for rebind: %w", err)
	}

	links, err := s.lineRepo.ListAttributeValues(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("list attribute values for rebind: %w", err)
	}

	var existing *domain.LineAttributeValue
	for i := range links {
		if links[i].AttributeValueID == oldValueID {
			existing = &links[i]
			break
		}
	}
	if existing == nil {
		return nil, apperrors.NotFound("product line attribute value", oldValueID)
	}

	name, err := s.validator.Validate(ctx, line, newValueID, existing.ID)
	if err != nil {
		return nil, err
	}

	link := &domain.LineAttributeValue{
		ID:               uuid.New().String(),
		ProductLineID:    lineID,
		AttributeValueID: newValueID,
	}
	if err := s.lineRepo.RebindAttributeValue(ctx, lineID, oldValueID, link, name); err != nil {
		return nil, fmt.Errorf("rebind attribute value: %w", err)
	}

	s.invalidateDetail(ctx, line.ProductID)

	s.logger.InfoContext(ctx, "attribute value rebound",
		slog.String("line_id", lineID),
		slog.String("old_attribute_value_id", oldValueID),
		slog.String("attribute_value_id", newValueID),
	)

	return link, nil
}

// DetachAttributeValue removes the link between the line and the value.
func (s *ProductLineService) DetachAttributeValue(ctx context.Context, lineID, valueID string) error {
	line, err := s.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return fmt.Errorf("get product line for detach: %w", err)
	}

	if err := s.lineRepo.DetachAttributeValue(ctx, lineID, valueID); err != nil {
		return fmt.Errorf("detach attribute value: %w", err)
	}

	s.invalidateDetail(ctx, line.ProductID)
	return nil
}

// ListAttributeValues returns the line's attribute value links with names and
// values denormalized.
func (s *ProductLineService) ListAttributeValues(ctx context.Context, lineID string) ([]domain.LineAttributeValue, error) {
	links, err := s.lineRepo.ListAttributeValues(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("list attribute values: %w", err)
	}
	return links, nil
}

// CreateImageInput holds the parameters for adding an image to a line.
type CreateImageInput struct {
	URL          string
	AltText      string
	DisplayOrder *int
}

// UpdateImageInput holds the parameters for updating an image.
type UpdateImageInput struct {
	URL          *string
	AltText      *string
	DisplayOrder *int
}

// CreateImage adds an image to a product line. An unset display order takes
// the next free position within the line.
func (s *ProductLineService) CreateImage(ctx context.Context, lineID string, input *CreateImageInput) (*domain.ProductImage, error) {
	if input.URL == "" {
		return nil, apperrors.InvalidInput("url is required")
	}

	line, err := s.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("get product line for image: %w", err)
	}

	img := &domain.ProductImage{
		ID:            uuid.New().String(),
		ProductLineID: lineID,
		URL:           input.URL,
		AltText:       input.AltText,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.imageRepo.Create(ctx, img, input.DisplayOrder); err != nil {
		return nil, fmt.Errorf("create product image: %w", err)
	}

	s.invalidateDetail(ctx, line.ProductID)

	s.logger.InfoContext(ctx, "product image created",
		slog.String("image_id", img.ID),
		slog.String("line_id", lineID),
		slog.Int("display_order", img.DisplayOrder),
	)

	return img, nil
}

// ListImages returns the line's images ordered by display order.
func (s *ProductLineService) ListImages(ctx context.Context, lineID string) ([]domain.ProductImage, error) {
	images, err := s.imageRepo.ListByLine(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	return images, nil
}

// UpdateImage applies partial updates to an existing image.
func (s *ProductLineService) UpdateImage(ctx context.Context, id string, input *UpdateImageInput) (*domain.ProductImage, error) {
	img, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product image for update: %w", err)
	}

	if input.URL != nil {
		if *input.URL == "" {
			return nil, apperrors.InvalidInput("url must not be empty")
		}
		img.URL = *input.URL
	}
	if input.AltText != nil {
		img.AltText = *input.AltText
	}

	if err := s.imageRepo.Update(ctx, img, input.DisplayOrder); err != nil {
		return nil, fmt.Errorf("update product image: %w", err)
	}

	if line, err := s.lineRepo.GetByID(ctx, img.ProductLineID); err == nil {
		s.invalidateDetail(ctx, line.ProductID)
	}

	return img, nil
}

// DeleteImage removes an image by its ID.
func (s *ProductLineService) DeleteImage(ctx context.Context, id string) error {
	img, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get product image for delete: %w", err)
	}

	if err := s.imageRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product image: %w", err)
	}

	if line, err := s.lineRepo.GetByID(ctx, img.ProductLineID); err == nil {
		s.invalidateDetail(ctx, line.ProductID)
	}

	return nil
}

// enrichLine loads the line's flattened attributes and ordered images.
func (s *ProductLineService) enrichLine(ctx context.Context, line *domain.ProductLine) (*domain.ProductLineDetail, error) {
	links, err := s.lineRepo.ListAttributeValues(ctx, line.ID)
	if err != nil {
		return nil, fmt.Errorf("list attribute values: %w", err)
	}

	flat, err := FlattenAttributes(links)
	if err != nil {
		return nil, fmt.Errorf("flatten attributes: %w", err)
	}

	images, err := s.imageRepo.ListByLine(ctx, line.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load line images",
			slog.String("line_id", line.ID),
			slog.String("error", err.Error()),
		)
		images = []domain.ProductImage{}
	}

	return &domain.ProductLineDetail{
		ProductLine: *line,
		Attributes:  flat,
		Images:      images,
	}, nil
}

// invalidateDetail drops the cached product detail after a write. Cache
// failures are logged and do not fail the operation.
func (s *ProductLineService) invalidateDetail(ctx context.Context, productID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, productID); err != nil {
		s.logger.ErrorContext(ctx, "failed to invalidate product detail cache",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}
