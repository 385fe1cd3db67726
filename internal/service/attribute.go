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

// AttributeService implements the business logic for attributes and their
// values.
type AttributeService struct {
	repo   repository.AttributeRepository
	logger *slog.Logger
}

// NewAttributeService creates a new attribute service.
func NewAttributeService(repo repository.AttributeRepository, logger *slog.Logger) *AttributeService {
	return &AttributeService{repo: repo, logger: logger}
}

// CreateAttribute creates a new attribute with the given name.
func (s *AttributeService) CreateAttribute(ctx context.Context, name string) (*domain.Attribute, error) {
	if name == "" {
		return nil, apperrors.InvalidInput("attribute name is required")
	}

	now := time.Now().UTC()
	attribute := &domain.Attribute{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, attribute); err != nil {
		return nil, fmt.Errorf("create attribute: %w", err)
	}

	s.logger.InfoContext(ctx, "attribute created",
		slog.String("attribute_id", attribute.ID),
		slog.String("name", attribute.Name),
	)

	return attribute, nil
}

// GetAttribute retrieves an attribute by its ID.
func (s *AttributeService) GetAttribute(ctx context.Context, id string) (*domain.Attribute, error) {
	attribute, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get attribute by id: %w", err)
	}
	return attribute, nil
}

// ListAttributes returns all attributes.
func (s *AttributeService) ListAttributes(ctx context.Context) ([]domain.Attribute, error) {
	attributes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}
	return attributes, nil
}

// UpdateAttribute renames an attribute.
func (s *AttributeService) UpdateAttribute(ctx context.Context, id, name string) (*domain.Attribute, error) {
	if name == "" {
		return nil, apperrors.InvalidInput("attribute name must not be empty")
	}

	attribute, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get attribute for update: %w", err)
	}

	attribute.Name = name
	if err := s.repo.Update(ctx, attribute); err != nil {
		return nil, fmt.Errorf("update attribute: %w", err)
	}

	s.logger.InfoContext(ctx, "attribute updated",
		slog.String("attribute_id", attribute.ID),
	)

	return attribute, nil
}

// DeleteAttribute removes an attribute by its ID.
func (s *AttributeService) DeleteAttribute(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete attribute: %w", err)
	}

	s.logger.InfoContext(ctx, "attribute deleted",
		slog.String("attribute_id", id),
	)

	return nil
}

// CreateAttributeValue adds a new value to an attribute.
func (s *AttributeService) CreateAttributeValue(ctx context.Context, attributeID, value string) (*domain.AttributeValue, error) {
	if value == "" {
		return nil, apperrors.InvalidInput("attribute value is required")
	}
	if _, err := s.repo.GetByID(ctx, attributeID); err != nil {
		return nil, fmt.Errorf("get attribute: %w", err)
	}

	now := time.Now().UTC()
	attrValue := &domain.AttributeValue{
		ID:          uuid.New().String(),
		AttributeID: attributeID,
		Value:       value,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateValue(ctx, attrValue); err != nil {
		return nil, fmt.Errorf("create attribute value: %w", err)
	}

	s.logger.InfoContext(ctx, "attribute value created",
		slog.String("attribute_value_id", attrValue.ID),
		slog.String("attribute_id", attributeID),
	)

	return attrValue, nil
}

// GetAttributeValue retrieves an attribute value by its ID.
func (s *AttributeService) GetAttributeValue(ctx context.Context, id string) (*domain.AttributeValue, error) {
	value, err := s.repo.GetValue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get attribute value by id: %w", err)
	}
	return value, nil
}

// ListAttributeValues returns all values of an attribute.
func (s *AttributeService) ListAttributeValues(ctx context.Context, attributeID string) ([]domain.AttributeValue, error) {
	values, err := s.repo.ListValues(ctx, attributeID)
	if err != nil {
		return nil, fmt.Errorf("list attribute values: %w", err)
	}
	return values, nil
}

// UpdateAttributeValue changes the text of an attribute value.
func (s *AttributeService) UpdateAttributeValue(ctx context.Context, id, value string) (*domain.AttributeValue, error) {
	if value == "" {
		return nil, apperrors.InvalidInput("attribute value must not be empty")
	}

	attrValue, err := s.repo.GetValue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get attribute value for update: %w", err)
	}

	attrValue.Value = value
	if err := s.repo.UpdateValue(ctx, attrValue); err != nil {
		return nil, fmt.Errorf("update attribute value: %w", err)
	}

	s.logger.InfoContext(ctx, "attribute value updated",
		slog.String("attribute_value_id", attrValue.ID),
	)

	return attrValue, nil
}

// DeleteAttributeValue removes an attribute value by its ID.
func (s *AttributeService) DeleteAttributeValue(ctx context.Context, id string) error {
	if err := s.repo.DeleteValue(ctx, id); err != nil {
		return fmt.Errorf("delete attribute value: %w", err)
	}

	s.logger.InfoContext(ctx, "attribute value deleted",
		slog.String("attribute_value_id", id),
	)

	return nil
}
