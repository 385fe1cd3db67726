package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/utafrali/catalog-service/internal/domain"
	"github.com/utafrali/catalog-service/internal/repository"
	apperrors "github.com/utafrali/catalog-service/pkg/errors"
)

// AttributeValidator checks attribute value attachments against the permitted
// set of the line's product type, and keeps attribute names unique per line.
type AttributeValidator struct {
	typeRepo repository.ProductTypeRepository
	attrRepo repository.AttributeRepository
	lineRepo repository.ProductLineRepository
}

// NewAttributeValidator creates a new attribute schema validator.
func NewAttributeValidator(
	typeRepo repository.ProductTypeRepository,
	attrRepo repository.AttributeRepository,
	lineRepo repository.ProductLineRepository,
) *AttributeValidator {
	return &AttributeValidator{
		typeRepo: typeRepo,
		attrRepo: attrRepo,
		lineRepo: lineRepo,
	}
}

// Validate checks that attributeValueID may be attached to the line: its
// attribute must be permitted by the line's product type, and the line must
// not already carry a value of the same attribute. excludeJoinID names the
// join row being re-saved so it does not collide with itself; it is empty for
// a fresh attachment.
//
// It returns the resolved attribute name so the write can re-run the
// duplicate check inside its own transaction. The check here is advisory;
// the in-transaction one decides under concurrency.
func (v *AttributeValidator) Validate(ctx context.Context, line *domain.ProductLine, attributeValueID, excludeJoinID string) (string, error) {
	allowed, err := v.typeRepo.AllowedAttributeNames(ctx, line.ProductTypeID)
	if err != nil {
		return "", fmt.Errorf("load allowed attribute names: %w", err)
	}

	name, err := v.attrRepo.AttributeNameForValue(ctx, attributeValueID)
	if err != nil {
		return "", fmt.Errorf("resolve attribute for value: %w", err)
	}

	if !slices.Contains(allowed, name) {
		pt, err := v.typeRepo.GetByID(ctx, line.ProductTypeID)
		if err != nil {
			return "", fmt.Errorf("load product type: %w", err)
		}
		return "", apperrors.AttributeNotAllowed(name, pt.Name)
	}

	has, err := v.lineRepo.LineHasAttribute(ctx, line.ID, name, excludeJoinID)
	if err != nil {
		return "", fmt.Errorf("check duplicate attribute: %w", err)
	}
	if has {
		return "", apperrors.DuplicateAttribute(name)
	}

	return name, nil
}

// FlattenAttributes collapses a line's attribute value links to an
// attribute-name keyed map. Two links sharing an attribute name indicate the
// validator or the store constraints were bypassed, so it is reported as an
// error rather than silently dropping a value.
func FlattenAttributes(links []domain.LineAttributeValue) (map[string]string, error) {
	flat := make(map[string]string, len(links))
	for _, link := range links {
		if _, ok := flat[link.AttributeName]; ok {
			return nil, fmt.Errorf("duplicate attribute %q on product line %s", link.AttributeName, link.ProductLineID)
		}
		flat[link.AttributeName] = link.Value
	}
	return flat, nil
}
