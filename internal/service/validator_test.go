package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog-service/internal/domain"
	apperrors "github.com/utafrali/catalog-service/pkg/errors"
)

func newTestValidator() (*AttributeValidator, *mockProductTypeRepository, *mockAttributeRepository, *mockProductLineRepository) {
	typeRepo := new(mockProductTypeRepository)
	attrRepo := new(mockAttributeRepository)
	lineRepo := new(mockProductLineRepository)
	return NewAttributeValidator(typeRepo, attrRepo, lineRepo), typeRepo, attrRepo, lineRepo
}

func TestValidate_PermittedAndFree(t *testing.T) {
	v, typeRepo, attrRepo, lineRepo := newTestValidator()
	ctx := context.Background()
	line := &domain.ProductLine{ID: "l-1", ProductTypeID: "type-1"}

	typeRepo.On("AllowedAttributeNames", ctx, "type-1").Return([]string{"Color", "Size"}, nil)
	attrRepo.On("AttributeNameForValue", ctx, "v-red").Return("Color", nil)
	lineRepo.On("LineHasAttribute", ctx, "l-1", "Color", "").Return(false, nil)

	name, err := v.Validate(ctx, line, "v-red", "")

	require.NoError(t, err)
	assert.Equal(t, "Color", name)
}

func TestValidate_AttributeNotPermitted(t *testing.T) {
	v, typeRepo, attrRepo, _ := newTestValidator()
	ctx := context.Background()
	line := &domain.ProductLine{ID: "l-1", ProductTypeID: "type-1"}

	typeRepo.On("AllowedAttributeNames", ctx, "type-1").Return([]string{"Size"}, nil)
	attrRepo.On("AttributeNameForValue", ctx, "v-red").Return("Color", nil)
	typeRepo.On("GetByID", ctx, "type-1").Return(&domain.ProductType{ID: "type-1", Name: "Mug"}, nil)

	_, err := v.Validate(ctx, line, "v-red", "")

	assert.ErrorIs(t, err, apperrors.ErrAttributeNotAllowed)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ATTRIBUTE_NOT_ALLOWED", appErr.Code)
	assert.Equal(t, "attribute_value_ids", appErr.Field)
}

func TestValidate_CaseSensitiveNames(t *testing.T) {
	v, typeRepo, attrRepo, _ := newTestValidator()
	ctx := context.Background()
	line := &domain.ProductLine{ID: "l-1", ProductTypeID: "type-1"}

	// "color" does not match the permitted "Color".
	typeRepo.On("AllowedAttributeNames", ctx, "type-1").Return([]string{"Color"}, nil)
	attrRepo.On("AttributeNameForValue", ctx, "v-red").Return("color", nil)
	typeRepo.On("GetByID", ctx, "type-1").Return(&domain.ProductType{ID: "type-1", Name: "Mug"}, nil)

	_, err := v.Validate(ctx, line, "v-red", "")

	assert.ErrorIs(t, err, apperrors.ErrAttributeNotAllowed)
}

func TestValidate_DuplicateAttribute(t *testing.T) {
	v, typeRepo, attrRepo, lineRepo := newTestValidator()
	ctx := context.Background()
	line := &domain.ProductLine{ID: "l-1", ProductTypeID: "type-1"}

	typeRepo.On("AllowedAttributeNames", ctx, "type-1").Return([]string{"Color"}, nil)
	attrRepo.On("AttributeNameForValue", ctx, "v-blue").Return("Color", nil)
	lineRepo.On("LineHasAttribute", ctx, "l-1", "Color", "").Return(true, nil)

	_, err := v.Validate(ctx, line, "v-blue", "")

	assert.ErrorIs(t, err, apperrors.ErrDuplicateAttribute)
}

func TestValidate_ExcludeJoinIDForwarded(t *testing.T) {
	v, typeRepo, attrRepo, lineRepo := newTestValidator()
	ctx := context.Background()
	line := &domain.ProductLine{ID: "l-1", ProductTypeID: "type-1"}

	typeRepo.On("AllowedAttributeNames", ctx, "type-1").Return([]string{"Color"}, nil)
	attrRepo.On("AttributeNameForValue", ctx, "v-blue").Return("Color", nil)
	lineRepo.On("LineHasAttribute", ctx, "l-1", "Color", "j-1").Return(false, nil)

	name, err := v.Validate(ctx, line, "v-blue", "j-1")

	require.NoError(t, err)
	assert.Equal(t, "Color", name)
	lineRepo.AssertExpectations(t)
}

func TestValidate_ValueNotFound(t *testing.T) {
	v, typeRepo, attrRepo, _ := newTestValidator()
	ctx := context.Background()
	line := &domain.ProductLine{ID: "l-1", ProductTypeID: "type-1"}

	typeRepo.On("AllowedAttributeNames", ctx, "type-1").Return([]string{"Color"}, nil)
	attrRepo.On("AttributeNameForValue", ctx, "ghost").Return("", apperrors.ErrNotFound)

	_, err := v.Validate(ctx, line, "ghost", "")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFlattenAttributes(t *testing.T) {
	flat, err := FlattenAttributes([]domain.LineAttributeValue{
		{ID: "j-1", ProductLineID: "l-1", AttributeName: "Color", Value: "Red"},
		{ID: "j-2", ProductLineID: "l-1", AttributeName: "Size", Value: "42"},
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Color": "Red", "Size": "42"}, flat)
}

func TestFlattenAttributes_Empty(t *testing.T) {
	flat, err := FlattenAttributes(nil)

	require.NoError(t, err)
	assert.Empty(t, flat)
}

func TestFlattenAttributes_DuplicateName(t *testing.T) {
	flat, err := FlattenAttributes([]domain.LineAttributeValue{
		{ID: "j-1", ProductLineID: "l-1", AttributeName: "Color", Value: "Red"},
		{ID: "j-2", ProductLineID: "l-1", AttributeName: "Color", Value: "Blue"},
	})

	assert.Nil(t, flat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate attribute "Color"`)
}
