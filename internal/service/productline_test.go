package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog-service/internal/domain"
	apperrors "github.com/utafrali/catalog-service/pkg/errors"
)

type lineServiceMocks struct {
	lineRepo    *mockProductLineRepository
	imageRepo   *mockProductImageRepository
	productRepo *mockProductRepository
	typeRepo    *mockProductTypeRepository
	attrRepo    *mockAttributeRepository
	cache       *mockDetailCache
}

func newTestLineService(t *testing.T) (*ProductLineService, *lineServiceMocks) {
	t.Helper()
	m := &lineServiceMocks{
		lineRepo:    new(mockProductLineRepository),
		imageRepo:   new(mockProductImageRepository),
		productRepo: new(mockProductRepository),
		typeRepo:    new(mockProductTypeRepository),
		attrRepo:    new(mockAttributeRepository),
		cache:       new(mockDetailCache),
	}
	validator := NewAttributeValidator(m.typeRepo, m.attrRepo, m.lineRepo)
	svc := NewProductLineService(m.lineRepo, m.imageRepo, m.productRepo, validator, newTestProducer(t), m.cache, newTestLogger())
	return svc, m
}

func sampleLine(id string) *domain.ProductLine {
	return &domain.ProductLine{
		ID:            id,
		ProductID:     "p-1",
		ProductTypeID: "type-1",
		SKU:           "SKU-" + id,
		Slug:          "sku-" + id,
		Price:         decimal.RequireFromString("49.99"),
		Quantity:      10,
		IsActive:      true,
		DisplayOrder:  1,
	}
}

// --- Create ---

func TestCreateLine_UnsetOrderPassesNil(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.productRepo.On("GetByID", ctx, "p-1").Return(&domain.Product{ID: "p-1"}, nil)
	m.lineRepo.On("Create", ctx, mock.AnythingOfType("*domain.ProductLine"), (*int)(nil)).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.ProductLine).DisplayOrder = 3
		}).Return(nil)
	m.cache.On("Invalidate", ctx, "p-1").Return(nil)

	line, err := svc.CreateLine(ctx, "p-1", &CreateProductLineInput{
		ProductTypeID: "type-1",
		SKU:           "SKU-100",
		Price:         decimal.RequireFromString("49.99"),
		Quantity:      5,
		IsActive:      true,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, line.DisplayOrder)
	assert.Equal(t, "sku-100", line.Slug)
	m.lineRepo.AssertExpectations(t)
}

func TestCreateLine_ExplicitOrderForwarded(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.productRepo.On("GetByID", ctx, "p-1").Return(&domain.Product{ID: "p-1"}, nil)
	m.lineRepo.On("Create", ctx, mock.AnythingOfType("*domain.ProductLine"), intPtr(5)).Return(nil)
	m.cache.On("Invalidate", ctx, "p-1").Return(nil)

	_, err := svc.CreateLine(ctx, "p-1", &CreateProductLineInput{
		ProductTypeID: "type-1",
		SKU:           "SKU-100",
		Price:         decimal.RequireFromString("49.99"),
		DisplayOrder:  intPtr(5),
	})

	require.NoError(t, err)
	m.lineRepo.AssertExpectations(t)
}

func TestCreateLine_OrderConflict(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.productRepo.On("GetByID", ctx, "p-1").Return(&domain.Product{ID: "p-1"}, nil)
	m.lineRepo.On("Create", ctx, mock.AnythingOfType("*domain.ProductLine"), intPtr(2)).
		Return(apperrors.OrderConflict("display_order", 2))

	line, err := svc.CreateLine(ctx, "p-1", &CreateProductLineInput{
		ProductTypeID: "type-1",
		SKU:           "SKU-100",
		Price:         decimal.RequireFromString("49.99"),
		DisplayOrder:  intPtr(2),
	})

	assert.Nil(t, line)
	assert.ErrorIs(t, err, apperrors.ErrOrderConflict)
	m.lineRepo.AssertExpectations(t)
}

func TestCreateLine_RoundsPriceAndWeight(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.productRepo.On("GetByID", ctx, "p-1").Return(&domain.Product{ID: "p-1"}, nil)
	m.lineRepo.On("Create", ctx, mock.AnythingOfType("*domain.ProductLine"), (*int)(nil)).Return(nil)
	m.cache.On("Invalidate", ctx, "p-1").Return(nil)

	weight := decimal.RequireFromString("1.23456")
	line, err := svc.CreateLine(ctx, "p-1", &CreateProductLineInput{
		ProductTypeID: "type-1",
		SKU:           "SKU-100",
		Price:         decimal.RequireFromString("123.455"),
		Weight:        &weight,
	})

	require.NoError(t, err)
	assert.Equal(t, "123.46", line.Price.StringFixed(2))
	assert.Equal(t, "1.235", line.Weight.StringFixed(3))
}

func TestCreateLine_EmptySKU(t *testing.T) {
	svc, _ := newTestLineService(t)

	line, err := svc.CreateLine(context.Background(), "p-1", &CreateProductLineInput{
		Price: decimal.RequireFromString("49.99"),
	})

	assert.Nil(t, line)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateLine_NegativePrice(t *testing.T) {
	svc, _ := newTestLineService(t)

	line, err := svc.CreateLine(context.Background(), "p-1", &CreateProductLineInput{
		SKU:   "SKU-100",
		Price: decimal.RequireFromString("-1.00"),
	})

	assert.Nil(t, line)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateLine_ProductNotFound(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.productRepo.On("GetByID", ctx, "ghost").Return(nil, apperrors.ErrNotFound)

	line, err := svc.CreateLine(ctx, "ghost", &CreateProductLineInput{
		SKU:   "SKU-100",
		Price: decimal.RequireFromString("49.99"),
	})

	assert.Nil(t, line)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- Update ---

func TestUpdateLine_NilOrderKeepsStored(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	existing := sampleLine("l-1")
	existing.DisplayOrder = 4
	m.lineRepo.On("GetByID", ctx, "l-1").Return(existing, nil)
	m.lineRepo.On("Update", ctx, mock.AnythingOfType("*domain.ProductLine"), (*int)(nil)).Return(nil)
	m.cache.On("Invalidate", ctx, "p-1").Return(nil)

	line, err := svc.UpdateLine(ctx, "l-1", &UpdateProductLineInput{
		Quantity: intPtr(25),
	})

	require.NoError(t, err)
	assert.Equal(t, 4, line.DisplayOrder)
	assert.Equal(t, 25, line.Quantity)
	m.lineRepo.AssertExpectations(t)
}

func TestUpdateLine_ExplicitOrderForwarded(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.lineRepo.On("GetByID", ctx, "l-1").Return(sampleLine("l-1"), nil)
	m.lineRepo.On("Update", ctx, mock.AnythingOfType("*domain.ProductLine"), intPtr(7)).Return(nil)
	m.cache.On("Invalidate", ctx, "p-1").Return(nil)

	_, err := svc.UpdateLine(ctx, "l-1", &UpdateProductLineInput{
		DisplayOrder: intPtr(7),
	})

	require.NoError(t, err)
	m.lineRepo.AssertExpectations(t)
}

func TestUpdateLine_OrderConflict(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.lineRepo.On("GetByID", ctx, "l-1").Return(sampleLine("l-1"), nil)
	m.lineRepo.On("Update", ctx, mock.AnythingOfType("*domain.ProductLine"), intPtr(2)).
		Return(apperrors.OrderConflict("display_order", 2))

	line, err := svc.UpdateLine(ctx, "l-1", &UpdateProductLineInput{DisplayOrder: intPtr(2)})

	assert.Nil(t, line)
	assert.ErrorIs(t, err, apperrors.ErrOrderConflict)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ORDER_CONFLICT", appErr.Code)
	assert.Equal(t, "display_order", appErr.Field)
}

// --- Attribute values ---

func TestAttachAttributeValue_Success(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.lineRepo.On("GetByID", ctx, "l-1").Return(sampleLine("l-1"), nil)
	m.typeRepo.On("AllowedAttributeNames", ctx, "type-1").Return([]string{"Color", "Size"}, nil)
	m.attrRepo.On("AttributeNameForValue", ctx, "v-red").Return("Color", nil)
	m.lineRepo.On("LineHasAttribute", ctx, "l-1", "Color", "").Return(false, nil)
	m.lineRepo.On("AttachAttributeValue", ctx, mock.AnythingOfType("*domain.LineAttributeValue"), "Color").Return(nil)
	m.cache.On("Invalidate", ctx, "p-1").Return(nil)

	link, err := svc.AttachAttributeValue(ctx, "l-1", "v-red")

	require.NoError(t, err)
	assert.Equal(t, "l-1", link.ProductLineID)
	assert.Equal(t, "v-red", link.AttributeValueID)
	m.lineRepo.AssertExpectations(t)
}

func TestAttachAttributeValue_NotAllowed(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.lineRepo.On("GetByID", ctx, "l-1").Return(sampleLine("l-1"), nil)
	m.typeRepo.On("AllowedAttributeNames", ctx, "type-1").Return([]string{"Color", "Size"}, nil)
	m.attrRepo.On("AttributeNameForValue", ctx, "v-cotton").Return("Material", nil)
	m.typeRepo.On("GetByID", ctx, "type-1").Return(&domain.ProductType{ID: "type-1", Name: "Sneaker"}, nil)

	link, err := svc.AttachAttributeValue(ctx, "l-1", "v-cotton")

	assert.Nil(t, link)
	assert.ErrorIs(t, err, apperrors.ErrAttributeNotAllowed)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "Material")
	assert.Contains(t, appErr.Message, "Sneaker")

	m.lineRepo.AssertNotCalled(t, "AttachAttributeValue", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachAttributeValue_DuplicateAttribute(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	// The line already carries Color=Red; attaching Color=Blue must fail.
	m.lineRepo.On("GetByID", ctx, "l-1").Return(sampleLine("l-1"), nil)
	m.typeRepo.On("AllowedAttributeNames", ctx, "type-1").Return([]string{"Color", "Size"}, nil)
	m.attrRepo.On("AttributeNameForValue", ctx, "v-blue").Return("Color", nil)
	m.lineRepo.On("LineHasAttribute", ctx, "l-1", "Color", "").Return(true, nil)

	link, err := svc.AttachAttributeValue(ctx, "l-1", "v-blue")

	assert.Nil(t, link)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateAttribute)
	m.lineRepo.AssertNotCalled(t, "AttachAttributeValue", mock.Anything, mock.Anything, mock.Anything)
}

func TestRebindAttributeValue_ExcludesOwnJoinRow(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	// Swapping Color=Red for Color=Blue must not trip the duplicate check on
	// the row being replaced.
	m.lineRepo.On("GetByID", ctx, "l-1").Return(sampleLine("l-1"), nil)
	m.lineRepo.On("ListAttributeValues", ctx, "l-1").Return([]domain.LineAttributeValue{
		{ID: "j-1", ProductLineID: "l-1", AttributeValueID: "v-red", AttributeName: "Color", Value: "Red"},
	}, nil)
	m.typeRepo.On("AllowedAttributeNames", ctx, "type-1").Return([]string{"Color"}, nil)
	m.attrRepo.On("AttributeNameForValue", ctx, "v-blue").Return("Color", nil)
	m.lineRepo.On("LineHasAttribute", ctx, "l-1", "Color", "j-1").Return(false, nil)
	m.lineRepo.On("RebindAttributeValue", ctx, "l-1", "v-red", mock.AnythingOfType("*domain.LineAttributeValue"), "Color").Return(nil)
	m.cache.On("Invalidate", ctx, "p-1").Return(nil)

	link, err := svc.RebindAttributeValue(ctx, "l-1", "v-red", "v-blue")

	require.NoError(t, err)
	assert.Equal(t, "v-blue", link.AttributeValueID)
	m.lineRepo.AssertExpectations(t)
	m.lineRepo.AssertNotCalled(t, "DetachAttributeValue", mock.Anything, mock.Anything, mock.Anything)
}

func TestRebindAttributeValue_OldValueNotAttached(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.lineRepo.On("GetByID", ctx, "l-1").Return(sampleLine("l-1"), nil)
	m.lineRepo.On("ListAttributeValues", ctx, "l-1").Return([]domain.LineAttributeValue{}, nil)

	link, err := svc.RebindAttributeValue(ctx, "l-1", "v-red", "v-blue")

	assert.Nil(t, link)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	m.lineRepo.AssertNotCalled(t, "RebindAttributeValue", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDetachAttributeValue_Success(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.lineRepo.On("GetByID", ctx, "l-1").Return(sampleLine("l-1"), nil)
	m.lineRepo.On("DetachAttributeValue", ctx, "l-1", "v-red").Return(nil)
	m.cache.On("Invalidate", ctx, "p-1").Return(nil)

	err := svc.DetachAttributeValue(ctx, "l-1", "v-red")

	require.NoError(t, err)
	m.lineRepo.AssertExpectations(t)
}

// --- Images ---

func TestCreateImage_UnsetOrderPassesNil(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.lineRepo.On("GetByID", ctx, "l-1").Return(sampleLine("l-1"), nil)
	m.imageRepo.On("Create", ctx, mock.AnythingOfType("*domain.ProductImage"), (*int)(nil)).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.ProductImage).DisplayOrder = 2
		}).Return(nil)
	m.cache.On("Invalidate", ctx, "p-1").Return(nil)

	img, err := svc.CreateImage(ctx, "l-1", &CreateImageInput{
		URL:     "https://cdn.example.com/shoe.jpg",
		AltText: "side view",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, img.DisplayOrder)
	m.imageRepo.AssertExpectations(t)
}

func TestCreateImage_EmptyURL(t *testing.T) {
	svc, _ := newTestLineService(t)

	img, err := svc.CreateImage(context.Background(), "l-1", &CreateImageInput{})

	assert.Nil(t, img)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateImage_OrderConflict(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.lineRepo.On("GetByID", ctx, "l-1").Return(sampleLine("l-1"), nil)
	m.imageRepo.On("Create", ctx, mock.AnythingOfType("*domain.ProductImage"), intPtr(1)).
		Return(apperrors.OrderConflict("display_order", 1))

	img, err := svc.CreateImage(ctx, "l-1", &CreateImageInput{
		URL:          "https://cdn.example.com/shoe.jpg",
		DisplayOrder: intPtr(1),
	})

	assert.Nil(t, img)
	assert.ErrorIs(t, err, apperrors.ErrOrderConflict)
}

// --- Detail ---

func TestGetLineDetail_FlattensAttributes(t *testing.T) {
	svc, m := newTestLineService(t)
	ctx := context.Background()

	m.lineRepo.On("GetByID", ctx, "l-1").Return(sampleLine("l-1"), nil)
	m.lineRepo.On("ListAttributeValues", ctx, "l-1").Return([]domain.LineAttributeValue{
		{ID: "j-1", ProductLineID: "l-1", AttributeName: "Color", Value: "Red"},
		{ID: "j-2", ProductLineID: "l-1", AttributeName: "Size", Value: "42"},
	}, nil)
	m.imageRepo.On("ListByLine", ctx, "l-1").Return([]domain.ProductImage{}, nil)

	detail, err := svc.GetLineDetail(ctx, "l-1")

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Color": "Red", "Size": "42"}, detail.Attributes)
}
