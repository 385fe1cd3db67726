package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/catalog-service/internal/domain"
	"github.com/utafrali/catalog-service/internal/event"
	"github.com/utafrali/catalog-service/internal/repository"
	pkgkafka "github.com/utafrali/catalog-service/pkg/kafka"
)

// --- Mock Repositories ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCategoryRepository struct {
	mock.Mock
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) List(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockProductTypeRepository struct {
	mock.Mock
}

func (m *mockProductTypeRepository) Create(ctx context.Context, pt *domain.ProductType) error {
	args := m.Called(ctx, pt)
	return args.Error(0)
}

func (m *mockProductTypeRepository) GetByID(ctx context.Context, id string) (*domain.ProductType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductType), args.Error(1)
}

func (m *mockProductTypeRepository) List(ctx context.Context) ([]domain.ProductType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ProductType), args.Error(1)
}

func (m *mockProductTypeRepository) Update(ctx context.Context, pt *domain.ProductType) error {
	args := m.Called(ctx, pt)
	return args.Error(0)
}

func (m *mockProductTypeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductTypeRepository) AddAttribute(ctx context.Context, link *domain.ProductTypeAttribute) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *mockProductTypeRepository) RemoveAttribute(ctx context.Context, typeID, attributeID string) error {
	args := m.Called(ctx, typeID, attributeID)
	return args.Error(0)
}

func (m *mockProductTypeRepository) ListAttributes(ctx context.Context, typeID string) ([]domain.Attribute, error) {
	args := m.Called(ctx, typeID)
	return args.Get(0).([]domain.Attribute), args.Error(1)
}

func (m *mockProductTypeRepository) AllowedAttributeNames(ctx context.Context, typeID string) ([]string, error) {
	args := m.Called(ctx, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockProductTypeRepository) ListEligibleValues(ctx context.Context, typeID string) ([]domain.AttributeValue, error) {
	args := m.Called(ctx, typeID)
	return args.Get(0).([]domain.AttributeValue), args.Error(1)
}

type mockAttributeRepository struct {
	mock.Mock
}

func (m *mockAttributeRepository) Create(ctx context.Context, attr *domain.Attribute) error {
	args := m.Called(ctx, attr)
	return args.Error(0)
}

func (m *mockAttributeRepository) GetByID(ctx context.Context, id string) (*domain.Attribute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attribute), args.Error(1)
}

func (m *mockAttributeRepository) List(ctx context.Context) ([]domain.Attribute, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Attribute), args.Error(1)
}

func (m *mockAttributeRepository) Update(ctx context.Context, attr *domain.Attribute) error {
	args := m.Called(ctx, attr)
	return args.Error(0)
}

func (m *mockAttributeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAttributeRepository) CreateValue(ctx context.Context, value *domain.AttributeValue) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

func (m *mockAttributeRepository) GetValue(ctx context.Context, id string) (*domain.AttributeValue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttributeValue), args.Error(1)
}

func (m *mockAttributeRepository) ListValues(ctx context.Context, attributeID string) ([]domain.AttributeValue, error) {
	args := m.Called(ctx, attributeID)
	return args.Get(0).([]domain.AttributeValue), args.Error(1)
}

func (m *mockAttributeRepository) UpdateValue(ctx context.Context, value *domain.AttributeValue) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

func (m *mockAttributeRepository) DeleteValue(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAttributeRepository) AttributeNameForValue(ctx context.Context, valueID string) (string, error) {
	args := m.Called(ctx, valueID)
	return args.String(0), args.Error(1)
}

type mockProductLineRepository struct {
	mock.Mock
}

func (m *mockProductLineRepository) Create(ctx context.Context, line *domain.ProductLine, explicitOrder *int) error {
	args := m.Called(ctx, line, explicitOrder)
	return args.Error(0)
}

func (m *mockProductLineRepository) GetByID(ctx context.Context, id string) (*domain.ProductLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductLine), args.Error(1)
}

func (m *mockProductLineRepository) GetBySKU(ctx context.Context, sku string) (*domain.ProductLine, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductLine), args.Error(1)
}

func (m *mockProductLineRepository) ListByProduct(ctx context.Context, productID string) ([]domain.ProductLine, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.ProductLine), args.Error(1)
}

func (m *mockProductLineRepository) Update(ctx context.Context, line *domain.ProductLine, explicitOrder *int) error {
	args := m.Called(ctx, line, explicitOrder)
	return args.Error(0)
}

func (m *mockProductLineRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductLineRepository) AttachAttributeValue(ctx context.Context, link *domain.LineAttributeValue, attributeName string) error {
	args := m.Called(ctx, link, attributeName)
	return args.Error(0)
}

func (m *mockProductLineRepository) RebindAttributeValue(ctx context.Context, lineID, oldValueID string, link *domain.LineAttributeValue, attributeName string) error {
	args := m.Called(ctx, lineID, oldValueID, link, attributeName)
	return args.Error(0)
}

func (m *mockProductLineRepository) DetachAttributeValue(ctx context.Context, lineID, valueID string) error {
	args := m.Called(ctx, lineID, valueID)
	return args.Error(0)
}

func (m *mockProductLineRepository) ListAttributeValues(ctx context.Context, lineID string) ([]domain.LineAttributeValue, error) {
	args := m.Called(ctx, lineID)
	return args.Get(0).([]domain.LineAttributeValue), args.Error(1)
}

func (m *mockProductLineRepository) LineHasAttribute(ctx context.Context, lineID, attributeName, excludeJoinID string) (bool, error) {
	args := m.Called(ctx, lineID, attributeName, excludeJoinID)
	return args.Bool(0), args.Error(1)
}

type mockProductImageRepository struct {
	mock.Mock
}

func (m *mockProductImageRepository) Create(ctx context.Context, image *domain.ProductImage, explicitOrder *int) error {
	args := m.Called(ctx, image, explicitOrder)
	return args.Error(0)
}

func (m *mockProductImageRepository) GetByID(ctx context.Context, id string) (*domain.ProductImage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductImage), args.Error(1)
}

func (m *mockProductImageRepository) ListByLine(ctx context.Context, lineID string) ([]domain.ProductImage, error) {
	args := m.Called(ctx, lineID)
	return args.Get(0).([]domain.ProductImage), args.Error(1)
}

func (m *mockProductImageRepository) Update(ctx context.Context, image *domain.ProductImage, explicitOrder *int) error {
	args := m.Called(ctx, image, explicitOrder)
	return args.Error(0)
}

func (m *mockProductImageRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockDetailCache struct {
	mock.Mock
}

func (m *mockDetailCache) Get(ctx context.Context, productID string) (*domain.ProductDetail, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductDetail), args.Error(1)
}

func (m *mockDetailCache) Set(ctx context.Context, detail *domain.ProductDetail) error {
	args := m.Called(ctx, detail)
	return args.Error(0)
}

func (m *mockDetailCache) Invalidate(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestProducer builds an event producer backed by a Kafka writer with no
// real broker; publish failures are tolerated by the services under test.
func newTestProducer(t *testing.T) *event.Producer {
	t.Helper()
	logger := newTestLogger()
	cfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(cfg, logger), logger)
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func boolPtr(b bool) *bool {
	return &b
}
