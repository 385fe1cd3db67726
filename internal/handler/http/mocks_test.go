package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog-service/internal/domain"
	"github.com/utafrali/catalog-service/internal/event"
	"github.com/utafrali/catalog-service/internal/repository"
	"github.com/utafrali/catalog-service/pkg/httputil"
	pkgkafka "github.com/utafrali/catalog-service/pkg/kafka"
)

// =============================================================================
// Mock repositories
// =============================================================================

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) List(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockProductTypeRepo struct {
	mock.Mock
}

func (m *mockProductTypeRepo) Create(ctx context.Context, pt *domain.ProductType) error {
	args := m.Called(ctx, pt)
	return args.Error(0)
}

func (m *mockProductTypeRepo) GetByID(ctx context.Context, id string) (*domain.ProductType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductType), args.Error(1)
}

func (m *mockProductTypeRepo) List(ctx context.Context) ([]domain.ProductType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ProductType), args.Error(1)
}

func (m *mockProductTypeRepo) Update(ctx context.Context, pt *domain.ProductType) error {
	args := m.Called(ctx, pt)
	return args.Error(0)
}

func (m *mockProductTypeRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductTypeRepo) AddAttribute(ctx context.Context, link *domain.ProductTypeAttribute) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *mockProductTypeRepo) RemoveAttribute(ctx context.Context, typeID, attributeID string) error {
	args := m.Called(ctx, typeID, attributeID)
	return args.Error(0)
}

func (m *mockProductTypeRepo) ListAttributes(ctx context.Context, typeID string) ([]domain.Attribute, error) {
	args := m.Called(ctx, typeID)
	return args.Get(0).([]domain.Attribute), args.Error(1)
}

func (m *mockProductTypeRepo) AllowedAttributeNames(ctx context.Context, typeID string) ([]string, error) {
	args := m.Called(ctx, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockProductTypeRepo) ListEligibleValues(ctx context.Context, typeID string) ([]domain.AttributeValue, error) {
	args := m.Called(ctx, typeID)
	return args.Get(0).([]domain.AttributeValue), args.Error(1)
}

type mockAttributeRepo struct {
	mock.Mock
}

func (m *mockAttributeRepo) Create(ctx context.Context, attr *domain.Attribute) error {
	args := m.Called(ctx, attr)
	return args.Error(0)
}

func (m *mockAttributeRepo) GetByID(ctx context.Context, id string) (*domain.Attribute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attribute), args.Error(1)
}

func (m *mockAttributeRepo) List(ctx context.Context) ([]domain.Attribute, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Attribute), args.Error(1)
}

func (m *mockAttributeRepo) Update(ctx context.Context, attr *domain.Attribute) error {
	args := m.Called(ctx, attr)
	return args.Error(0)
}

func (m *mockAttributeRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAttributeRepo) CreateValue(ctx context.Context, value *domain.AttributeValue) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

func (m *mockAttributeRepo) GetValue(ctx context.Context, id string) (*domain.AttributeValue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttributeValue), args.Error(1)
}

func (m *mockAttributeRepo) ListValues(ctx context.Context, attributeID string) ([]domain.AttributeValue, error) {
	args := m.Called(ctx, attributeID)
	return args.Get(0).([]domain.AttributeValue), args.Error(1)
}

func (m *mockAttributeRepo) UpdateValue(ctx context.Context, value *domain.AttributeValue) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

func (m *mockAttributeRepo) DeleteValue(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAttributeRepo) AttributeNameForValue(ctx context.Context, valueID string) (string, error) {
	args := m.Called(ctx, valueID)
	return args.String(0), args.Error(1)
}

type mockLineRepo struct {
	mock.Mock
}

func (m *mockLineRepo) Create(ctx context.Context, line *domain.ProductLine, explicitOrder *int) error {
	args := m.Called(ctx, line, explicitOrder)
	return args.Error(0)
}

func (m *mockLineRepo) GetByID(ctx context.Context, id string) (*domain.ProductLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductLine), args.Error(1)
}

func (m *mockLineRepo) GetBySKU(ctx context.Context, sku string) (*domain.ProductLine, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductLine), args.Error(1)
}

func (m *mockLineRepo) ListByProduct(ctx context.Context, productID string) ([]domain.ProductLine, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.ProductLine), args.Error(1)
}

func (m *mockLineRepo) Update(ctx context.Context, line *domain.ProductLine, explicitOrder *int) error {
	args := m.Called(ctx, line, explicitOrder)
	return args.Error(0)
}

func (m *mockLineRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockLineRepo) AttachAttributeValue(ctx context.Context, link *domain.LineAttributeValue, attributeName string) error {
	args := m.Called(ctx, link, attributeName)
	return args.Error(0)
}

func (m *mockLineRepo) RebindAttributeValue(ctx context.Context, lineID, oldValueID string, link *domain.LineAttributeValue, attributeName string) error {
	args := m.Called(ctx, lineID, oldValueID, link, attributeName)
	return args.Error(0)
}

func (m *mockLineRepo) DetachAttributeValue(ctx context.Context, lineID, valueID string) error {
	args := m.Called(ctx, lineID, valueID)
	return args.Error(0)
}

func (m *mockLineRepo) ListAttributeValues(ctx context.Context, lineID string) ([]domain.LineAttributeValue, error) {
	args := m.Called(ctx, lineID)
	return args.Get(0).([]domain.LineAttributeValue), args.Error(1)
}

func (m *mockLineRepo) LineHasAttribute(ctx context.Context, lineID, attributeName, excludeJoinID string) (bool, error) {
	args := m.Called(ctx, lineID, attributeName, excludeJoinID)
	return args.Bool(0), args.Error(1)
}

type mockImageRepo struct {
	mock.Mock
}

func (m *mockImageRepo) Create(ctx context.Context, image *domain.ProductImage, explicitOrder *int) error {
	args := m.Called(ctx, image, explicitOrder)
	return args.Error(0)
}

func (m *mockImageRepo) GetByID(ctx context.Context, id string) (*domain.ProductImage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductImage), args.Error(1)
}

func (m *mockImageRepo) ListByLine(ctx context.Context, lineID string) ([]domain.ProductImage, error) {
	args := m.Called(ctx, lineID)
	return args.Get(0).([]domain.ProductImage), args.Error(1)
}

func (m *mockImageRepo) Update(ctx context.Context, image *domain.ProductImage, explicitOrder *int) error {
	args := m.Called(ctx, image, explicitOrder)
	return args.Error(0)
}

func (m *mockImageRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =============================================================================
// Test helpers
// =============================================================================

func handlerTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func handlerTestEventProducer() *event.Producer {
	logger := handlerTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}
