package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/utafrali/catalog-service/internal/domain"
	pkgkafka "github.com/utafrali/catalog-service/pkg/kafka"
)

// Kafka topics for catalog domain events.
var (
	TopicProductCreated = pkgkafka.Topic("product", "created")
	TopicProductUpdated = pkgkafka.Topic("product", "updated")
	TopicProductDeleted = pkgkafka.Topic("product", "deleted")

	TopicProductLineCreated = pkgkafka.Topic("product_line", "created")
	TopicProductLineUpdated = pkgkafka.Topic("product_line", "updated")
	TopicProductLineDeleted = pkgkafka.Topic("product_line", "deleted")
)

// Aggregate type constants.
const (
	AggregateTypeProduct     = "product"
	AggregateTypeProductLine = "product_line"
)

// Source identifier for events originating from the catalog service.
const SourceCatalogService = "catalog-service"

// ProductData is the payload for product.created and product.updated events.
type ProductData struct {
	ID            string `json:"id"`
	PID           string `json:"pid"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Description   string `json:"description"`
	IsDigital     bool   `json:"is_digital"`
	IsActive      bool   `json:"is_active"`
	CategoryID    string `json:"category_id"`
	ProductTypeID string `json:"product_type_id"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// ProductLineData is the payload for product_line.created and
// product_line.updated events.
type ProductLineData struct {
	ID           string           `json:"id"`
	ProductID    string           `json:"product_id"`
	SKU          string           `json:"sku"`
	Slug         string           `json:"slug"`
	Price        decimal.Decimal  `json:"price"`
	Weight       *decimal.Decimal `json:"weight,omitempty"`
	Quantity     int              `json:"quantity"`
	IsActive     bool             `json:"is_active"`
	DisplayOrder int              `json:"display_order"`
}

// ProductLineDeletedData is the payload for a product_line.deleted event.
type ProductLineDeletedData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func productData(product *domain.Product) ProductData {
	return ProductData{
		ID:            product.ID,
		PID:           product.PID,
		Name:          product.Name,
		Slug:          product.Slug,
		Description:   product.Description,
		IsDigital:     product.IsDigital,
		IsActive:      product.IsActive,
		CategoryID:    product.CategoryID,
		ProductTypeID: product.ProductTypeID,
	}
}

func lineData(line *domain.ProductLine) ProductLineData {
	return ProductLineData{
		ID:           line.ID,
		ProductID:    line.ProductID,
		SKU:          line.SKU,
		Slug:         line.Slug,
		Price:        line.Price,
		Weight:       line.Weight,
		Quantity:     line.Quantity,
		IsActive:     line.IsActive,
		DisplayOrder: line.DisplayOrder,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicProductDeleted, id, AggregateTypeProduct, ProductDeletedData{ID: id})
}

// PublishProductLineCreated publishes a product_line.created event.
func (p *Producer) PublishProductLineCreated(ctx context.Context, line *domain.ProductLine) error {
	return p.publish(ctx, TopicProductLineCreated, line.ID, AggregateTypeProductLine, lineData(line))
}

// PublishProductLineUpdated publishes a product_line.updated event.
func (p *Producer) PublishProductLineUpdated(ctx context.Context, line *domain.ProductLine) error {
	return p.publish(ctx, TopicProductLineUpdated, line.ID, AggregateTypeProductLine, lineData(line))
}

// PublishProductLineDeleted publishes a product_line.deleted event.
func (p *Producer) PublishProductLineDeleted(ctx context.Context, lineID, productID string) error {
	return p.publish(ctx, TopicProductLineDeleted, lineID, AggregateTypeProductLine,
		ProductLineDeletedData{ID: lineID, ProductID: productID})
}
