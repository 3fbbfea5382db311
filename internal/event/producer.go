package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openbasket/catalog/internal/domain"
	pkgkafka "github.com/openbasket/catalog/pkg/kafka"
)

// Kafka topic constants for catalog domain events.
const (
	TopicProductCreated  = "catalog.product.created"
	TopicProductUpdated  = "catalog.product.updated"
	TopicProductDeleted  = "catalog.product.deleted"
	TopicProductImported = "catalog.product.imported"
)

// Aggregate type constant.
const AggregateTypeProduct = "product"

// Source identifier for events originating from the catalog service.
const SourceCatalogService = "catalog-service"

// ProductData is the payload for events carrying a product snapshot.
type ProductData struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	Category   string  `json:"category"`
	Price      int64   `json:"price"`
	Stock      int     `json:"stock"`
	Rating     float64 `json:"rating"`
	NumReviews int     `json:"num_reviews"`
	UserID     string  `json:"user_id"`
	ExternalID *string `json:"external_id,omitempty"`
	Source     string  `json:"source,omitempty"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// productData builds the snapshot payload from a product.
func productData(p *domain.Product) ProductData {
	return ProductData{
		ID:         p.ID,
		Name:       p.Name,
		Brand:      p.Brand,
		Category:   p.Category,
		Price:      p.Price,
		Stock:      p.Stock,
		Rating:     p.Rating,
		NumReviews: p.NumReviews,
		UserID:     p.UserID,
		ExternalID: p.ExternalID,
		Source:     p.Source,
	}
}

// Producer publishes catalog domain events to Kafka. A Producer constructed
// with a nil Kafka producer is a no-op, which is how the service runs with
// events disabled.
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

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, productData(product))
}

// PublishProductImported publishes a product.imported event for a product
// inserted by the marketplace sync.
func (p *Producer) PublishProductImported(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductImported, product.ID, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicProductDeleted, id, ProductDeletedData{ID: id})
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID string, data any) error {
	if p == nil || p.kafka == nil {
		return nil
	}

	event, err := pkgkafka.NewEvent(topic, aggregateID, AggregateTypeProduct, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published domain event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
