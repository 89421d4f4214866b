package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SampritiSC2/react-proshop/internal/domain"
	pkgkafka "github.com/SampritiSC2/react-proshop/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicUserRegistered  = "storefront.user.registered"
	TopicUserDeleted     = "storefront.user.deleted"
	TopicOrderCreated    = "storefront.order.created"
	TopicOrderPaid       = "storefront.order.paid"
	TopicOrderDelivered  = "storefront.order.delivered"
	TopicProductReviewed = "storefront.product.reviewed"
)

// Aggregate type constants.
const (
	AggregateTypeUser    = "user"
	AggregateTypeOrder   = "order"
	AggregateTypeProduct = "product"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserDeletedData is the payload for a user.deleted event.
type UserDeletedData struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	OrdersRemoved int64  `json:"orders_removed"`
}

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	ItemCount  int     `json:"item_count"`
	TotalPrice float64 `json:"total_price"`
}

// OrderPaidData is the payload for an order.paid event.
type OrderPaidData struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	PaymentID     string `json:"payment_id"`
	PaymentStatus string `json:"payment_status"`
}

// OrderDeliveredData is the payload for an order.delivered event.
type OrderDeliveredData struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// ProductReviewedData is the payload for a product.reviewed event.
type ProductReviewedData struct {
	ProductID  string  `json:"product_id"`
	UserID     string  `json:"user_id"`
	Rating     int     `json:"rating"`
	NewRating  float64 `json:"new_rating"`
	NumReviews int     `json:"num_reviews"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceStorefront, data)
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

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	return p.publish(ctx, TopicUserRegistered, user.ID, AggregateTypeUser, UserRegisteredData{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}

// PublishUserDeleted publishes a user.deleted event.
func (p *Producer) PublishUserDeleted(ctx context.Context, user *domain.User, ordersRemoved int64) error {
	return p.publish(ctx, TopicUserDeleted, user.ID, AggregateTypeUser, UserDeletedData{
		ID:            user.ID,
		Email:         user.Email,
		OrdersRemoved: ordersRemoved,
	})
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, TopicOrderCreated, order.ID, AggregateTypeOrder, OrderCreatedData{
		ID:         order.ID,
		UserID:     order.UserID,
		ItemCount:  len(order.Items),
		TotalPrice: order.TotalPrice,
	})
}

// PublishOrderPaid publishes an order.paid event.
func (p *Producer) PublishOrderPaid(ctx context.Context, order *domain.Order) error {
	data := OrderPaidData{
		ID:     order.ID,
		UserID: order.UserID,
	}
	if order.PaymentResult != nil {
		data.PaymentID = order.PaymentResult.ID
		data.PaymentStatus = order.PaymentResult.Status
	}
	return p.publish(ctx, TopicOrderPaid, order.ID, AggregateTypeOrder, data)
}

// PublishOrderDelivered publishes an order.delivered event.
func (p *Producer) PublishOrderDelivered(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, TopicOrderDelivered, order.ID, AggregateTypeOrder, OrderDeliveredData{
		ID:     order.ID,
		UserID: order.UserID,
	})
}

// PublishProductReviewed publishes a product.reviewed event.
func (p *Producer) PublishProductReviewed(ctx context.Context, product *domain.Product, review domain.Review) error {
	return p.publish(ctx, TopicProductReviewed, product.ID, AggregateTypeProduct, ProductReviewedData{
		ProductID:  product.ID,
		UserID:     review.UserID,
		Rating:     review.Rating,
		NewRating:  product.Rating,
		NumReviews: product.NumReviews,
	})
}
