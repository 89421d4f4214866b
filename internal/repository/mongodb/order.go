package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SampritiSC2/react-proshop/internal/domain"
	apperrors "github.com/SampritiSC2/react-proshop/pkg/errors"
)

const ordersCollection = "orders"

// orderDoc is the BSON representation of an order.
type orderDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          primitive.ObjectID `bson:"user"`
	Items           []orderItemDoc     `bson:"orderItems"`
	ShippingAddress shippingAddressDoc `bson:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod"`
	ItemsPrice      float64            `bson:"itemsPrice"`
	TaxPrice        float64            `bson:"taxPrice"`
	ShippingPrice   float64            `bson:"shippingPrice"`
	TotalPrice      float64            `bson:"totalPrice"`
	IsPaid          bool               `bson:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty"`
	PaymentResult   *paymentResultDoc  `bson:"paymentResult,omitempty"`
	IsDelivered     bool               `bson:"isDelivered"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

type orderItemDoc struct {
	Name      string             `bson:"name"`
	Qty       int                `bson:"qty"`
	Image     string             `bson:"image"`
	Price     float64            `bson:"price"`
	ProductID primitive.ObjectID `bson:"product"`
}

type shippingAddressDoc struct {
	Address    string `bson:"address"`
	City       string `bson:"city"`
	PostalCode string `bson:"postalCode"`
	Country    string `bson:"country"`
}

type paymentResultDoc struct {
	ID           string `bson:"id"`
	Status       string `bson:"status"`
	UpdateTime   string `bson:"update_time"`
	EmailAddress string `bson:"email_address"`
}

func (d *orderDoc) toDomain() *domain.Order {
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.OrderItem{
			Name:      it.Name,
			Qty:       it.Qty,
			Image:     it.Image,
			Price:     it.Price,
			ProductID: it.ProductID.Hex(),
		})
	}

	order := &domain.Order{
		ID:     d.ID.Hex(),
		UserID: d.UserID.Hex(),
		Items:  items,
		ShippingAddress: domain.ShippingAddress{
			Address:    d.ShippingAddress.Address,
			City:       d.ShippingAddress.City,
			PostalCode: d.ShippingAddress.PostalCode,
			Country:    d.ShippingAddress.Country,
		},
		PaymentMethod: d.PaymentMethod,
		ItemsPrice:    d.ItemsPrice,
		TaxPrice:      d.TaxPrice,
		ShippingPrice: d.ShippingPrice,
		TotalPrice:    d.TotalPrice,
		IsPaid:        d.IsPaid,
		PaidAt:        d.PaidAt,
		IsDelivered:   d.IsDelivered,
		DeliveredAt:   d.DeliveredAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}

	if d.PaymentResult != nil {
		order.PaymentResult = &domain.PaymentResult{
			ID:           d.PaymentResult.ID,
			Status:       d.PaymentResult.Status,
			UpdateTime:   d.PaymentResult.UpdateTime,
			EmailAddress: d.PaymentResult.EmailAddress,
		}
	}

	return order
}

// OrderRepository is the MongoDB implementation of repository.OrderRepository.
type OrderRepository struct {
	col *mongo.Collection
}

// NewOrderRepository creates an order repository backed by the given database.
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(ordersCollection)}
}

// EnsureIndexes creates the user lookup index. Call once at startup.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create order user index: %w", err)
	}
	return nil
}

// Create inserts a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	userOID, err := primitive.ObjectIDFromHex(order.UserID)
	if err != nil {
		return apperrors.InvalidInput("invalid user id: " + order.UserID)
	}

	items := make([]orderItemDoc, 0, len(order.Items))
	for _, it := range order.Items {
		productOID, err := primitive.ObjectIDFromHex(it.ProductID)
		if err != nil {
			return apperrors.InvalidInput("invalid product id: " + it.ProductID)
		}
		items = append(items, orderItemDoc{
			Name:      it.Name,
			Qty:       it.Qty,
			Image:     it.Image,
			Price:     it.Price,
			ProductID: productOID,
		})
	}

	doc := orderDoc{
		UserID: userOID,
		Items:  items,
		ShippingAddress: shippingAddressDoc{
			Address:    order.ShippingAddress.Address,
			City:       order.ShippingAddress.City,
			PostalCode: order.ShippingAddress.PostalCode,
			Country:    order.ShippingAddress.Country,
		},
		PaymentMethod: order.PaymentMethod,
		ItemsPrice:    order.ItemsPrice,
		TaxPrice:      order.TaxPrice,
		ShippingPrice: order.ShippingPrice,
		TotalPrice:    order.TotalPrice,
		IsPaid:        order.IsPaid,
		IsDelivered:   order.IsDelivered,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	order.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// GetByID fetches an order by hex ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("order", id)
	}

	var doc orderDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("find order by id: %w", err)
	}

	return doc.toDomain(), nil
}

// ListByUser returns all orders belonging to a user, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.NotFound("user", userID)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.col.Find(ctx, bson.M{"user": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, *docs[i].toDomain())
	}

	return orders, nil
}

// List returns a page of all orders, newest first, plus the total count.
func (r *OrderRepository) List(ctx context.Context, offset, limit int) ([]domain.Order, int, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, *docs[i].toDomain())
	}

	return orders, int(total), nil
}

// MarkPaid records the payment result on an order and returns the updated
// document.
func (r *OrderRepository) MarkPaid(ctx context.Context, id string, result domain.PaymentResult, paidAt time.Time) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("order", id)
	}

	update := bson.M{"$set": bson.M{
		"isPaid": true,
		"paidAt": paidAt,
		"paymentResult": paymentResultDoc{
			ID:           result.ID,
			Status:       result.Status,
			UpdateTime:   result.UpdateTime,
			EmailAddress: result.EmailAddress,
		},
		"updatedAt": paidAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("mark order paid: %w", err)
	}

	return doc.toDomain(), nil
}

// MarkDelivered records the delivered timestamp on an order and returns the
// updated document.
func (r *OrderRepository) MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("order", id)
	}

	update := bson.M{"$set": bson.M{
		"isDelivered": true,
		"deliveredAt": deliveredAt,
		"updatedAt":   deliveredAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("mark order delivered: %w", err)
	}

	return doc.toDomain(), nil
}

// DeleteByUser removes all orders belonging to the given user.
func (r *OrderRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}

	res, err := r.col.DeleteMany(ctx, bson.M{"user": oid})
	if err != nil {
		return 0, fmt.Errorf("delete orders by user: %w", err)
	}

	return res.DeletedCount, nil
}
