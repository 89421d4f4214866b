package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SampritiSC2/react-proshop/internal/domain"
	apperrors "github.com/SampritiSC2/react-proshop/pkg/errors"
)

const productsCollection = "products"

// productDoc is the BSON representation of a catalog product. Reviews are
// embedded; rating and numReviews are denormalized aggregates.
type productDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       primitive.ObjectID `bson:"user"`
	Name         string             `bson:"name"`
	Image        string             `bson:"image"`
	Brand        string             `bson:"brand"`
	Category     string             `bson:"category"`
	Description  string             `bson:"description"`
	Rating       float64            `bson:"rating"`
	NumReviews   int                `bson:"numReviews"`
	Price        float64            `bson:"price"`
	CountInStock int                `bson:"countInStock"`
	Reviews      []reviewDoc        `bson:"reviews"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user"`
	Name      string             `bson:"name"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *productDoc) toDomain() *domain.Product {
	reviews := make([]domain.Review, 0, len(d.Reviews))
	for _, r := range d.Reviews {
		reviews = append(reviews, domain.Review{
			ID:        r.ID.Hex(),
			UserID:    r.UserID.Hex(),
			Name:      r.Name,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}

	return &domain.Product{
		ID:           d.ID.Hex(),
		UserID:       d.UserID.Hex(),
		Name:         d.Name,
		Image:        d.Image,
		Brand:        d.Brand,
		Category:     d.Category,
		Description:  d.Description,
		Rating:       d.Rating,
		NumReviews:   d.NumReviews,
		Price:        d.Price,
		CountInStock: d.CountInStock,
		Reviews:      reviews,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ProductRepository is the MongoDB implementation of repository.ProductRepository.
type ProductRepository struct {
	col *mongo.Collection
}

// NewProductRepository creates a product repository backed by the given database.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(productsCollection)}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	userOID, err := primitive.ObjectIDFromHex(product.UserID)
	if err != nil {
		return apperrors.InvalidInput("invalid user id: " + product.UserID)
	}

	doc := productDoc{
		UserID:       userOID,
		Name:         product.Name,
		Image:        product.Image,
		Brand:        product.Brand,
		Category:     product.Category,
		Description:  product.Description,
		Rating:       product.Rating,
		NumReviews:   product.NumReviews,
		Price:        product.Price,
		CountInStock: product.CountInStock,
		Reviews:      []reviewDoc{},
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	product.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// GetByID fetches a product by hex ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("product", id)
	}

	var doc productDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("find product by id: %w", err)
	}

	return doc.toDomain(), nil
}

// Update persists mutable product fields. Reviews and rating aggregates are
// owned by AddReview and left untouched here.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	oid, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return apperrors.NotFound("product", product.ID)
	}

	update := bson.M{"$set": bson.M{
		"name":         product.Name,
		"image":        product.Image,
		"brand":        product.Brand,
		"category":     product.Category,
		"description":  product.Description,
		"price":        product.Price,
		"countInStock": product.CountInStock,
		"updatedAt":    product.UpdatedAt,
	}}

	res, err := r.col.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("product", product.ID)
	}

	return nil
}

// Delete removes a product by ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("product", id)
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// List returns a page of products matching the optional keyword, newest
// first, plus the total match count.
func (r *ProductRepository) List(ctx context.Context, keyword string, offset, limit int) ([]domain.Product, int, error) {
	filter := bson.M{}
	if keyword != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{
			Pattern: regexp.QuoteMeta(keyword),
			Options: "i",
		}}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for i := range docs {
		products = append(products, *docs[i].toDomain())
	}

	return products, int(total), nil
}

// TopRated returns up to limit products ordered by rating descending.
func (r *ProductRepository) TopRated(ctx context.Context, limit int) ([]domain.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list top products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode top products: %w", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for i := range docs {
		products = append(products, *docs[i].toDomain())
	}

	return products, nil
}

// AddReview appends the review and recomputes rating and numReviews in a
// single conditional pipeline update. The filter only matches when the
// author has not already reviewed the product, which makes the
// one-review-per-user rule hold even under concurrent submissions.
func (r *ProductRepository) AddReview(ctx context.Context, productID string, review domain.Review) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperrors.NotFound("product", productID)
	}
	authorOID, err := primitive.ObjectIDFromHex(review.UserID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid user id: " + review.UserID)
	}

	doc := reviewDoc{
		ID:        primitive.NewObjectID(),
		UserID:    authorOID,
		Name:      review.Name,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}

	filter := bson.M{
		"_id":          oid,
		"reviews.user": bson.M{"$ne": authorOID},
	}

	// Strings inside a pipeline stage sit in expression position, so the
	// review document must be wrapped in $literal or a comment like "$price"
	// would be evaluated as a field path instead of stored as text.
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"reviews": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}},
				bson.A{bson.M{"$literal": doc}},
			}},
		}}},
		{{Key: "$set", Value: bson.M{
			"numReviews": bson.M{"$size": "$reviews"},
			"rating":     bson.M{"$avg": "$reviews.rating"},
			"updatedAt":  review.CreatedAt,
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated productDoc
	err = r.col.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&updated)
	if err == nil {
		return updated.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("add review: %w", err)
	}

	// No match: either the product is gone or the author already reviewed
	// it. Distinguish with a follow-up lookup.
	exists, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("add review: check product: %w", err)
	}
	if exists == 0 {
		return nil, apperrors.NotFound("product", productID)
	}
	return nil, apperrors.Conflict("Product already reviewed")
}
