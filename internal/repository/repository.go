package repository

import (
	"context"
	"time"

	"github.com/SampritiSC2/react-proshop/internal/domain"
)

// UserRepository defines data access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error

	// GetByIDs fetches the users with the given IDs. Missing IDs are
	// silently skipped. Used to expand purchaser names on order listings.
	GetByIDs(ctx context.Context, ids []string) ([]domain.User, error)

	// List returns a page of users excluding the given user ID (the
	// requesting admin), plus the total count after exclusion.
	List(ctx context.Context, excludeID string, offset, limit int) ([]domain.User, int, error)
}

// ProductRepository defines data access for catalog products and their
// embedded reviews.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error

	// List returns a page of products matching the optional keyword
	// (case-insensitive name substring), plus the total match count.
	List(ctx context.Context, keyword string, offset, limit int) ([]domain.Product, int, error)

	// TopRated returns up to limit products ordered by rating descending.
	TopRated(ctx context.Context, limit int) ([]domain.Product, error)

	// AddReview appends the review and recomputes the rating aggregates in
	// a single atomic update, returning the updated product. It fails with
	// a conflict error when the author already reviewed the product and a
	// not-found error when the product does not exist.
	AddReview(ctx context.Context, productID string, review domain.Review) (*domain.Product, error)
}

// OrderRepository defines data access for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context, offset, limit int) ([]domain.Order, int, error)

	// MarkPaid records the payment result and paid timestamp, returning
	// the updated order.
	MarkPaid(ctx context.Context, id string, result domain.PaymentResult, paidAt time.Time) (*domain.Order, error)

	// MarkDelivered records the delivered timestamp, returning the updated
	// order.
	MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) (*domain.Order, error)

	// DeleteByUser removes all orders belonging to the given user and
	// returns the number deleted. Used when an account is deleted.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
