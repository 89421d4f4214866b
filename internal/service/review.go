package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/SampritiSC2/react-proshop/internal/cache"
	"github.com/SampritiSC2/react-proshop/internal/domain"
	"github.com/SampritiSC2/react-proshop/internal/event"
	"github.com/SampritiSC2/react-proshop/internal/repository"
	apperrors "github.com/SampritiSC2/react-proshop/pkg/errors"
)

// ReviewService implements review submission and rating aggregation.
type ReviewService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	cache       *cache.ProductCache
	producer    *event.Producer
	logger      *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	productCache *cache.ProductCache,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		productRepo: productRepo,
		userRepo:    userRepo,
		cache:       productCache,
		producer:    producer,
		logger:      logger,
	}
}

// AddReviewInput holds the parameters for submitting a review.
type AddReviewInput struct {
	Rating  int
	Comment string
}

// AddReview records a review on a product, snapshotting the author's
// display name, and returns the stored review. Each user may review a
// product at most once; the repository enforces that atomically, so two
// concurrent submissions from the same user cannot both land.
func (s *ReviewService) AddReview(ctx context.Context, productID, userID string, input AddReviewInput) (*domain.Review, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}
	if input.Comment == "" {
		return nil, apperrors.InvalidInput("comment is required")
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	review := domain.Review{
		UserID:    userID,
		Name:      author.Name,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	product, err := s.productRepo.AddReview(ctx, productID, review)
	if err != nil {
		return nil, err
	}

	// The update only matches when the author had no review yet, so the
	// returned product always carries the stored copy with its assigned id.
	added, ok := product.ReviewFrom(userID)
	if !ok {
		added = &review
	}

	s.cache.InvalidateTopRated(ctx)

	if err := s.producer.PublishProductReviewed(ctx, product, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.reviewed event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review added",
		slog.String("product_id", product.ID),
		slog.String("user_id", userID),
		slog.Int("rating", input.Rating),
		slog.Float64("new_rating", product.Rating),
	)

	return added, nil
}
