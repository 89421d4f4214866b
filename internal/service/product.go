package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/SampritiSC2/react-proshop/internal/cache"
	"github.com/SampritiSC2/react-proshop/internal/domain"
	"github.com/SampritiSC2/react-proshop/internal/repository"
	apperrors "github.com/SampritiSC2/react-proshop/pkg/errors"
	"github.com/SampritiSC2/react-proshop/pkg/pagination"
)

// topProductsLimit is how many products the top-rated listing returns.
const topProductsLimit = 3

// ProductService implements the business logic for the product catalog.
type ProductService struct {
	productRepo repository.ProductRepository
	cache       *cache.ProductCache
	logger      *slog.Logger
}

// NewProductService creates a new product service. cache may be nil when
// caching is disabled.
func NewProductService(
	productRepo repository.ProductRepository,
	productCache *cache.ProductCache,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       productCache,
		logger:      logger,
	}
}

// UpdateProductInput holds the parameters for updating a catalog product.
type UpdateProductInput struct {
	Name         string  `validate:"required"`
	Price        float64 `validate:"gte=0"`
	Image        string  `validate:"required"`
	Brand        string  `validate:"required"`
	Category     string  `validate:"required"`
	Description  string  `validate:"required"`
	CountInStock int     `validate:"gte=0"`
}

// ListProducts returns a page of catalog products matching the optional
// keyword, plus the total page count and match count.
func (s *ProductService) ListProducts(ctx context.Context, keyword string, params pagination.Params) ([]domain.Product, int, int, error) {
	products, total, err := s.productRepo.List(ctx, keyword, params.Offset, params.PageSize)
	if err != nil {
		return nil, 0, 0, err
	}
	return products, params.Pages(total), total, nil
}

// GetProduct returns a single product with its reviews.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// TopProducts returns the highest-rated products, served from cache when
// possible.
func (s *ProductService) TopProducts(ctx context.Context) ([]domain.Product, error) {
	if products, ok := s.cache.GetTopRated(ctx); ok {
		return products, nil
	}

	products, err := s.productRepo.TopRated(ctx, topProductsLimit)
	if err != nil {
		return nil, err
	}

	s.cache.SetTopRated(ctx, products)
	return products, nil
}

// CreateProduct inserts a placeholder product owned by the given admin.
// The admin then fills in real values through UpdateProduct, which is how
// the storefront's admin UI drives product creation.
func (s *ProductService) CreateProduct(ctx context.Context, adminID string) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		UserID:      adminID,
		Name:        "Sample name",
		Image:       "/images/sample.jpg",
		Brand:       "Sample brand",
		Category:    "Sample category",
		Description: "Sample description",
		Reviews:     []domain.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.cache.InvalidateTopRated(ctx)

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("user_id", adminID),
	)

	return product, nil
}

// UpdateProduct applies catalog edits to a product and returns it. Rating
// aggregates and reviews are untouched.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Image = input.Image
	product.Brand = input.Brand
	product.Category = input.Category
	product.Description = input.Description
	product.CountInStock = input.CountInStock
	product.UpdatedAt = time.Now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.cache.InvalidateTopRated(ctx)

	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.InvalidateTopRated(ctx)

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}

// validateRating enforces the allowed review rating range.
func validateRating(rating int) error {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return apperrors.InvalidInput("rating must be between 1 and 5")
	}
	return nil
}
