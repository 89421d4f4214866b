package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SampritiSC2/react-proshop/internal/domain"
	apperrors "github.com/SampritiSC2/react-proshop/pkg/errors"
	"github.com/SampritiSC2/react-proshop/pkg/pagination"
)

func newProductService(productRepo *mockProductRepository) *ProductService {
	return NewProductService(productRepo, nil, newTestLogger())
}

func TestListProducts_Paginates(t *testing.T) {
	productRepo := new(mockProductRepository)
	svc := newProductService(productRepo)
	ctx := context.Background()

	matches := []domain.Product{
		{ID: "64b000000000000000000001", Name: "Airpods"},
		{ID: "64b000000000000000000002", Name: "Airtag"},
	}
	productRepo.On("List", ctx, "air", 4, 4).Return(matches, 10, nil)

	products, pages, count, err := svc.ListProducts(ctx, "air", pagination.Params{Page: 2, PageSize: 4, Offset: 4})

	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 3, pages)
	assert.Equal(t, 10, count)
	productRepo.AssertExpectations(t)
}

func TestTopProducts_NilCacheFallsThrough(t *testing.T) {
	productRepo := new(mockProductRepository)
	svc := newProductService(productRepo)
	ctx := context.Background()

	top := []domain.Product{
		{ID: "64b000000000000000000001", Rating: 5},
		{ID: "64b000000000000000000002", Rating: 4.5},
		{ID: "64b000000000000000000003", Rating: 4},
	}
	productRepo.On("TopRated", ctx, 3).Return(top, nil)

	products, err := svc.TopProducts(ctx)

	require.NoError(t, err)
	assert.Len(t, products, 3)
	productRepo.AssertExpectations(t)
}

func TestCreateProduct_InsertsPlaceholder(t *testing.T) {
	productRepo := new(mockProductRepository)
	svc := newProductService(productRepo)
	ctx := context.Background()

	productRepo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Run(func(args mock.Arguments) {
		p := args.Get(1).(*domain.Product)
		p.ID = "64b000000000000000000009"
	}).Return(nil)

	product, err := svc.CreateProduct(ctx, "64a000000000000000000003")

	require.NoError(t, err)
	assert.Equal(t, "Sample name", product.Name)
	assert.Equal(t, "/images/sample.jpg", product.Image)
	assert.Equal(t, "64a000000000000000000003", product.UserID)
	assert.NotNil(t, product.Reviews)
	assert.Empty(t, product.Reviews)
	productRepo.AssertExpectations(t)
}

func TestUpdateProduct_Success(t *testing.T) {
	productRepo := new(mockProductRepository)
	svc := newProductService(productRepo)
	ctx := context.Background()

	stored := &domain.Product{
		ID:         "64b000000000000000000001",
		Name:       "Sample name",
		Rating:     4.2,
		NumReviews: 7,
	}
	productRepo.On("GetByID", ctx, stored.ID).Return(stored, nil)
	productRepo.On("Update", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	updated, err := svc.UpdateProduct(ctx, stored.ID, UpdateProductInput{
		Name:         "Airpods Wireless",
		Price:        89.99,
		Image:        "/images/airpods.jpg",
		Brand:        "Apple",
		Category:     "Electronics",
		Description:  "Bluetooth headphones",
		CountInStock: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, "Airpods Wireless", updated.Name)
	assert.Equal(t, 89.99, updated.Price)
	// Review aggregates are untouched by catalog edits.
	assert.Equal(t, 4.2, updated.Rating)
	assert.Equal(t, 7, updated.NumReviews)
	productRepo.AssertExpectations(t)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	productRepo := new(mockProductRepository)
	svc := newProductService(productRepo)
	ctx := context.Background()

	productRepo.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("product", "missing"))

	_, err := svc.UpdateProduct(ctx, "missing", UpdateProductInput{Name: "x"})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteProduct_Success(t *testing.T) {
	productRepo := new(mockProductRepository)
	svc := newProductService(productRepo)
	ctx := context.Background()

	productRepo.On("Delete", ctx, "64b000000000000000000001").Return(nil)

	err := svc.DeleteProduct(ctx, "64b000000000000000000001")

	require.NoError(t, err)
	productRepo.AssertExpectations(t)
}
