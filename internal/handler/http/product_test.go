package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	testmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SampritiSC2/react-proshop/internal/domain"
	apperrors "github.com/SampritiSC2/react-proshop/pkg/errors"
)

func TestListProductsEndpoint(t *testing.T) {
	env := newTestEnv()

	env.productRepo.On("List", testmock.Anything, "", 0, 4).
		Return([]domain.Product{{ID: "64b000000000000000000001", Name: "Airpods"}}, 9, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/products/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []domain.Product `json:"products"`
		Page     int              `json:"page"`
		Pages    int              `json:"pages"`
		Count    int              `json:"count"`
	}
	decodeData(t, rec, &body)
	assert.Len(t, body.Products, 1)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 3, body.Pages)
	assert.Equal(t, 9, body.Count)
}

func TestListProductsEndpoint_KeywordAndPage(t *testing.T) {
	env := newTestEnv()

	env.productRepo.On("List", testmock.Anything, "phone", 4, 4).
		Return([]domain.Product{}, 0, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/products/?keyword=phone&pageNumber=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env.productRepo.AssertExpectations(t)
}

func TestTopProductsEndpoint(t *testing.T) {
	env := newTestEnv()

	env.productRepo.On("TopRated", testmock.Anything, 3).
		Return([]domain.Product{{ID: "64b000000000000000000001", Rating: 5}}, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/products/top", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var products []domain.Product
	decodeData(t, rec, &products)
	assert.Len(t, products, 1)
}

func TestGetProductEndpoint_NotFound(t *testing.T) {
	env := newTestEnv()

	env.productRepo.On("GetByID", testmock.Anything, "64b000000000000000000099").
		Return(nil, apperrors.NotFound("product", "64b000000000000000000099"))

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/products/64b000000000000000000099", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProductEndpoint_AdminOnly(t *testing.T) {
	env := newTestEnv()
	cookie := env.loginAs(&domain.User{ID: "64a000000000000000000001"})

	req := httptest.NewRequest(http.MethodPost, "/api/products/", nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env.productRepo.AssertNotCalled(t, "Create", testmock.Anything, testmock.Anything)
}

func TestCreateProductEndpoint_InsertsPlaceholder(t *testing.T) {
	env := newTestEnv()
	admin := &domain.User{ID: "64a000000000000000000003", IsAdmin: true}
	cookie := env.loginAs(admin)

	env.productRepo.On("Create", testmock.Anything, testmock.AnythingOfType("*domain.Product")).
		Run(func(args testmock.Arguments) {
			args.Get(1).(*domain.Product).ID = "64b000000000000000000009"
		}).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/products/", nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var product domain.Product
	decodeData(t, rec, &product)
	assert.Equal(t, "Sample name", product.Name)
	assert.Equal(t, admin.ID, product.UserID)
}

func TestUpdateProductEndpoint(t *testing.T) {
	env := newTestEnv()
	admin := &domain.User{ID: "64a000000000000000000003", IsAdmin: true}
	cookie := env.loginAs(admin)

	stored := &domain.Product{ID: "64b000000000000000000001", Name: "Sample name"}
	env.productRepo.On("GetByID", testmock.Anything, stored.ID).Return(stored, nil)
	env.productRepo.On("Update", testmock.Anything, testmock.AnythingOfType("*domain.Product")).Return(nil)

	req := jsonRequest(http.MethodPut, "/api/products/"+stored.ID,
		`{"name":"Airpods","price":89.99,"image":"/images/airpods.jpg","brand":"Apple","category":"Electronics","description":"Bluetooth headphones","countInStock":10}`)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	var product domain.Product
	decodeData(t, rec, &product)
	assert.Equal(t, "Airpods", product.Name)
	assert.Equal(t, 10, product.CountInStock)
}

func TestDeleteProductEndpoint(t *testing.T) {
	env := newTestEnv()
	admin := &domain.User{ID: "64a000000000000000000003", IsAdmin: true}
	cookie := env.loginAs(admin)

	env.productRepo.On("Delete", testmock.Anything, "64b000000000000000000001").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/64b000000000000000000001", nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product removed")
}

func TestAddReviewEndpoint(t *testing.T) {
	env := newTestEnv()
	user := &domain.User{ID: "64a000000000000000000001", Name: "John Doe"}
	cookie := env.loginAs(user)

	updated := &domain.Product{
		ID:         "64b000000000000000000001",
		Rating:     5,
		NumReviews: 1,
		Reviews: []domain.Review{
			{ID: "64d000000000000000000001", UserID: user.ID, Name: user.Name, Rating: 5, Comment: "Great sound"},
		},
	}
	env.productRepo.On("AddReview", testmock.Anything, updated.ID, testmock.AnythingOfType("domain.Review")).
		Return(updated, nil)

	req := jsonRequest(http.MethodPost, "/api/products/"+updated.ID+"/reviews",
		`{"rating":5,"comment":"Great sound"}`)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Review domain.Review `json:"review"`
	}
	decodeData(t, rec, &body)
	assert.Equal(t, "64d000000000000000000001", body.Review.ID)
	assert.Equal(t, user.ID, body.Review.UserID)
	assert.Equal(t, "John Doe", body.Review.Name)
	assert.Equal(t, 5, body.Review.Rating)
	assert.Equal(t, "Great sound", body.Review.Comment)
}

func TestAddReviewEndpoint_Duplicate(t *testing.T) {
	env := newTestEnv()
	user := &domain.User{ID: "64a000000000000000000001", Name: "John Doe"}
	cookie := env.loginAs(user)

	env.productRepo.On("AddReview", testmock.Anything, "64b000000000000000000001", testmock.AnythingOfType("domain.Review")).
		Return(nil, apperrors.Conflict("Product already reviewed"))

	req := jsonRequest(http.MethodPost, "/api/products/64b000000000000000000001/reviews",
		`{"rating":4,"comment":"again"}`)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errEnv := decodeError(t, rec)
	assert.Equal(t, "Product already reviewed", errEnv.Error.Message)
}

func TestAddReviewEndpoint_RatingBounds(t *testing.T) {
	env := newTestEnv()
	user := &domain.User{ID: "64a000000000000000000001", Name: "John Doe"}
	cookie := env.loginAs(user)

	req := jsonRequest(http.MethodPost, "/api/products/64b000000000000000000001/reviews",
		`{"rating":6,"comment":"too good"}`)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errEnv := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", errEnv.Error.Code)
}

func TestPayPalConfigEndpoint(t *testing.T) {
	env := newTestEnv()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/config/paypal", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ClientID string `json:"clientId"`
	}
	decodeData(t, rec, &body)
	assert.Equal(t, "test-client-id", body.ClientID)
}
