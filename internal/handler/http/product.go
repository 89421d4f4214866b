package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SampritiSC2/react-proshop/internal/domain"
	"github.com/SampritiSC2/react-proshop/internal/service"
	"github.com/SampritiSC2/react-proshop/pkg/httputil"
	"github.com/SampritiSC2/react-proshop/pkg/pagination"
	"github.com/SampritiSC2/react-proshop/pkg/validator"
)

// ProductHandler handles catalog and review endpoints.
type ProductHandler struct {
	products *service.ProductService
	reviews  *service.ReviewService
	pageSize int
	writer   *httputil.Writer
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(products *service.ProductService, reviews *service.ReviewService, pageSize int, writer *httputil.Writer) *ProductHandler {
	return &ProductHandler{products: products, reviews: reviews, pageSize: pageSize, writer: writer}
}

// UpdateProductRequest is the JSON request body for a product update.
type UpdateProductRequest struct {
	Name         string  `json:"name" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	Image        string  `json:"image" validate:"required"`
	Brand        string  `json:"brand" validate:"required"`
	Category     string  `json:"category" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
}

// AddReviewRequest is the JSON request body for submitting a review.
type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r, h.pageSize)
	keyword := r.URL.Query().Get("keyword")

	products, pages, count, err := h.products.ListProducts(r.Context(), keyword, params)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	if products == nil {
		products = []domain.Product{}
	}
	h.writer.JSON(w, http.StatusOK, map[string]any{
		"products": products,
		"page":     params.Page,
		"pages":    pages,
		"count":    count,
	})
}

// Top handles GET /api/products/top
func (h *ProductHandler) Top(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.TopProducts(r.Context())
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	if products == nil {
		products = []domain.Product{}
	}
	h.writer.JSON(w, http.StatusOK, products)
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusOK, product)
}

// Create handles POST /api/products (admin)
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	product, err := h.products.CreateProduct(r.Context(), user.ID)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id} (admin)
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), chi.URLParam(r, "id"), service.UpdateProductInput{
		Name:         req.Name,
		Price:        req.Price,
		Image:        req.Image,
		Brand:        req.Brand,
		Category:     req.Category,
		Description:  req.Description,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id} (admin)
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusOK, map[string]string{"message": "Product removed"})
}

// AddReview handles POST /api/products/{id}/reviews
func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req AddReviewRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	review, err := h.reviews.AddReview(r.Context(), chi.URLParam(r, "id"), user.ID, service.AddReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusCreated, map[string]any{"review": review})
}
