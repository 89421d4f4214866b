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

// OrderHandler handles order lifecycle endpoints.
type OrderHandler struct {
	service  *service.OrderService
	pageSize int
	writer   *httputil.Writer
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, pageSize int, writer *httputil.Writer) *OrderHandler {
	return &OrderHandler{service: svc, pageSize: pageSize, writer: writer}
}

// CreateOrderRequest is the JSON request body for placing an order.
type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest     `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
	ItemsPrice      float64                `json:"itemsPrice" validate:"gte=0"`
	TaxPrice        float64                `json:"taxPrice" validate:"gte=0"`
	ShippingPrice   float64                `json:"shippingPrice" validate:"gte=0"`
	TotalPrice      float64                `json:"totalPrice" validate:"gte=0"`
}

// OrderItemRequest is a checkout cart row. The client may send its own row
// id (`_id`); it is ignored and the catalog product reference is taken
// from the id field.
type OrderItemRequest struct {
	ID    string  `json:"_id" validate:"required"`
	Name  string  `json:"name" validate:"required"`
	Qty   int     `json:"qty" validate:"required,min=1"`
	Image string  `json:"image"`
	Price float64 `json:"price" validate:"gte=0"`
}

// ShippingAddressRequest is the shipping destination in a checkout request.
type ShippingAddressRequest struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// PayOrderRequest is the gateway confirmation submitted when paying. The
// payer email sits in a nested object, mirroring the capture payload the
// gateway hands to the frontend.
type PayOrderRequest struct {
	ID         string `json:"id" validate:"required"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Payer      struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req CreateOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.OrderItems))
	for _, it := range req.OrderItems {
		items = append(items, service.OrderItemInput{
			Name:      it.Name,
			Qty:       it.Qty,
			Image:     it.Image,
			Price:     it.Price,
			ProductID: it.ID,
		})
	}

	order, err := h.service.CreateOrder(r.Context(), user.ID, service.CreateOrderInput{
		Items: items,
		ShippingAddress: domain.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: req.PaymentMethod,
		ItemsPrice:    req.ItemsPrice,
		TaxPrice:      req.TaxPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    req.TotalPrice,
	})
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusCreated, order)
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"), user)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusOK, order)
}

// ListMine handles GET /api/orders/myOrders
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	orders, err := h.service.ListMyOrders(r.Context(), user.ID)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	if orders == nil {
		orders = []domain.Order{}
	}
	h.writer.JSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// ListAll handles GET /api/orders (admin)
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r, h.pageSize)

	orders, pages, err := h.service.ListAllOrders(r.Context(), params)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"page":   params.Page,
		"pages":  pages,
	})
}

// Pay handles PUT /api/orders/{id}/pay
func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req PayOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	order, err := h.service.PayOrder(r.Context(), chi.URLParam(r, "id"), user, service.PayOrderInput{
		PaymentID:    req.ID,
		Status:       req.Status,
		UpdateTime:   req.UpdateTime,
		EmailAddress: req.Payer.EmailAddress,
	})
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusOK, order)
}

// Deliver handles PUT /api/orders/{id}/deliver (admin)
func (h *OrderHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.DeliverOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusOK, order)
}
