package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/SampritiSC2/react-proshop/internal/domain"
	"github.com/SampritiSC2/react-proshop/internal/event"
	"github.com/SampritiSC2/react-proshop/internal/payment"
	"github.com/SampritiSC2/react-proshop/internal/repository"
	apperrors "github.com/SampritiSC2/react-proshop/pkg/errors"
	"github.com/SampritiSC2/react-proshop/pkg/pagination"
)

// OrderService implements the order lifecycle: create, pay, deliver.
type OrderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	verifier  payment.Verifier
	producer  *event.Producer
	logger    *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	verifier payment.Verifier,
	producer *event.Producer,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		verifier:  verifier,
		producer:  producer,
		logger:    logger,
	}
}

// CreateOrderInput holds the parameters for placing an order. Line item
// prices come from the client checkout state; they are snapshots, not
// recomputed from the catalog.
type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	ItemsPrice      float64
	TaxPrice        float64
	ShippingPrice   float64
	TotalPrice      float64
}

// OrderItemInput is a single line item in a checkout request. ProductID is
// the catalog product the client added to the cart; any client-side row
// identity is discarded.
type OrderItemInput struct {
	Name      string
	Qty       int
	Image     string
	Price     float64
	ProductID string
}

// PayOrderInput carries the gateway confirmation submitted when paying an
// order.
type PayOrderInput struct {
	PaymentID    string
	Status       string
	UpdateTime   string
	EmailAddress string
}

// OrderWithUser pairs an order with purchaser details for order detail and
// admin listing responses. Deleted purchaser accounts leave the fields
// empty.
type OrderWithUser struct {
	domain.Order
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail,omitempty"`
}

// CreateOrder places an order for the given user, rewriting cart rows into
// order item snapshots.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.InvalidInput("No order items")
	}
	if input.PaymentMethod == "" {
		return nil, apperrors.InvalidInput("payment method is required")
	}
	if input.ShippingAddress.Address == "" || input.ShippingAddress.City == "" ||
		input.ShippingAddress.PostalCode == "" || input.ShippingAddress.Country == "" {
		return nil, apperrors.InvalidInput("shipping address is incomplete")
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		if it.Qty < 1 {
			return nil, apperrors.InvalidInput("item quantity must be at least 1")
		}
		if it.ProductID == "" {
			return nil, apperrors.InvalidInput("item product id is required")
		}
		items = append(items, domain.OrderItem{
			Name:      it.Name,
			Qty:       it.Qty,
			Image:     it.Image,
			Price:     it.Price,
			ProductID: it.ProductID,
		})
	}

	now := time.Now().UTC()
	order := &domain.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      input.ItemsPrice,
		TaxPrice:        input.TaxPrice,
		ShippingPrice:   input.ShippingPrice,
		TotalPrice:      input.TotalPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Int("items", len(order.Items)),
		slog.Float64("total", order.TotalPrice),
	)

	return order, nil
}

// GetOrder returns an order with the purchaser's name and email expanded,
// restricted to its owner or an admin.
func (s *OrderService) GetOrder(ctx context.Context, id string, requester *domain.User) (*OrderWithUser, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.UserID != requester.ID && !requester.IsAdmin {
		return nil, apperrors.Forbidden("Not authorized to view this order")
	}

	expanded := &OrderWithUser{Order: *order}
	if purchaser, err := s.userRepo.GetByID(ctx, order.UserID); err == nil {
		expanded.UserName = purchaser.Name
		expanded.UserEmail = purchaser.Email
	}

	return expanded, nil
}

// ListMyOrders returns all orders placed by the given user.
func (s *OrderService) ListMyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// ListAllOrders returns a page of every order with purchaser names
// expanded, for the admin order list.
func (s *OrderService) ListAllOrders(ctx context.Context, params pagination.Params) ([]OrderWithUser, int, error) {
	orders, total, err := s.orderRepo.List(ctx, params.Offset, params.PageSize)
	if err != nil {
		return nil, 0, err
	}

	// Batch-load purchaser names. Deleted accounts leave the name empty.
	idSet := make(map[string]struct{}, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		if _, ok := idSet[o.UserID]; !ok {
			idSet[o.UserID] = struct{}{}
			ids = append(ids, o.UserID)
		}
	}

	names := make(map[string]string, len(ids))
	if len(ids) > 0 {
		users, err := s.userRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for _, u := range users {
			names[u.ID] = u.Name
		}
	}

	expanded := make([]OrderWithUser, 0, len(orders))
	for _, o := range orders {
		expanded = append(expanded, OrderWithUser{Order: o, UserName: names[o.UserID]})
	}

	return expanded, params.Pages(total), nil
}

// PayOrder verifies the submitted payment confirmation and marks the order
// paid, returning the updated order. Paying an already-paid order simply
// overwrites the payment result; the transition is one-way.
func (s *OrderService) PayOrder(ctx context.Context, id string, requester *domain.User, input PayOrderInput) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.UserID != requester.ID && !requester.IsAdmin {
		return nil, apperrors.Forbidden("Not authorized to pay this order")
	}

	result, err := s.verifier.Verify(ctx, input.PaymentID)
	if err != nil {
		return nil, err
	}

	// Keep the payer email from the submission when the gateway does not
	// return one.
	if result.EmailAddress == "" {
		result.EmailAddress = input.EmailAddress
	}

	paid, err := s.orderRepo.MarkPaid(ctx, id, *result, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishOrderPaid(ctx, paid); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.paid event",
			slog.String("order_id", paid.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order paid",
		slog.String("order_id", paid.ID),
		slog.String("payment_id", result.ID),
	)

	return paid, nil
}

// DeliverOrder marks an order delivered (admin only, enforced at the
// router).
func (s *OrderService) DeliverOrder(ctx context.Context, id string) (*domain.Order, error) {
	delivered, err := s.orderRepo.MarkDelivered(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishOrderDelivered(ctx, delivered); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.delivered event",
			slog.String("order_id", delivered.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order delivered", slog.String("order_id", delivered.ID))

	return delivered, nil
}
