package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	testmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SampritiSC2/react-proshop/internal/domain"
)

const createOrderBody = `{
	"orderItems": [
		{"_id": "64b000000000000000000001", "name": "Airpods", "qty": 2, "image": "/images/airpods.jpg", "price": 89.99}
	],
	"shippingAddress": {"address": "1 Main St", "city": "Springfield", "postalCode": "12345", "country": "USA"},
	"paymentMethod": "PayPal",
	"itemsPrice": 179.98,
	"taxPrice": 27.00,
	"shippingPrice": 0,
	"totalPrice": 206.98
}`

func TestCreateOrderEndpoint(t *testing.T) {
	env := newTestEnv()
	user := &domain.User{ID: "64a000000000000000000001", Name: "John Doe"}
	cookie := env.loginAs(user)

	env.orderRepo.On("Create", testmock.Anything, testmock.AnythingOfType("*domain.Order")).
		Run(func(args testmock.Arguments) {
			args.Get(1).(*domain.Order).ID = "64c000000000000000000001"
		}).Return(nil)

	req := jsonRequest(http.MethodPost, "/api/orders/", createOrderBody)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var order domain.Order
	decodeData(t, rec, &order)
	assert.Equal(t, user.ID, order.UserID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "64b000000000000000000001", order.Items[0].ProductID)
	assert.Equal(t, 2, order.Items[0].Qty)
}

func TestCreateOrderEndpoint_NoItems(t *testing.T) {
	env := newTestEnv()
	user := &domain.User{ID: "64a000000000000000000001"}
	cookie := env.loginAs(user)

	req := jsonRequest(http.MethodPost, "/api/orders/",
		`{"orderItems": [], "shippingAddress": {"address":"a","city":"b","postalCode":"c","country":"d"}, "paymentMethod": "PayPal"}`)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env.orderRepo.AssertNotCalled(t, "Create", testmock.Anything, testmock.Anything)
}

func TestGetOrderEndpoint_Owner(t *testing.T) {
	env := newTestEnv()
	user := &domain.User{ID: "64a000000000000000000001"}
	cookie := env.loginAs(user)

	stored := &domain.Order{ID: "64c000000000000000000001", UserID: user.ID}
	env.orderRepo.On("GetByID", testmock.Anything, stored.ID).Return(stored, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+stored.ID, nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	var order domain.Order
	decodeData(t, rec, &order)
	assert.Equal(t, stored.ID, order.ID)
}

func TestGetOrderEndpoint_Stranger(t *testing.T) {
	env := newTestEnv()
	stranger := &domain.User{ID: "64a000000000000000000099"}
	cookie := env.loginAs(stranger)

	stored := &domain.Order{ID: "64c000000000000000000001", UserID: "64a000000000000000000001"}
	env.orderRepo.On("GetByID", testmock.Anything, stored.ID).Return(stored, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+stored.ID, nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	errEnv := decodeError(t, rec)
	assert.Equal(t, "Not authorized to view this order", errEnv.Error.Message)
}

func TestListMyOrdersEndpoint(t *testing.T) {
	env := newTestEnv()
	user := &domain.User{ID: "64a000000000000000000001"}
	cookie := env.loginAs(user)

	env.orderRepo.On("ListByUser", testmock.Anything, user.ID).
		Return([]domain.Order{{ID: "64c000000000000000000001", UserID: user.ID}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/myOrders", nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Orders []domain.Order `json:"orders"`
	}
	decodeData(t, rec, &body)
	assert.Len(t, body.Orders, 1)
}

func TestListAllOrdersEndpoint_ExpandsUserNames(t *testing.T) {
	env := newTestEnv()
	admin := &domain.User{ID: "64a000000000000000000003", IsAdmin: true}
	cookie := env.loginAs(admin)

	env.orderRepo.On("List", testmock.Anything, 0, 5).
		Return([]domain.Order{{ID: "64c000000000000000000001", UserID: "64a000000000000000000001"}}, 1, nil)
	env.userRepo.On("GetByIDs", testmock.Anything, []string{"64a000000000000000000001"}).
		Return([]domain.User{{ID: "64a000000000000000000001", Name: "John Doe"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/", nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Orders []struct {
			ID       string `json:"id"`
			UserName string `json:"userName"`
		} `json:"orders"`
		Page  int `json:"page"`
		Pages int `json:"pages"`
	}
	decodeData(t, rec, &body)
	require.Len(t, body.Orders, 1)
	assert.Equal(t, "John Doe", body.Orders[0].UserName)
}

func TestPayOrderEndpoint(t *testing.T) {
	env := newTestEnv()
	user := &domain.User{ID: "64a000000000000000000001"}
	cookie := env.loginAs(user)

	stored := &domain.Order{ID: "64c000000000000000000001", UserID: user.ID}
	env.orderRepo.On("GetByID", testmock.Anything, stored.ID).Return(stored, nil)

	now := time.Now().UTC()
	paid := &domain.Order{ID: stored.ID, UserID: user.ID, IsPaid: true, PaidAt: &now}
	env.orderRepo.On("MarkPaid", testmock.Anything, stored.ID,
		testmock.AnythingOfType("domain.PaymentResult"), testmock.AnythingOfType("time.Time")).
		Return(paid, nil)

	req := jsonRequest(http.MethodPut, "/api/orders/"+stored.ID+"/pay",
		`{"id": "CAPTURE-1", "status": "COMPLETED", "update_time": "2024-01-01T00:00:00Z", "payer": {"email_address": "john@example.com"}}`)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	var order domain.Order
	decodeData(t, rec, &order)
	assert.True(t, order.IsPaid)
}

func TestDeliverOrderEndpoint_AdminOnly(t *testing.T) {
	env := newTestEnv()
	user := &domain.User{ID: "64a000000000000000000001"}
	cookie := env.loginAs(user)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/64c000000000000000000001/deliver", nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env.orderRepo.AssertNotCalled(t, "MarkDelivered", testmock.Anything, testmock.Anything, testmock.Anything)
}

func TestDeliverOrderEndpoint(t *testing.T) {
	env := newTestEnv()
	admin := &domain.User{ID: "64a000000000000000000003", IsAdmin: true}
	cookie := env.loginAs(admin)

	now := time.Now().UTC()
	delivered := &domain.Order{ID: "64c000000000000000000001", IsDelivered: true, DeliveredAt: &now}
	env.orderRepo.On("MarkDelivered", testmock.Anything, delivered.ID, testmock.AnythingOfType("time.Time")).
		Return(delivered, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+delivered.ID+"/deliver", nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	var order domain.Order
	decodeData(t, rec, &order)
	assert.True(t, order.IsDelivered)
}

func TestOrdersRequireAuthentication(t *testing.T) {
	env := newTestEnv()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/orders/myOrders", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	errEnv := decodeError(t, rec)
	assert.Equal(t, "Please authenticate", errEnv.Error.Message)
}
