package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	testmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SampritiSC2/react-proshop/internal/auth"
	"github.com/SampritiSC2/react-proshop/internal/config"
	"github.com/SampritiSC2/react-proshop/internal/domain"
	"github.com/SampritiSC2/react-proshop/internal/event"
	paymentmock "github.com/SampritiSC2/react-proshop/internal/payment/mock"
	"github.com/SampritiSC2/react-proshop/internal/service"
	"github.com/SampritiSC2/react-proshop/pkg/health"
	pkgkafka "github.com/SampritiSC2/react-proshop/pkg/kafka"
)

// --- Mock repositories ---

type mockUserRepository struct {
	testmock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepository) List(ctx context.Context, excludeID string, offset, limit int) ([]domain.User, int, error) {
	args := m.Called(ctx, excludeID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}

type mockProductRepository struct {
	testmock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepository) List(ctx context.Context, keyword string, offset, limit int) ([]domain.Product, int, error) {
	args := m.Called(ctx, keyword, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) TopRated(ctx context.Context, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) AddReview(ctx context.Context, productID string, review domain.Review) (*domain.Product, error) {
	args := m.Called(ctx, productID, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

type mockOrderRepository struct {
	testmock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, offset, limit int) ([]domain.Order, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) MarkPaid(ctx context.Context, id string, result domain.PaymentResult, paidAt time.Time) (*domain.Order, error) {
	args := m.Called(ctx, id, result, paidAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) (*domain.Order, error) {
	args := m.Called(ctx, id, deliveredAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test harness ---

type testEnv struct {
	router      http.Handler
	userRepo    *mockUserRepository
	productRepo *mockProductRepository
	orderRepo   *mockOrderRepository
	jwtManager  *auth.JWTManager
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestEnv() *testEnv {
	logger := newTestLogger()
	cfg := &config.Config{
		Environment:        "development",
		PageSize:           5,
		ProductPageSize:    4,
		PayPalClientID:     "test-client-id",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}

	userRepo := new(mockUserRepository)
	productRepo := new(mockProductRepository)
	orderRepo := new(mockOrderRepository)

	jwtManager := auth.NewJWTManager("test-secret-key-for-testing", time.Hour)
	cookies := auth.NewCookieWriter(cfg.Environment, time.Hour)

	producer := event.NewProducer(
		pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger),
		logger,
	)

	router := NewRouter(Deps{
		Config:     cfg,
		Users:      service.NewUserService(userRepo, orderRepo, jwtManager, producer, logger),
		Products:   service.NewProductService(productRepo, nil, logger),
		Reviews:    service.NewReviewService(productRepo, userRepo, nil, producer, logger),
		Orders:     service.NewOrderService(orderRepo, userRepo, paymentmock.New(), producer, logger),
		UserRepo:   userRepo,
		JWTManager: jwtManager,
		Cookies:    cookies,
		Health:     health.NewHandler(),
		Logger:     logger,
	})

	return &testEnv{
		router:      router,
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		jwtManager:  jwtManager,
	}
}

// loginAs stubs the account lookup done by the auth middleware and returns
// the session cookie for it.
func (e *testEnv) loginAs(user *domain.User) *http.Cookie {
	token, err := e.jwtManager.Generate(user.ID)
	if err != nil {
		panic(err)
	}
	e.userRepo.On("GetByID", testmock.Anything, user.ID).Return(user, nil)
	return &http.Cookie{Name: auth.SessionCookieName, Value: token}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func hashForTest(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	if err != nil {
		panic(err)
	}
	return string(h)
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// decodeData unwraps the response envelope and unmarshals the data field.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Data)
	require.NoError(t, json.Unmarshal(env.Data, target))
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}
