package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SampritiSC2/react-proshop/internal/auth"
	"github.com/SampritiSC2/react-proshop/internal/config"
	"github.com/SampritiSC2/react-proshop/internal/repository"
	"github.com/SampritiSC2/react-proshop/internal/service"
	"github.com/SampritiSC2/react-proshop/pkg/health"
	"github.com/SampritiSC2/react-proshop/pkg/httputil"
	"github.com/SampritiSC2/react-proshop/pkg/middleware"
)

// Deps carries everything the router needs.
type Deps struct {
	Config     *config.Config
	Users      *service.UserService
	Products   *service.ProductService
	Reviews    *service.ReviewService
	Orders     *service.OrderService
	UserRepo   repository.UserRepository
	JWTManager *auth.JWTManager
	Cookies    *auth.CookieWriter
	Health     *health.Handler
	Logger     *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	writer := httputil.NewWriter(d.Config.Environment, d.Logger)

	// Global middleware
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   d.Config.CORSAllowedOrigins,
		AllowCredentials: true,
		Environment:      d.Config.Environment,
	}))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestLogging(d.Logger))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))

	// Ops endpoints
	r.Get("/health/live", d.Health.LivenessHandler())
	r.Get("/health/ready", d.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	protect := Protect(d.JWTManager, d.UserRepo, writer)
	admin := Admin(writer)

	authHandler := NewAuthHandler(d.Users, d.Cookies, writer)
	userHandler := NewUserHandler(d.Users, d.Config.PageSize, writer)
	productHandler := NewProductHandler(d.Products, d.Reviews, d.Config.ProductPageSize, writer)
	orderHandler := NewOrderHandler(d.Orders, d.Config.PageSize, writer)

	// Account and session endpoints
	r.Route("/api/users", func(r chi.Router) {
		r.With(ContentTypeJSON).Post("/", authHandler.Register)
		r.With(ContentTypeJSON).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(protect)

			r.Get("/profile", userHandler.GetProfile)
			r.With(ContentTypeJSON).Put("/profile", userHandler.UpdateProfile)

			r.Group(func(r chi.Router) {
				r.Use(admin)

				r.Get("/", userHandler.ListUsers)
				r.Get("/{id}", userHandler.GetUser)
				r.With(ContentTypeJSON).Put("/{id}", userHandler.UpdateUser)
				r.Delete("/{id}", userHandler.DeleteUser)
			})
		})
	})

	// Catalog endpoints. Public reads carry a short Cache-Control header;
	// everything authenticated stays uncached.
	r.Route("/api/products", func(r chi.Router) {
		r.With(middleware.CacheControl(60)).Get("/", productHandler.List)
		r.With(middleware.CacheControl(60)).Get("/top", productHandler.Top)
		r.With(middleware.CacheControl(60)).Get("/{id}", productHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(protect)

			r.With(ContentTypeJSON).Post("/{id}/reviews", productHandler.AddReview)

			r.Group(func(r chi.Router) {
				r.Use(admin)

				r.Post("/", productHandler.Create)
				r.With(ContentTypeJSON).Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
			})
		})
	})

	// Order endpoints
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(protect)

		r.With(ContentTypeJSON).Post("/", orderHandler.Create)
		r.Get("/myOrders", orderHandler.ListMine)
		r.Get("/{id}", orderHandler.Get)
		r.With(ContentTypeJSON).Put("/{id}/pay", orderHandler.Pay)

		r.Group(func(r chi.Router) {
			r.Use(admin)

			r.Get("/", orderHandler.ListAll)
			r.Put("/{id}/deliver", orderHandler.Deliver)
		})
	})

	// Gateway client configuration for the frontend.
	r.Get("/api/config/paypal", func(w http.ResponseWriter, req *http.Request) {
		writer.JSON(w, http.StatusOK, map[string]string{"clientId": d.Config.PayPalClientID})
	})

	return r
}
