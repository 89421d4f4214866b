package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SampritiSC2/react-proshop/internal/auth"
	"github.com/SampritiSC2/react-proshop/internal/cache"
	"github.com/SampritiSC2/react-proshop/internal/config"
	"github.com/SampritiSC2/react-proshop/internal/event"
	handler "github.com/SampritiSC2/react-proshop/internal/handler/http"
	"github.com/SampritiSC2/react-proshop/internal/payment"
	"github.com/SampritiSC2/react-proshop/internal/payment/mock"
	"github.com/SampritiSC2/react-proshop/internal/payment/paypal"
	"github.com/SampritiSC2/react-proshop/internal/repository/mongodb"
	"github.com/SampritiSC2/react-proshop/internal/service"
	"github.com/SampritiSC2/react-proshop/pkg/database"
	"github.com/SampritiSC2/react-proshop/pkg/health"
	pkgkafka "github.com/SampritiSC2/react-proshop/pkg/kafka"
	"github.com/SampritiSC2/react-proshop/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Connect to MongoDB.
	mongoClient, err := database.NewMongoClient(ctx, database.DefaultMongoConfig(cfg.MongoURI, cfg.MongoDB), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	db := mongoClient.Database(cfg.MongoDB)
	logger.Info("connected to MongoDB", slog.String("database", cfg.MongoDB))

	// Repositories and indexes.
	userRepo := mongodb.NewUserRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ensure user indexes: %w", err)
	}
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ensure order indexes: %w", err)
	}

	// Optional Redis cache.
	var redisClient *redis.Client
	var productCache *cache.ProductCache
	if cfg.CacheEnabled {
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			_ = mongoClient.Disconnect(ctx)
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		productCache = cache.NewProductCache(redisClient, cfg.CacheTTLDuration(), logger)
		logger.Info("redis cache enabled", slog.String("addr", fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort)))
	}

	// Kafka producer.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	eventProducer := event.NewProducer(producer, logger)

	// Payment verification: real gateway lookups only when configured.
	var verifier payment.Verifier
	if cfg.PaymentVerify {
		verifier = paypal.New(paypal.Config{
			APIBase:  cfg.PayPalAPIBase,
			ClientID: cfg.PayPalClientID,
			Secret:   cfg.PayPalSecret,
		}, logger)
		logger.Info("payment verification enabled", slog.String("api_base", cfg.PayPalAPIBase))
	} else {
		verifier = mock.New()
	}

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiryDuration())
	cookies := auth.NewCookieWriter(cfg.Environment, cfg.JWTExpiryDuration())
	userService := service.NewUserService(userRepo, orderRepo, jwtManager, eventProducer, logger)
	productService := service.NewProductService(productRepo, productCache, logger)
	reviewService := service.NewReviewService(productRepo, userRepo, productCache, eventProducer, logger)
	orderService := service.NewOrderService(orderRepo, userRepo, verifier, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("mongodb", database.MongoHealthCheck(mongoClient))
	healthHandler.Register("kafka", producer.Ping)
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	router := handler.NewRouter(handler.Deps{
		Config:     cfg,
		Users:      userService,
		Products:   productService,
		Reviews:    reviewService,
		Orders:     orderService,
		UserRepo:   userRepo,
		JWTManager: jwtManager,
		Cookies:    cookies,
		Health:     healthHandler,
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		mongoClient:    mongoClient,
		redisClient:    redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush spans from drained requests)
// 3. Kafka producer
// 4. Redis and MongoDB connections
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	dbCtx, dbCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dbCancel()
	if err := a.mongoClient.Disconnect(dbCtx); err != nil {
		a.logger.Error("mongodb disconnect error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
