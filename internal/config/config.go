package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/SampritiSC2/react-proshop/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"5000"`

	// MongoDB
	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"proshop"`

	// JWT session
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTExpiry string `env:"JWT_EXPIRY" envDefault:"720h"`

	// Pagination
	PageSize        int `env:"PAGE_SIZE" envDefault:"5"`
	ProductPageSize int `env:"PRODUCT_PAGE_SIZE" envDefault:"4"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Redis cache
	CacheEnabled  bool   `env:"CACHE_ENABLED" envDefault:"false"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      string `env:"CACHE_TTL" envDefault:"5m"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// PayPal
	PayPalClientID string `env:"PAYPAL_CLIENT_ID" envDefault:""`
	PayPalSecret   string `env:"PAYPAL_SECRET" envDefault:""`
	PayPalAPIBase  string `env:"PAYPAL_API_BASE" envDefault:"https://api-m.sandbox.paypal.com"`

	// PaymentVerify controls whether payment confirmations are verified
	// against the gateway before an order is marked paid. When false the
	// client-reported payment result is trusted (development only).
	PaymentVerify bool `env:"PAYMENT_VERIFY" envDefault:"false"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("invalid page size: %d", c.PageSize)
	}
	if c.ProductPageSize < 1 {
		return fmt.Errorf("invalid product page size: %d", c.ProductPageSize)
	}
	if _, err := time.ParseDuration(c.JWTExpiry); err != nil {
		return fmt.Errorf("invalid JWT expiry %q: %w", c.JWTExpiry, err)
	}
	if _, err := time.ParseDuration(c.CacheTTL); err != nil {
		return fmt.Errorf("invalid cache TTL %q: %w", c.CacheTTL, err)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if c.Environment != "development" {
		if c.JWTSecret == "change-this-to-a-secure-secret" {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(c.JWTSecret))
		}
		if c.PaymentVerify && (c.PayPalClientID == "" || c.PayPalSecret == "") {
			return fmt.Errorf("PAYPAL_CLIENT_ID and PAYPAL_SECRET must be set when PAYMENT_VERIFY is enabled in %q mode", c.Environment)
		}
	}

	return nil
}

// JWTExpiryDuration returns the parsed session token lifetime.
func (c *Config) JWTExpiryDuration() time.Duration {
	d, _ := time.ParseDuration(c.JWTExpiry)
	return d
}

// CacheTTLDuration returns the parsed cache entry lifetime.
func (c *Config) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}
