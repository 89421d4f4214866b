package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI             string
	Database        string
	ConnectTimeout  time.Duration
	MaxPoolSize     uint64
	MaxConnIdleTime time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
}

// DefaultMongoConfig returns sensible defaults for MongoDB.
func DefaultMongoConfig(uri, database string) MongoConfig {
	return MongoConfig{
		URI:             uri,
		Database:        database,
		ConnectTimeout:  10 * time.Second,
		MaxPoolSize:     100,
		MaxConnIdleTime: 5 * time.Minute,
		RetryAttempts:   5,
		RetryDelay:      2 * time.Second,
	}
}

// NewMongoClient connects to MongoDB with retry and verifies the connection
// with a ping. The retry loop covers the common case where the database
// container starts alongside the service and is not yet accepting
// connections.
func NewMongoClient(ctx context.Context, cfg MongoConfig, logger *slog.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime)

	var client *mongo.Client
	var err error

	for attempt := 1; attempt <= cfg.RetryAttempts; attempt++ {
		client, err = mongo.Connect(ctx, opts)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
			err = client.Ping(pingCtx, readpref.Primary())
			cancel()
			if err == nil {
				return client, nil
			}
			_ = client.Disconnect(ctx)
		}

		if attempt < cfg.RetryAttempts {
			logger.Warn("mongodb connection failed, retrying",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", cfg.RetryAttempts),
				slog.String("error", err.Error()),
			)

			select {
			case <-time.After(cfg.RetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("connect to mongodb after %d attempts: %w", cfg.RetryAttempts, err)
}

// MongoHealthCheck returns a health checker that pings the primary.
func MongoHealthCheck(client *mongo.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}

// IsDuplicateKeyError reports whether the error is a unique index violation.
func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
