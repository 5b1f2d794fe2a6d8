package db

import (
	"context"
	"fmt"
	"time"

	"github.com/electromart/electromart-backend/config"
	"github.com/electromart/electromart-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a MongoDB client and returns the configured database
func ConnectMongo(ctx context.Context, cfg *config.MongoConfig) (*mongo.Database, error) {
	logger.Info("Connecting to MongoDB", map[string]interface{}{
		"database": cfg.Database,
	})

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("MongoDB connection established successfully")
	return client.Database(cfg.Database), nil
}

// DisconnectMongo closes the client behind database
func DisconnectMongo(ctx context.Context, database *mongo.Database) error {
	if database == nil {
		return nil
	}
	return database.Client().Disconnect(ctx)
}
