package database

import (
	"context"
	"fmt"
	"time"

	"go-gin-ecommerce/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitMongo 連線 MongoDB 並回傳商品、購物車、使用者所在的 database
func InitMongo(ctx context.Context, config *config.MongoConfig) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(config.URI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(5)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(config.DBName), nil
}
