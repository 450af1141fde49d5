// Package database owns the MongoDB connection and index management.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used across the application.
const (
	UsersCollection    = "users"
	OrdersCollection   = "orders"
	SessionsCollection = "sessions"
)

// Connect opens a MongoDB client and verifies the connection with a ping.
// The returned handle is created once at startup and shared for the
// process lifetime.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return client.Database(dbName), nil
}

// Disconnect closes the client behind db. Safe on a nil database.
func Disconnect(ctx context.Context, db *mongo.Database) error {
	if db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.Client().Disconnect(ctx)
}

// EnsureIndexes creates the indexes the application relies on:
//
//   - users: unique on email, unique on username
//   - orders: {userId, orderDate desc} for history reads
//   - sessions: TTL on expiresAt so stale sessions vanish server-side
//
// Creation is idempotent; Mongo treats an existing identical index as a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("database: users indexes: %w", err)
	}

	orders := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "orderDate", Value: -1}},
	}
	if _, err := db.Collection(OrdersCollection).Indexes().CreateOne(ctx, orders); err != nil {
		return fmt.Errorf("database: orders index: %w", err)
	}

	sessions := mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := db.Collection(SessionsCollection).Indexes().CreateOne(ctx, sessions); err != nil {
		return fmt.Errorf("database: sessions index: %w", err)
	}

	return nil
}
