package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sessionDoc is the shape written to the sessions collection. The token is
// the document key; expiresAt drives the TTL index so Mongo reaps expired
// sessions on its own.
type sessionDoc struct {
	Token     string    `bson:"_id"`
	Identity  Identity  `bson:"identity"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoStore persists sessions in a MongoDB collection, the same database
// that holds users and orders.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore wraps the given collection. Callers are expected to have
// created the expiresAt TTL index (database.EnsureIndexes).
func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

func (s *MongoStore) Put(ctx context.Context, token string, identity Identity, ttl time.Duration) error {
	doc := sessionDoc{
		Token:     token,
		Identity:  identity,
		ExpiresAt: time.Now().Add(ttl),
	}
	// Upsert keeps Put idempotent for a given token.
	_, err := s.col.ReplaceOne(ctx,
		bson.M{"_id": token},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("session: mongo put: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, token string) (Identity, bool, error) {
	var doc sessionDoc
	err := s.col.FindOne(ctx, bson.M{"_id": token}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, fmt.Errorf("session: mongo get: %w", err)
	}

	// The TTL monitor runs every 60s, so an expired document may linger
	// briefly. Treat it as gone.
	if time.Now().After(doc.ExpiresAt) {
		return Identity{}, false, nil
	}
	return doc.Identity, true, nil
}

func (s *MongoStore) Delete(ctx context.Context, token string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": token}); err != nil {
		return fmt.Errorf("session: mongo delete: %w", err)
	}
	return nil
}
