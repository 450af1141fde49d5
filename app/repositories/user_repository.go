// Package repositories implements the MongoDB data access layer.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/floracart/floracart/app/models"
	"github.com/floracart/floracart/pkg/database"
	"github.com/floracart/floracart/pkg/metrics"
)

var (
	// ErrDuplicateKey reports a unique index violation (email or username).
	ErrDuplicateKey = errors.New("repositories: duplicate key")
	// ErrNotFound reports a missing document.
	ErrNotFound = errors.New("repositories: not found")
)

// UserRepository handles database operations for User.
type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository wraps the users collection of db.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(database.UsersCollection)}
}

// FindByEmail looks up a user by email address.
// Returns ErrNotFound when no user matches.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	defer metrics.ObserveStoreOp(database.UsersCollection, "find", time.Now())

	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("users: find by email: %w", err)
	}
	return user, nil
}

// FindByID looks up a user by document ID.
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	defer metrics.ObserveStoreOp(database.UsersCollection, "find", time.Now())

	var user models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("users: find by id: %w", err)
	}
	return user, nil
}

// Create persists a new user record and fills in its ID.
// A unique index violation on email or username maps to ErrDuplicateKey.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveStoreOp(database.UsersCollection, "insert", time.Now())

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("users: insert: %w", err)
	}
	return nil
}
