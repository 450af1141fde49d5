package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/floracart/floracart/app/models"
	"github.com/floracart/floracart/pkg/database"
	"github.com/floracart/floracart/pkg/metrics"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	col *mongo.Collection
}

// NewOrderRepository wraps the orders collection of db.
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(database.OrdersCollection)}
}

// Create persists a new order and fills in its ID.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	defer metrics.ObserveStoreOp(database.OrdersCollection, "insert", time.Now())

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("orders: insert: %w", err)
	}
	return nil
}

// FindByID looks up one order by document ID.
// Returns ErrNotFound when no order matches.
func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	defer metrics.ObserveStoreOp(database.OrdersCollection, "find", time.Now())

	var order models.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("orders: find by id: %w", err)
	}
	return order, nil
}

// FindByUser returns all orders owned by userID, newest first.
func (r *OrderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	defer metrics.ObserveStoreOp(database.OrdersCollection, "find", time.Now())

	opts := options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("orders: find by user: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("orders: decode: %w", err)
	}
	return orders, nil
}
