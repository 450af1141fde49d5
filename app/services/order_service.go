package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/floracart/floracart/app/models"
	"github.com/floracart/floracart/app/repositories"
	"github.com/floracart/floracart/pkg/metrics"
)

// OrderStore is the data access surface OrderService needs.
// *repositories.OrderRepository satisfies it.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
}

// OrderInput carries a validated order submission.
type OrderInput struct {
	ProductName     string
	Size            string
	DeliveryDate    time.Time
	DeliveryAddress string
	CardMessage     string
	TotalPrice      float64
}

// OrderService implements order placement and retrieval.
type OrderService struct {
	orders OrderStore
	now    func() time.Time
}

// NewOrderService builds an OrderService over orders.
func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{orders: orders, now: time.Now}
}

// Place persists a new order owned by callerID, stamped with the current
// time. Orders are immutable once placed.
func (s *OrderService) Place(ctx context.Context, callerID string, in OrderInput) (models.Order, error) {
	userID, err := primitive.ObjectIDFromHex(callerID)
	if err != nil {
		return models.Order{}, fmt.Errorf("place order: caller id: %w", err)
	}

	order := models.Order{
		UserID:          userID,
		ProductName:     in.ProductName,
		Size:            in.Size,
		DeliveryDate:    in.DeliveryDate,
		DeliveryAddress: in.DeliveryAddress,
		CardMessage:     in.CardMessage,
		TotalPrice:      in.TotalPrice,
		OrderDate:       s.now(),
	}
	if err := s.orders.Create(ctx, &order); err != nil {
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}

	metrics.OrdersPlacedTotal.Inc()
	return order, nil
}

// Get returns the order with orderID if it is owned by callerID.
// A malformed id, a missing order, and an order owned by someone else all
// return ErrNotFound — the caller learns nothing about other users' orders.
func (s *OrderService) Get(ctx context.Context, callerID, orderID string) (models.Order, error) {
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return models.Order{}, ErrNotFound
	}

	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("get order: %w", err)
	}

	if order.UserID.Hex() != callerID {
		return models.Order{}, ErrNotFound
	}
	return order, nil
}

// History returns all orders owned by callerID, newest first.
func (s *OrderService) History(ctx context.Context, callerID string) ([]models.Order, error) {
	userID, err := primitive.ObjectIDFromHex(callerID)
	if err != nil {
		return nil, fmt.Errorf("order history: caller id: %w", err)
	}

	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	return orders, nil
}
