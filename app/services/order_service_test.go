package services_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/floracart/floracart/app/models"
	"github.com/floracart/floracart/app/repositories"
	"github.com/floracart/floracart/app/services"
)

// fakeOrderStore emulates the orders collection, including the
// orderDate-descending sort of FindByUser.
type fakeOrderStore struct {
	orders  []models.Order
	failAll error
}

func (f *fakeOrderStore) Create(_ context.Context, order *models.Order) error {
	if f.failAll != nil {
		return f.failAll
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	if f.failAll != nil {
		return models.Order{}, f.failAll
	}
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, repositories.ErrNotFound
}

func (f *fakeOrderStore) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}

var testInput = services.OrderInput{
	ProductName:     "Rose Bouquet",
	Size:            "large",
	DeliveryDate:    time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	DeliveryAddress: "12 Garden Lane",
	CardMessage:     "Happy birthday!",
	TotalPrice:      24.99,
}

func TestPlaceOrder(t *testing.T) {
	store := &fakeOrderStore{}
	svc := services.NewOrderService(store)
	caller := primitive.NewObjectID()

	order, err := svc.Place(context.Background(), caller.Hex(), testInput)
	require.NoError(t, err)

	assert.False(t, order.ID.IsZero())
	assert.Equal(t, caller, order.UserID)
	assert.Equal(t, 24.99, order.TotalPrice)
	assert.WithinDuration(t, time.Now(), order.OrderDate, time.Minute)
}

func TestPlaceOrderStorageFailure(t *testing.T) {
	store := &fakeOrderStore{failAll: errors.New("write concern error")}
	svc := services.NewOrderService(store)

	_, err := svc.Place(context.Background(), primitive.NewObjectID().Hex(), testInput)
	assert.Error(t, err)
}

func TestGetOwnOrder(t *testing.T) {
	store := &fakeOrderStore{}
	svc := services.NewOrderService(store)
	caller := primitive.NewObjectID()

	placed, err := svc.Place(context.Background(), caller.Hex(), testInput)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), caller.Hex(), placed.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)
}

func TestGetDeniesOtherUsersOrder(t *testing.T) {
	store := &fakeOrderStore{}
	svc := services.NewOrderService(store)

	owner := primitive.NewObjectID()
	placed, err := svc.Place(context.Background(), owner.Hex(), testInput)
	require.NoError(t, err)

	intruder := primitive.NewObjectID()
	_, err = svc.Get(context.Background(), intruder.Hex(), placed.ID.Hex())
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestGetMissingAndMalformedIDs(t *testing.T) {
	svc := services.NewOrderService(&fakeOrderStore{})
	caller := primitive.NewObjectID().Hex()

	_, err := svc.Get(context.Background(), caller, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.Get(context.Background(), caller, "not-a-hex-id")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestHistoryNewestFirst(t *testing.T) {
	store := &fakeOrderStore{}
	svc := services.NewOrderService(store)
	caller := primitive.NewObjectID()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"O1", "O2", "O3"} {
		store.orders = append(store.orders, models.Order{
			ID:          primitive.NewObjectID(),
			UserID:      caller,
			ProductName: name,
			OrderDate:   base.Add(time.Duration(i) * time.Hour),
		})
	}

	history, err := svc.History(context.Background(), caller.Hex())
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "O3", history[0].ProductName)
	assert.Equal(t, "O2", history[1].ProductName)
	assert.Equal(t, "O1", history[2].ProductName)
}

func TestHistoryExcludesOtherUsers(t *testing.T) {
	store := &fakeOrderStore{}
	svc := services.NewOrderService(store)

	mine := primitive.NewObjectID()
	other := primitive.NewObjectID()
	store.orders = append(store.orders,
		models.Order{ID: primitive.NewObjectID(), UserID: mine, ProductName: "Mine"},
		models.Order{ID: primitive.NewObjectID(), UserID: other, ProductName: "Theirs"},
	)

	history, err := svc.History(context.Background(), mine.Hex())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Mine", history[0].ProductName)
}
