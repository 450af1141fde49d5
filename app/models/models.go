// Package models defines the documents persisted in MongoDB.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account record in the users collection.
// Email and username carry unique indexes (see database.EnsureIndexes).
// Users are created on signup and never updated or deleted afterwards.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email    string             `bson:"email" json:"email"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"` // bcrypt hash, never serialised
}

// Order is a single placed order in the orders collection.
// Orders are immutable after creation and owned by exactly one user.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	ProductName     string             `bson:"productName" json:"productName"`
	Size            string             `bson:"size" json:"size"`
	DeliveryDate    time.Time          `bson:"deliveryDate" json:"deliveryDate"`
	DeliveryAddress string             `bson:"deliveryAddress" json:"deliveryAddress"`
	CardMessage     string             `bson:"cardMessage,omitempty" json:"cardMessage,omitempty"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	OrderDate       time.Time          `bson:"orderDate" json:"orderDate"`
}
