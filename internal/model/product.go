package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a products-api resource.
// Timestamps are persisted with the document but never exposed to clients.
type Product struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Price     float64            `json:"price" bson:"price"`
	Stock     int64              `json:"stock" bson:"stock"`
	CreatedAt time.Time          `json:"-" bson:"created_at"`
	UpdatedAt time.Time          `json:"-" bson:"updated_at"`
}

// AggregatedView is the request-scoped composite served by /products/with-users.
type AggregatedView struct {
	Products   []*Product `json:"products"`
	UsersCount int        `json:"usersCount"`
}
