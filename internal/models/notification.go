package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification lives in MongoDB, not in the relational store.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Content   string             `bson:"content" json:"content"`
	User      uint               `bson:"user" json:"user"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
