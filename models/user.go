package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account types.
const (
	TypeGuest = "guest"
	TypeAdmin = "admin"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    int                `bson:"userId" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // bcrypt hash
	Type      string             `bson:"type" json:"type"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"-"`
}
