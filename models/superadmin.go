package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SuperAdmin accounts live in their own collection; membership in it is
// what grants the SUPER_ADMIN role.
type SuperAdmin struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // bcrypt hash
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
