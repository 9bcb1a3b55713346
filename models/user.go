package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants carried in JWT claims.
const (
	RoleUser       = "USER"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// CartItem is an entry in the user's embedded cart.
type CartItem struct {
	BookID   primitive.ObjectID `bson:"bookId" json:"bookId"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// FavoriteItem is an entry in the user's embedded favorites.
type FavoriteItem struct {
	BookID primitive.ObjectID `bson:"bookId" json:"bookId"`
}

// OrderSummary mirrors an Order's identity and status inside the user
// document. The Order document owns the status; this is a copy kept in
// sync by the order service.
type OrderSummary struct {
	OrderID  primitive.ObjectID `bson:"orderId" json:"orderId"`
	Status   OrderStatus        `bson:"status" json:"status"`
	PlacedAt time.Time          `bson:"placedAt" json:"placedAt"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // bcrypt hash
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	Cart      []CartItem         `bson:"cart" json:"cart"`
	Favorites []FavoriteItem     `bson:"favorites" json:"favorites"`
	Orders    []OrderSummary     `bson:"orders" json:"orders"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
