package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is the independently-owned review record. Its _id is shared with
// the BookReview entry embedded in the reviewed book.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	BookID    primitive.ObjectID `bson:"bookId" json:"bookId"`
	Comment   string             `bson:"comment" json:"comment"`
	Rating    float64            `bson:"rating" json:"rating"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
