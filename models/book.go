package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookReview is the embedded copy of a Review kept on the book document.
// It shares its _id with the Review document in the reviews collection.
type BookReview struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	UserID  primitive.ObjectID `bson:"userId" json:"userId"`
	Comment string             `bson:"comment" json:"comment"`
	Rating  float64            `bson:"rating" json:"rating"`
}

type Book struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UploadedBy  primitive.ObjectID `bson:"uploadedBy" json:"uploadedBy"`
	Title       string             `bson:"title" json:"title"`
	Author      string             `bson:"author" json:"author"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Stock       int                `bson:"stock" json:"stock"`
	Publisher   string             `bson:"publisher,omitempty" json:"publisher,omitempty"`
	PublishDate string             `bson:"publishDate,omitempty" json:"publishDate,omitempty"`
	ImageS3Key  string             `bson:"imageS3Key" json:"-"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
	FileS3Key   string             `bson:"fileS3Key" json:"-"`
	FileURL     string             `bson:"fileUrl" json:"fileUrl"`

	// Reviews is a denormalized copy of the reviews collection entries for
	// this book; Rating is the arithmetic mean of their ratings (0 when
	// empty) and TotalReviews their count. All three are rewritten together
	// on every review mutation.
	Reviews      []BookReview `bson:"reviews" json:"reviews"`
	Rating       float64      `bson:"rating" json:"rating"`
	TotalReviews int          `bson:"totalReviews" json:"totalReviews"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
