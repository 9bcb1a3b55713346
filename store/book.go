package store

import (
	"context"

	"github.com/zain100000/bookheaven-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	res, err := db.Books().InsertOne(ctx, book, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) AllBooks(ctx context.Context) ([]models.Book, error) {
	cur, err := db.Books().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (db *DB) BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := db.Books().FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes a book by ID. Returns the deleted book's S3 keys so the
// caller can remove the stored artifacts.
func (db *DB) DeleteBook(ctx context.Context, id primitive.ObjectID) (imageS3Key, fileS3Key string, err error) {
	var book models.Book
	err = db.Books().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return "", "", mongo.ErrNoDocuments
	}
	if err != nil {
		return "", "", err
	}
	return book.ImageS3Key, book.FileS3Key, nil
}

// UpdateBook overwrites a book's catalog fields and media references.
func (db *DB) UpdateBook(ctx context.Context, id primitive.ObjectID, book *models.Book) error {
	update := bson.M{
		"title":       book.Title,
		"author":      book.Author,
		"description": book.Description,
		"category":    book.Category,
		"price":       book.Price,
		"stock":       book.Stock,
		"publisher":   book.Publisher,
		"publishDate": book.PublishDate,
		"imageS3Key":  book.ImageS3Key,
		"imageUrl":    book.ImageURL,
		"fileS3Key":   book.FileS3Key,
		"fileUrl":     book.FileURL,
	}
	_, err := db.Books().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

// SetBookReviews rewrites the embedded review list together with its derived
// rating and count so the three fields never drift apart within the document.
func (db *DB) SetBookReviews(ctx context.Context, bookID primitive.ObjectID, reviews []models.BookReview, rating float64, total int) error {
	_, err := db.Books().UpdateOne(ctx,
		bson.M{"_id": bookID},
		bson.M{"$set": bson.M{
			"reviews":      reviews,
			"rating":       rating,
			"totalReviews": total,
		}})
	return err
}
