package store

import (
	"context"

	"github.com/zain100000/bookheaven-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertReview stores a review whose ID was assigned by the caller so the
// same identity can be embedded into the book document.
func (db *DB) InsertReview(ctx context.Context, review *models.Review) error {
	_, err := db.Reviews().InsertOne(ctx, review)
	return err
}

func (db *DB) ReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var rv models.Review
	err := db.Reviews().FindOne(ctx, bson.M{"_id": id}).Decode(&rv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (db *DB) AllReviews(ctx context.Context) ([]models.Review, error) {
	cur, err := db.Reviews().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (db *DB) UpdateReview(ctx context.Context, id primitive.ObjectID, comment string, rating float64) error {
	_, err := db.Reviews().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"comment": comment, "rating": rating}})
	return err
}

func (db *DB) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	_, err := db.Reviews().DeleteOne(ctx, bson.M{"_id": id})
	return err
}
