package store

import (
	"context"
	"time"

	"github.com/zain100000/bookheaven-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	res, err := db.Orders().InsertOne(ctx, order, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) OrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	err := db.Orders().FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (db *DB) AllOrders(ctx context.Context) ([]models.Order, error) {
	cur, err := db.Orders().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (db *DB) OrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cur, err := db.Orders().Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus applies a status transition as a compare-and-set: the
// filter matches only while the order still holds the expected current
// status, so two racing transitions cannot both apply. Returns false when
// the order is missing or its status moved on since it was read.
func (db *DB) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus, record models.StatusRecord) (bool, error) {
	res, err := db.Orders().UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{
			"$set": bson.M{
				"status":    to,
				"updatedAt": time.Now().UTC(),
			},
			"$push": bson.M{"statusHistory": record},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (db *DB) UpdateOrderPayment(ctx context.Context, id primitive.ObjectID, payment models.PaymentStatus) (bool, error) {
	res, err := db.Orders().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"payment":   payment,
			"updatedAt": time.Now().UTC(),
		}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (db *DB) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	_, err := db.Orders().DeleteOne(ctx, bson.M{"_id": id})
	return err
}
