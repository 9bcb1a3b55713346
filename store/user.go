package store

import (
	"context"

	"github.com/zain100000/bookheaven-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	res, err := db.Users().InsertOne(ctx, user, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) UpdateUserPassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": hashedPassword}})
	return err
}

// IncrementCartQuantity bumps the quantity of an existing cart entry by delta.
// Returns false when the user has no cart entry for the book.
func (db *DB) IncrementCartQuantity(ctx context.Context, userID, bookID primitive.ObjectID, delta int) (bool, error) {
	res, err := db.Users().UpdateOne(ctx,
		bson.M{"_id": userID, "cart.bookId": bookID},
		bson.M{"$inc": bson.M{"cart.$.quantity": delta}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (db *DB) PushCartItem(ctx context.Context, userID primitive.ObjectID, item models.CartItem) error {
	_, err := db.Users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"cart": item}})
	return err
}

// PullCartItem removes the cart entry for the book regardless of quantity.
func (db *DB) PullCartItem(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	res, err := db.Users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"cart": bson.M{"bookId": bookID}}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// AddFavorite appends the book to the user's favorites. Returns false when
// the book is already a favorite ($addToSet leaves the array unchanged).
func (db *DB) AddFavorite(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	res, err := db.Users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"favorites": models.FavoriteItem{BookID: bookID}}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RemoveFavorite pulls the book from favorites. Returns false when it was
// not present.
func (db *DB) RemoveFavorite(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	res, err := db.Users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"favorites": bson.M{"bookId": bookID}}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// AppendOrderSummary adds a mirror entry for a newly placed order.
func (db *DB) AppendOrderSummary(ctx context.Context, userID primitive.ObjectID, entry models.OrderSummary) error {
	_, err := db.Users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"orders": entry}})
	return err
}

// SetOrderSummaryStatus overwrites the mirrored status for one order.
func (db *DB) SetOrderSummaryStatus(ctx context.Context, userID, orderID primitive.ObjectID, status models.OrderStatus) error {
	_, err := db.Users().UpdateOne(ctx,
		bson.M{"_id": userID, "orders.orderId": orderID},
		bson.M{"$set": bson.M{"orders.$.status": status}})
	return err
}

// PullOrderSummary removes the mirror entry when an order is deleted.
func (db *DB) PullOrderSummary(ctx context.Context, userID, orderID primitive.ObjectID) error {
	_, err := db.Users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"orders": bson.M{"orderId": orderID}}})
	return err
}
