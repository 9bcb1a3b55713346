package store

import (
	"context"

	"github.com/zain100000/bookheaven-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) SuperAdminByEmail(ctx context.Context, email string) (*models.SuperAdmin, error) {
	var a models.SuperAdmin
	err := db.SuperAdmins().FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) SuperAdminByID(ctx context.Context, id primitive.ObjectID) (*models.SuperAdmin, error) {
	var a models.SuperAdmin
	err := db.SuperAdmins().FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) CreateSuperAdmin(ctx context.Context, admin *models.SuperAdmin) (primitive.ObjectID, error) {
	res, err := db.SuperAdmins().InsertOne(ctx, admin, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) UpdateSuperAdminPassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	_, err := db.SuperAdmins().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": hashedPassword}})
	return err
}
