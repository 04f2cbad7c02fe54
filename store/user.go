package store

import (
	"context"
	"errors"

	"github.com/kevinaaaquil/bookstore/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.findUser(ctx, bson.M{"email": email})
}

func (db *DB) UserByID(ctx context.Context, userID int) (*models.User, error) {
	return db.findUser(ctx, bson.M{"userId": userID})
}

func (db *DB) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// MaxUserID returns the highest userId in use, or 0 for an empty collection.
func (db *DB) MaxUserID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.M{"userId": -1}).SetProjection(bson.M{"userId": 1})
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"userId": bson.M{"$exists": true}}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return u.UserID, nil
}

func (db *DB) InsertUser(ctx context.Context, user *models.User) error {
	_, err := db.Users().InsertOne(ctx, user)
	return wrapWriteErr(err)
}

func (db *DB) UpdateUserEmail(ctx context.Context, userID int, email string) (bool, error) {
	return db.setUserField(ctx, userID, "email", email)
}

func (db *DB) UpdateUserPassword(ctx context.Context, userID int, hash string) (bool, error) {
	return db.setUserField(ctx, userID, "password", hash)
}

func (db *DB) setUserField(ctx context.Context, userID int, field, value string) (bool, error) {
	res, err := db.Users().UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return false, wrapWriteErr(err)
	}
	return res.MatchedCount > 0, nil
}
