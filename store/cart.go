package store

import (
	"context"
	"errors"

	"github.com/kevinaaaquil/bookstore/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCart returns the user's cart, creating an empty one if none exists.
func (db *DB) EnsureCart(ctx context.Context, userID int) (*models.Cart, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	update := bson.M{"$setOnInsert": bson.M{"userId": userID, "books": bson.A{}, "version": 0}}
	var cart models.Cart
	err := db.Carts().FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&cart)
	if mongo.IsDuplicateKeyError(err) {
		// Lost an upsert race against another request; the cart exists now.
		err = db.Carts().FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	}
	if err != nil {
		return nil, err
	}
	if cart.Books == nil {
		cart.Books = []models.CartItem{}
	}
	return &cart, nil
}

// CartByUser returns nil, nil when the user has no cart document.
func (db *DB) CartByUser(ctx context.Context, userID int) (*models.Cart, error) {
	var cart models.Cart
	err := db.Carts().FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if cart.Books == nil {
		cart.Books = []models.CartItem{}
	}
	return &cart, nil
}

// IncrementItem adds delta to the quantity of the line item with isbn.
// It reports false when the cart has no such item.
func (db *DB) IncrementItem(ctx context.Context, userID int, isbn string, delta int) (bool, error) {
	res, err := db.Carts().UpdateOne(ctx,
		bson.M{"userId": userID, "books.isbn": isbn},
		bson.M{"$inc": bson.M{"books.$.quantity": delta, "version": 1}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// PushItem appends item unless the cart already holds its isbn.
func (db *DB) PushItem(ctx context.Context, userID int, item models.CartItem) (bool, error) {
	res, err := db.Carts().UpdateOne(ctx,
		bson.M{"userId": userID, "books.isbn": bson.M{"$ne": item.ISBN}},
		bson.M{"$push": bson.M{"books": item}, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (db *DB) SetItemQuantity(ctx context.Context, userID int, isbn string, quantity int) (bool, error) {
	res, err := db.Carts().UpdateOne(ctx,
		bson.M{"userId": userID, "books.isbn": isbn},
		bson.M{"$set": bson.M{"books.$.quantity": quantity}, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// PullItem removes the line item with isbn. It reports false when the user has no cart.
func (db *DB) PullItem(ctx context.Context, userID int, isbn string) (bool, error) {
	res, err := db.Carts().UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$pull": bson.M{"books": bson.M{"isbn": isbn}}, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (db *DB) ClearCart(ctx context.Context, userID int) error {
	_, err := db.Carts().UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"books": bson.A{}}, "$inc": bson.M{"version": 1}},
	)
	return err
}
