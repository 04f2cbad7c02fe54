package store

import (
	"context"
	"errors"

	"github.com/kevinaaaquil/bookstore/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) AllBooks(ctx context.Context) ([]models.Book, error) {
	cur, err := db.Books().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	books := []models.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// BookByISBN returns nil, nil when no book has the given ISBN.
func (db *DB) BookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	var book models.Book
	err := db.Books().FindOne(ctx, bson.M{"isbn": isbn}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (db *DB) InsertBook(ctx context.Context, book *models.Book) error {
	_, err := db.Books().InsertOne(ctx, book)
	return wrapWriteErr(err)
}

func (db *DB) InsertBooks(ctx context.Context, books []models.Book) error {
	docs := make([]any, len(books))
	for i := range books {
		docs[i] = books[i]
	}
	_, err := db.Books().InsertMany(ctx, docs)
	return wrapWriteErr(err)
}

func (db *DB) CountBooks(ctx context.Context) (int64, error) {
	return db.Books().CountDocuments(ctx, bson.M{})
}

// UpdateBook sets the non-nil fields of u. It reports whether a book matched.
func (db *DB) UpdateBook(ctx context.Context, isbn string, u models.BookUpdate) (bool, error) {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Author != nil {
		set["author"] = *u.Author
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.ImageURL != nil {
		set["imageUrl"] = *u.ImageURL
	}
	if len(set) == 0 {
		n, err := db.Books().CountDocuments(ctx, bson.M{"isbn": isbn}, options.Count().SetLimit(1))
		return n > 0, err
	}
	res, err := db.Books().UpdateOne(ctx, bson.M{"isbn": isbn}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// DeleteBook removes the book and pulls its line items out of every cart.
// The cart cascade runs even when the book is already gone, so retrying a
// delete that failed halfway repairs the carts. With Transactions enabled
// both writes commit together.
func (db *DB) DeleteBook(ctx context.Context, isbn string) (bool, error) {
	if !db.Transactions {
		return db.deleteBook(ctx, isbn)
	}
	sess, err := db.Client.StartSession()
	if err != nil {
		return false, err
	}
	defer sess.EndSession(ctx)
	deleted, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return db.deleteBook(sc, isbn)
	})
	if err != nil {
		return false, err
	}
	return deleted.(bool), nil
}

func (db *DB) deleteBook(ctx context.Context, isbn string) (bool, error) {
	res, err := db.Books().DeleteOne(ctx, bson.M{"isbn": isbn})
	if err != nil {
		return false, err
	}
	if _, err := db.Carts().UpdateMany(ctx,
		bson.M{"books.isbn": isbn},
		bson.M{"$pull": bson.M{"books": bson.M{"isbn": isbn}}, "$inc": bson.M{"version": 1}},
	); err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
