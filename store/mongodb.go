package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned when an insert or update violates a unique index.
var ErrDuplicate = errors.New("duplicate key")

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
	// Transactions enables multi-document transactions (replica set or mongos only).
	Transactions bool
}

func NewMongoDB(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &DB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

func (db *DB) Users() *mongo.Collection {
	return db.Database.Collection("users")
}

func (db *DB) Books() *mongo.Collection {
	return db.Database.Collection("books")
}

func (db *DB) Carts() *mongo.Collection {
	return db.Database.Collection("carts")
}

func (db *DB) Counters() *mongo.Collection {
	return db.Database.Collection("counters")
}

// EnsureIndexes creates the unique index on each collection's natural key.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	unique := []struct {
		coll *mongo.Collection
		key  string
	}{
		{db.Users(), "email"},
		{db.Books(), "isbn"},
		{db.Carts(), "userId"},
	}
	for _, u := range unique {
		idx := mongo.IndexModel{
			Keys:    bson.D{{Key: u.key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := u.coll.Indexes().CreateOne(ctx, idx); err != nil {
			return fmt.Errorf("index %s.%s: %w", u.coll.Name(), u.key, err)
		}
	}
	return nil
}

// Reset drops every document from the bookstore collections.
func (db *DB) Reset(ctx context.Context) error {
	for _, c := range []*mongo.Collection{db.Books(), db.Users(), db.Carts(), db.Counters()} {
		if _, err := c.DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("reset %s: %w", c.Name(), err)
		}
	}
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, nil)
}

func (db *DB) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}

func wrapWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
