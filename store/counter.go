package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userIDCounter = "userId"

type counter struct {
	ID  string `bson:"_id"`
	Seq int    `bson:"seq"`
}

// NextUserID atomically allocates the next userId. The counter starts from
// the highest userId already present so older data keeps its numbering.
func (db *DB) NextUserID(ctx context.Context) (int, error) {
	floor, err := db.MaxUserID(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := db.Counters().UpdateOne(ctx,
		bson.M{"_id": userIDCounter},
		bson.M{"$max": bson.M{"seq": floor}},
		options.Update().SetUpsert(true),
	); err != nil {
		return 0, err
	}
	var c counter
	err = db.Counters().FindOneAndUpdate(ctx,
		bson.M{"_id": userIDCounter},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, err
	}
	return c.Seq, nil
}
