package usage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the Mongo collection holding daily usage counters.
const CollectionName = "usage"

// MongoStore implements Store on MongoDB. One document per (account, day),
// with one counter field per action, incremented with $inc so concurrent
// invocations never lose updates.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a Store backed by the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(CollectionName)}
}

type usageDoc struct {
	AccountID string         `bson:"accountId"`
	Date      string         `bson:"date"`
	Counts    map[string]int `bson:"counts"`
}

func docID(accountID, date string) string {
	return accountID + ":" + date
}

func (s *MongoStore) Count(ctx context.Context, accountID, date string, action Action) (int, error) {
	var doc usageDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": docID(accountID, date)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return doc.Counts[string(action)], nil
}

func (s *MongoStore) Increment(ctx context.Context, accountID, date string, action Action) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": docID(accountID, date)},
		bson.M{
			"$inc":         bson.M{"counts." + string(action): 1},
			"$setOnInsert": bson.M{"accountId": accountID, "date": date},
		},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}
