package ratelimit

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the Mongo collection holding rate-limit windows.
const CollectionName = "rate_limits"

// MongoStore implements Store on MongoDB, one document per limited key.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a Store backed by the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(CollectionName)}
}

func (s *MongoStore) Window(ctx context.Context, key string) (*Window, error) {
	var w Window
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&w); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (s *MongoStore) Reset(ctx context.Context, key string, start time.Time) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"windowStart": start.UTC(), "count": 1}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) Increment(ctx context.Context, key string) (int, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var w Window
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": key},
		bson.M{"$inc": bson.M{"count": 1}},
		opts,
	).Decode(&w)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrWindowNotFound
		}
		return 0, err
	}
	return w.Count, nil
}
