package clientlog

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

const reportsCollection = "client_errors"

// MongoStore persists reports in MongoDB.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	if db == nil {
		panic("clientlog: mongo database is required")
	}
	return &MongoStore{coll: db.Collection(reportsCollection)}
}

func (s *MongoStore) Save(ctx context.Context, r Report) error {
	_, err := s.coll.InsertOne(ctx, r)
	return err
}
