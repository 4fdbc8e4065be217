package account

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the Mongo collection holding account documents.
const CollectionName = "accounts"

// MongoStore implements Store on a MongoDB collection. Multi-document
// operations run inside server-side transactions, which is the only
// coordination mechanism shared by concurrent handler invocations.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore creates a Store backed by the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		client: db.Client(),
		coll:   db.Collection(CollectionName),
	}
}

// EnsureIndexes creates the unique referral-code index. The index is partial
// so accounts without a code don't collide on the missing value.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "referralCode", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"referralCode": bson.M{"$type": "string"}}),
	})
	return err
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Account, error) {
	return getAccount(ctx, s.coll, id)
}

func getAccount(ctx context.Context, coll *mongo.Collection, id string) (*Account, error) {
	var a Account
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *MongoStore) FindByReferralCode(ctx context.Context, code string) (*Account, error) {
	return findByReferralCode(ctx, s.coll, code)
}

func findByReferralCode(ctx context.Context, coll *mongo.Collection, code string) (*Account, error) {
	// Sorted by _id so a uniqueness violation upstream still resolves to a
	// deterministic first match.
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	var a Account
	if err := coll.FindOne(ctx, bson.M{"referralCode": code}, opts).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *MongoStore) SetReferralCode(ctx context.Context, id, code string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"referralCode": code}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrReferralCodeTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) MarkExpired(ctx context.Context, id string, now time.Time) (bool, error) {
	now = now.UTC()
	res, err := s.coll.UpdateOne(ctx,
		bson.M{
			"_id":                   id,
			"isPro":                 true,
			"entitlement.status":    EntitlementExpiresAt,
			"entitlement.expiresAt": bson.M{"$lte": now},
		},
		bson.M{"$set": bson.M{"isPro": false, "expiredAt": now}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoStore) RevokeExpired(ctx context.Context, now time.Time) (int64, error) {
	now = now.UTC()
	// One transaction so a crash mid-sweep cannot partially revoke; accounts
	// missed by an aborted run keep access until the next run or an
	// on-demand evaluation.
	session, err := s.client.StartSession()
	if err != nil {
		return 0, err
	}
	defer session.EndSession(ctx)

	count, err := session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		res, err := s.coll.UpdateMany(ctx,
			bson.M{
				"isPro":                 true,
				"entitlement.status":    EntitlementExpiresAt,
				"entitlement.expiresAt": bson.M{"$lte": now},
			},
			bson.M{"$set": bson.M{"isPro": false, "expiredAt": now}},
		)
		if err != nil {
			return int64(0), err
		}
		return res.ModifiedCount, nil
	})
	if err != nil {
		return 0, err
	}
	return count.(int64), nil
}

func (s *MongoStore) ApplyPurchase(ctx context.Context, u PurchaseUpdate) error {
	return applyPurchase(ctx, s.coll, u)
}

func applyPurchase(ctx context.Context, coll *mongo.Collection, u PurchaseUpdate) error {
	verifiedAt := u.VerifiedAt.UTC()
	set := bson.M{
		"isPro":            u.IsPro,
		"entitlement":      u.Entitlement,
		"currentProduct":   u.CurrentProduct,
		"lastWebhookEvent": u.LastWebhookEvent,
		"lastVerified":     verifiedAt,
	}
	_, err := coll.UpdateOne(ctx,
		bson.M{"_id": u.AccountID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"createdAt": verifiedAt},
		},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Txn) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx, &mongoTxn{coll: s.coll})
	})
	return err
}

type mongoTxn struct {
	coll *mongo.Collection
}

func (t *mongoTxn) Get(ctx context.Context, id string) (*Account, error) {
	return getAccount(ctx, t.coll, id)
}

func (t *mongoTxn) FindByReferralCode(ctx context.Context, code string) (*Account, error) {
	return findByReferralCode(ctx, t.coll, code)
}

func (t *mongoTxn) Create(ctx context.Context, a *Account) error {
	if _, err := t.coll.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (t *mongoTxn) Update(ctx context.Context, a *Account) error {
	res, err := t.coll.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
