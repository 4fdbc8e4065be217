package billing

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/sumquiz/entitlements/pkg/account"
)

const paymentsCollection = "payments"

// MongoStore keeps the payment ledger in MongoDB and settles payments in a
// multi-document transaction spanning the payments and accounts collections.
type MongoStore struct {
	client   *mongo.Client
	payments *mongo.Collection
	accounts *account.MongoStore
}

func NewMongoStore(db *mongo.Database, accounts *account.MongoStore) *MongoStore {
	if db == nil {
		panic("billing: mongo database is required")
	}
	if accounts == nil {
		panic("billing: account store is required")
	}
	return &MongoStore{
		client:   db.Client(),
		payments: db.Collection(paymentsCollection),
		accounts: accounts,
	}
}

func (s *MongoStore) GetPayment(ctx context.Context, transactionID string) (*PaymentRecord, error) {
	var rec PaymentRecord
	err := s.payments.FindOne(ctx, bson.M{"_id": transactionID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *MongoStore) FinalizePayment(ctx context.Context, rec PaymentRecord, update account.PurchaseUpdate) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		_, err := s.payments.ReplaceOne(ctx,
			bson.M{"_id": rec.TransactionID},
			rec,
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			return nil, err
		}
		if err := s.accounts.ApplyPurchase(ctx, update); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}
