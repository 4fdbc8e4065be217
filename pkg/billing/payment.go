package billing

import "time"

// Payment status values stored in the ledger.
const (
	PaymentStatusSuccessful = "successful"
)

// PaymentRecord is one row of the idempotency ledger. The processor transaction
// id is the primary key, so a redelivered webhook lands on the same record.
type PaymentRecord struct {
	TransactionID string    `bson:"_id" json:"transaction_id"`
	AccountID     string    `bson:"accountId" json:"account_id"`
	Provider      string    `bson:"provider" json:"provider"`
	EventType     string    `bson:"eventType" json:"event_type"`
	Status        string    `bson:"status" json:"status"`
	ProductID     string    `bson:"productId" json:"product_id"`
	Amount        float64   `bson:"amount" json:"amount"`
	Currency      string    `bson:"currency,omitempty" json:"currency,omitempty"`
	Payload       []byte    `bson:"payload,omitempty" json:"-"`
	CreatedAt     time.Time `bson:"createdAt" json:"created_at"`
}

// Settled reports whether the record represents a fully applied payment.
func (r *PaymentRecord) Settled() bool {
	return r != nil && r.Status == PaymentStatusSuccessful
}
