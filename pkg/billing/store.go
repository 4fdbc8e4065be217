package billing

import (
	"context"

	"github.com/sumquiz/entitlements/pkg/account"
)

// Store persists the payment ledger and applies entitlement updates.
type Store interface {
	// GetPayment returns the ledger record for a processor transaction id.
	// Returns ErrPaymentNotFound when the transaction was never recorded.
	GetPayment(ctx context.Context, transactionID string) (*PaymentRecord, error)

	// FinalizePayment writes the ledger record and applies the purchase to
	// the account atomically. Either both writes land or neither does, so a
	// crash between them cannot leave a paid account without access or a
	// ledger entry that blocks redelivery of an unapplied payment.
	FinalizePayment(ctx context.Context, rec PaymentRecord, update account.PurchaseUpdate) error
}
