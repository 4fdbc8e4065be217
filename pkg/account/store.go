package account

import (
	"context"
	"time"
)

// Txn exposes the account operations available inside a store transaction.
// Reads observe a consistent snapshot; writes become visible atomically when
// the transaction commits.
type Txn interface {
	Get(ctx context.Context, id string) (*Account, error)
	FindByReferralCode(ctx context.Context, code string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	Update(ctx context.Context, a *Account) error
}

// Store is the durable account collection. Implementations must provide
// per-transaction isolation with retry-on-conflict semantics; callers never
// take locks of their own.
type Store interface {
	Get(ctx context.Context, id string) (*Account, error)
	FindByReferralCode(ctx context.Context, code string) (*Account, error)

	// SetReferralCode stamps a lazily generated code on an existing account.
	SetReferralCode(ctx context.Context, id, code string) error

	// MarkExpired conditionally revokes Pro access for one account whose
	// timed entitlement lapsed before now. It is a single compare-and-set:
	// it reports true only if this call performed the write, so a stale
	// read triggers at most one mutation.
	MarkExpired(ctx context.Context, id string, now time.Time) (bool, error)

	// RevokeExpired revokes Pro access for every account whose timed
	// entitlement lapsed before now, as one atomic batch. Returns the
	// number of revoked accounts.
	RevokeExpired(ctx context.Context, now time.Time) (int64, error)

	// ApplyPurchase merge-writes the entitlement effect of a verified
	// payment, creating the document if it does not exist yet.
	ApplyPurchase(ctx context.Context, u PurchaseUpdate) error

	// RunTransaction executes fn atomically. If fn returns an error the
	// transaction is discarded and the error is returned unchanged.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Txn) error) error
}
