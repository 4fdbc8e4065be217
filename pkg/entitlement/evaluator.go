package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sumquiz/entitlements/pkg/account"
	"github.com/sumquiz/entitlements/pkg/logger"
)

// Status is the caller-visible subscription state.
type Status string

const (
	StatusLifetime Status = "lifetime"
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
	StatusNotFound Status = "not_found"
	// StatusNone reports an account that never had a subscription or trial.
	// The legacy schema could not tell this apart from lifetime access; the
	// tagged entitlement can, so it is reported honestly.
	StatusNone Status = "none"
)

// Evaluation is the result of checking an account's entitlement.
type Evaluation struct {
	Status    Status     `json:"status"`
	IsPro     bool       `json:"isPro"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	ExpiredAt *time.Time `json:"expiredAt,omitempty"`
}

// Evaluator computes the current Pro status from stored expiry data. Reading
// a lapsed account revokes its access in the same call, so any account
// queried before the sweep reaches it self-heals.
type Evaluator struct {
	store account.Store
	log   *slog.Logger
	now   func() time.Time
}

// NewEvaluator creates an Evaluator. Panics on nil dependencies to fail fast
// during initialization.
func NewEvaluator(store account.Store, log *slog.Logger, opts ...Option) *Evaluator {
	if store == nil {
		panic("entitlement: account store is required")
	}
	if log == nil {
		panic("entitlement: logger is required")
	}

	e := &Evaluator{store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt.applyEvaluator(e)
	}
	return e
}

// Evaluate returns the account's current entitlement state. A lapsed timed
// entitlement triggers exactly one conditional revocation write; subsequent
// reads see isPro=false and skip the write.
func (e *Evaluator) Evaluate(ctx context.Context, uid string) (*Evaluation, error) {
	a, err := e.store.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return &Evaluation{Status: StatusNotFound}, nil
		}
		return nil, err
	}

	switch a.Entitlement.Status {
	case account.EntitlementLifetime:
		return &Evaluation{Status: StatusLifetime, IsPro: true}, nil

	case account.EntitlementExpiresAt:
		now := e.now().UTC()
		if a.Entitlement.ExpiresAt.After(now) {
			return &Evaluation{Status: StatusActive, IsPro: true, ExpiresAt: a.Entitlement.ExpiresAt}, nil
		}

		if a.IsPro {
			if _, err := e.store.MarkExpired(ctx, uid, now); err != nil {
				return nil, err
			}
			e.log.InfoContext(ctx, "revoked pro access, subscription expired", logger.AccountID(uid))
		}
		expiredAt := now
		if a.ExpiredAt != nil {
			expiredAt = *a.ExpiredAt
		}
		return &Evaluation{Status: StatusExpired, ExpiredAt: &expiredAt}, nil

	default:
		return &Evaluation{Status: StatusNone}, nil
	}
}
