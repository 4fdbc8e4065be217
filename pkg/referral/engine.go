package referral

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sumquiz/entitlements/pkg/account"
	"github.com/sumquiz/entitlements/pkg/identity"
	"github.com/sumquiz/entitlements/pkg/logger"
)

// SignUpInput is the signup request. ReferralCode is optional; whitespace-only
// codes are treated as absent.
type SignUpInput struct {
	Email        string
	Password     string
	DisplayName  string
	ReferralCode string
}

// SignUpResult identifies the created account.
type SignUpResult struct {
	UID   string
	Email string
}

// Engine creates a new account's identity and profile, applies a referral
// code, and updates the referrer's reward ladder. The document transaction is
// the unit of atomicity; the identity creation is a separate side effect that
// is deleted again if the transaction fails.
type Engine struct {
	accounts account.Store
	idp      identity.Provider
	log      *slog.Logger
	now      func() time.Time
}

// NewEngine creates a signup engine. Panics on nil dependencies to fail fast
// during initialization.
func NewEngine(accounts account.Store, idp identity.Provider, log *slog.Logger, opts ...Option) *Engine {
	if accounts == nil {
		panic("referral: account store is required")
	}
	if idp == nil {
		panic("referral: identity provider is required")
	}
	if log == nil {
		panic("referral: logger is required")
	}

	e := &Engine{accounts: accounts, idp: idp, log: log, now: time.Now}
	for _, opt := range opts {
		opt.applyEngine(e)
	}
	return e
}

// SignUp runs the two-phase signup protocol:
//  1. create the identity (irreversible outside the document store),
//  2. create the profile and apply the referral in one document transaction,
//  3. on transaction failure, delete the identity again and surface the error.
//
// An unknown referral code is not a failure: signup proceeds without a trial.
func (e *Engine) SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error) {
	if in.Email == "" || in.Password == "" || in.DisplayName == "" {
		return nil, ErrMissingFields
	}

	user, err := e.idp.CreateUser(ctx, in.Email, in.Password, in.DisplayName)
	if err != nil {
		// No document writes happened yet, nothing to compensate.
		return nil, err
	}

	err = e.accounts.RunTransaction(ctx, func(ctx context.Context, tx account.Txn) error {
		now := e.now().UTC()
		a := account.New(user.UID, in.Email, in.DisplayName, now)

		if code := NormalizeCode(in.ReferralCode); code != "" {
			if err := e.applyReferral(ctx, tx, a, code, now); err != nil {
				return err
			}
		}

		return tx.Create(ctx, a)
	})
	if err != nil {
		e.compensate(ctx, user.UID, err)
		return nil, errors.Join(ErrSignUpFailed, err)
	}

	e.log.InfoContext(ctx, "account created", logger.AccountID(user.UID), slog.String("email", in.Email))
	return &SignUpResult{UID: user.UID, Email: in.Email}, nil
}

// applyReferral grants the new account its trial and advances the referrer's
// ladder, all against the same transaction.
func (e *Engine) applyReferral(ctx context.Context, tx account.Txn, a *account.Account, code string, now time.Time) error {
	referrer, err := tx.FindByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			// Best effort: an unknown code grants nothing.
			e.log.InfoContext(ctx, "referral code not found", slog.String("code", code), logger.AccountID(a.ID))
			return nil
		}
		return err
	}

	if referrer.ID == a.ID {
		e.log.WarnContext(ctx, "self-referral rejected", logger.AccountID(a.ID), slog.String("code", code))
		return nil
	}

	a.GrantReferralTrial(code, referrer.ID, now)

	rewarded := referrer.RecordReferral(now)
	if err := tx.Update(ctx, referrer); err != nil {
		return err
	}

	e.log.InfoContext(ctx, "referral applied",
		slog.String("code", code), logger.AccountID(a.ID),
		slog.String("referrer_id", referrer.ID), slog.Bool("rewarded", rewarded))
	return nil
}

// compensate deletes the orphaned identity after a failed transaction. If the
// delete itself fails the identity needs out-of-band cleanup; both errors are
// logged and the original failure is still surfaced by the caller.
func (e *Engine) compensate(ctx context.Context, uid string, cause error) {
	if err := e.idp.DeleteUser(ctx, uid); err != nil {
		e.log.ErrorContext(ctx, "failed to roll back identity after signup failure",
			logger.AccountID(uid), slog.Any("rollback_error", err), slog.Any("cause", cause))
		return
	}
	e.log.InfoContext(ctx, "rolled back identity after signup failure",
		logger.AccountID(uid), slog.Any("cause", cause))
}

// NormalizeCode canonicalizes a user-supplied referral code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
