package referral

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"

	"github.com/sumquiz/entitlements/pkg/account"
	"github.com/sumquiz/entitlements/pkg/logger"
)

const (
	codeLength   = 8
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxAttempts  = 10
)

// CodeGenerator lazily assigns each account a globally unique referral code.
type CodeGenerator struct {
	accounts account.Store
	log      *slog.Logger
	newCode  func() string
}

// NewCodeGenerator creates a code generator. Panics on nil dependencies to
// fail fast during initialization.
func NewCodeGenerator(accounts account.Store, log *slog.Logger, opts ...Option) *CodeGenerator {
	if accounts == nil {
		panic("referral: account store is required")
	}
	if log == nil {
		panic("referral: logger is required")
	}

	g := &CodeGenerator{accounts: accounts, log: log, newCode: randomCode}
	for _, opt := range opts {
		opt.applyCodeGenerator(g)
	}
	return g
}

// Generate returns the account's referral code, creating one if absent.
// It is idempotent: repeated calls return the same code. Candidate codes are
// checked for uniqueness and retried on collision; the unique store index
// closes the race between concurrent generators.
func (g *CodeGenerator) Generate(ctx context.Context, uid string) (string, error) {
	a, err := g.accounts.Get(ctx, uid)
	if err != nil {
		return "", err
	}
	if a.ReferralCode != "" {
		return a.ReferralCode, nil
	}

	for range maxAttempts {
		code := g.newCode()

		if _, err := g.accounts.FindByReferralCode(ctx, code); err == nil {
			continue // taken
		} else if !errors.Is(err, account.ErrNotFound) {
			return "", err
		}

		err := g.accounts.SetReferralCode(ctx, uid, code)
		if errors.Is(err, account.ErrReferralCodeTaken) {
			continue // lost the race to a concurrent generator
		}
		if err != nil {
			return "", err
		}

		g.log.InfoContext(ctx, "generated referral code", logger.AccountID(uid), slog.String("code", code))
		return code, nil
	}

	return "", ErrCodeGenerationExhausted
}

func randomCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}
