package usage

import (
	"context"
	"log/slog"
	"time"

	"github.com/sumquiz/entitlements/pkg/logger"
)

// Action is a quota-gated client action.
type Action string

const (
	ActionSummaries  Action = "summaries"
	ActionQuizzes    Action = "quizzes"
	ActionFlashcards Action = "flashcards"
)

// dailyLimits are fixed per-action caps. Unknown actions get a zero limit,
// so nothing unlisted can ever be recorded as allowed.
var dailyLimits = map[Action]int{
	ActionSummaries:  5,
	ActionQuizzes:    3,
	ActionFlashcards: 3,
}

// LimitFor returns the daily limit for an action, zero for unknown actions.
func LimitFor(action Action) int {
	return dailyLimits[action]
}

// Check is the result of a quota query.
type Check struct {
	CanPerform bool `json:"canPerform"`
	Current    int  `json:"current"`
	Limit      int  `json:"limit"`
}

// Store persists per-(account, day, action) counters.
type Store interface {
	// Count returns today's counter; a missing document counts as zero.
	Count(ctx context.Context, accountID, date string, action Action) (int, error)

	// Increment atomically adds one to the counter, creating the document
	// if absent. It must be a single atomic increment, not read-then-write,
	// to stay correct under concurrent calls for the same account.
	Increment(ctx context.Context, accountID, date string, action Action) error
}

// Enforcer implements server-side daily action limits. CanPerform is
// advisory; RecordAction is the point of truth for the counter, and blocking
// is the caller's responsibility based on the check result.
type Enforcer struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// NewEnforcer creates a quota enforcer. Panics on nil dependencies to fail
// fast during initialization.
func NewEnforcer(store Store, log *slog.Logger, opts ...Option) *Enforcer {
	if store == nil {
		panic("usage: store is required")
	}
	if log == nil {
		panic("usage: logger is required")
	}

	e := &Enforcer{store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Option configures the enforcer.
type Option func(*Enforcer)

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("usage: nil clock")
	}
	return func(e *Enforcer) { e.now = now }
}

// CanPerform reports whether the account is under today's limit for the action.
func (e *Enforcer) CanPerform(ctx context.Context, accountID string, action Action) (*Check, error) {
	limit := LimitFor(action)

	current, err := e.store.Count(ctx, accountID, DateKey(e.now()), action)
	if err != nil {
		return nil, err
	}

	return &Check{CanPerform: current < limit, Current: current, Limit: limit}, nil
}

// RecordAction increments today's counter for the action by exactly one.
func (e *Enforcer) RecordAction(ctx context.Context, accountID string, action Action) error {
	if err := e.store.Increment(ctx, accountID, DateKey(e.now()), action); err != nil {
		return err
	}
	e.log.InfoContext(ctx, "recorded action", logger.AccountID(accountID), slog.String("action", string(action)))
	return nil
}

// DateKey renders the UTC calendar date used as the counter key, so quotas
// roll over at the same instant on every instance.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
