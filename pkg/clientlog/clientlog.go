// Package clientlog persists crash reports submitted by clients. Persistence
// is best effort: a report that cannot be stored is still written to the
// server log, and the caller always gets a success response.
package clientlog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sumquiz/entitlements/pkg/logger"
)

// ErrMissingError rejects reports without an error description.
var ErrMissingError = errors.New("error description is required")

// Report is one client-side error report.
type Report struct {
	ID         string     `bson:"_id" json:"id"`
	AccountID  string     `bson:"accountId,omitempty" json:"account_id,omitempty"`
	Error      string     `bson:"error" json:"error"`
	StackTrace string     `bson:"stackTrace,omitempty" json:"stack_trace,omitempty"`
	Context    string     `bson:"context,omitempty" json:"context,omitempty"`
	UserAgent  string     `bson:"userAgent,omitempty" json:"user_agent,omitempty"`
	ClientIP   string     `bson:"clientIp,omitempty" json:"client_ip,omitempty"`
	ReportedAt *time.Time `bson:"reportedAt,omitempty" json:"reported_at,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"created_at"`
}

// Store persists reports.
type Store interface {
	Save(ctx context.Context, r Report) error
}

// Recorder validates, logs, and stores client error reports.
type Recorder struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

func NewRecorder(store Store, log *slog.Logger, opts ...Option) *Recorder {
	if store == nil {
		panic("clientlog: store is required")
	}
	if log == nil {
		panic("clientlog: logger is required")
	}
	r := &Recorder{store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record logs the report and tries to persist it. Storage failures are
// logged and swallowed so a broken reporting pipeline never breaks clients.
func (rec *Recorder) Record(ctx context.Context, r Report) error {
	if r.Error == "" {
		return ErrMissingError
	}

	r.ID = uuid.New().String()
	r.CreatedAt = rec.now().UTC()

	accountID := r.AccountID
	if accountID == "" {
		accountID = "anonymous"
	}
	rec.log.ErrorContext(ctx, "client error report",
		logger.AccountID(accountID),
		slog.String("client_error", r.Error),
		slog.String("context", r.Context))

	if err := rec.store.Save(ctx, r); err != nil {
		rec.log.ErrorContext(ctx, "failed to persist client error report", logger.Error(err))
	}
	return nil
}
