// Package passwordreset sends rate-limited password reset emails. Each email
// address gets at most three resets per hour; the reset link itself comes
// from the identity provider.
package passwordreset

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sumquiz/entitlements/pkg/email"
	"github.com/sumquiz/entitlements/pkg/identity"
	"github.com/sumquiz/entitlements/pkg/logger"
	"github.com/sumquiz/entitlements/pkg/ratelimit"
)

// Rate limit parameters: three reset emails per address per hour.
const (
	Limit  = 3
	keyTag = "password_reset_"
)

var (
	ErrEmailRequired   = errors.New("email is required")
	ErrTooManyRequests = errors.New("too many password reset requests")
	ErrSendFailed      = errors.New("failed to send password reset email")
)

// RateLimitedError reports a rejected request and how long the caller should
// wait before retrying. It matches ErrTooManyRequests under errors.Is.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string { return ErrTooManyRequests.Error() }

func (e *RateLimitedError) Is(target error) bool { return target == ErrTooManyRequests }

// Service coordinates the limiter, the identity provider, and the mailer.
type Service struct {
	limiter *ratelimit.FixedWindow
	idp     identity.Provider
	sender  email.Sender
	log     *slog.Logger
}

func NewService(limiter *ratelimit.FixedWindow, idp identity.Provider, sender email.Sender, log *slog.Logger) *Service {
	if limiter == nil {
		panic("passwordreset: limiter is required")
	}
	if idp == nil {
		panic("passwordreset: identity provider is required")
	}
	if sender == nil {
		panic("passwordreset: email sender is required")
	}
	if log == nil {
		panic("passwordreset: logger is required")
	}
	return &Service{limiter: limiter, idp: idp, sender: sender, log: log}
}

// Request sends a reset email to addr if the per-address limit allows it.
// The limiter is consulted before any provider call, so rejected requests
// have no side effects.
func (s *Service) Request(ctx context.Context, addr string) error {
	addr = strings.TrimSpace(strings.ToLower(addr))
	if addr == "" {
		return ErrEmailRequired
	}

	res, err := s.limiter.Allow(ctx, keyTag+addr)
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if !res.Allowed {
		s.log.WarnContext(ctx, "password reset rate limit hit",
			slog.String("email", addr), slog.Duration("retry_after", res.RetryAfter()))
		return &RateLimitedError{RetryAfter: res.RetryAfter()}
	}

	link, err := s.idp.PasswordResetLink(ctx, addr)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to create password reset link",
			slog.String("email", addr), logger.Error(err))
		return errors.Join(ErrSendFailed, err)
	}

	msg, err := email.PasswordReset(addr, link)
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if err := s.sender.SendEmail(ctx, msg); err != nil {
		s.log.ErrorContext(ctx, "failed to send password reset email",
			slog.String("email", addr), logger.Error(err))
		return errors.Join(ErrSendFailed, err)
	}

	s.log.InfoContext(ctx, "password reset email sent", slog.String("email", addr))
	return nil
}
