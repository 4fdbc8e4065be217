package passwordreset_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumquiz/entitlements/pkg/email"
	"github.com/sumquiz/entitlements/pkg/identity"
	"github.com/sumquiz/entitlements/pkg/passwordreset"
	"github.com/sumquiz/entitlements/pkg/ratelimit"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []email.Message
	fail error
}

func (s *recordingSender) SendEmail(ctx context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, msg)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, sender *recordingSender) (*passwordreset.Service, *identity.MemoryProvider) {
	t.Helper()
	limiter, err := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(), passwordreset.Limit, time.Hour)
	require.NoError(t, err)
	idp := identity.NewMemoryProvider()
	return passwordreset.NewService(limiter, idp, sender, discardLogger()), idp
}

func TestRequestSendsEmail(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	svc, idp := newService(t, sender)

	_, err := idp.CreateUser(t.Context(), "user@example.com", "pw", "User")
	require.NoError(t, err)

	require.NoError(t, svc.Request(t.Context(), "  User@Example.COM "))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "user@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].BodyHTML, "reset")
}

func TestRequestRateLimited(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	svc, idp := newService(t, sender)

	_, err := idp.CreateUser(t.Context(), "user@example.com", "pw", "User")
	require.NoError(t, err)

	for range passwordreset.Limit {
		require.NoError(t, svc.Request(t.Context(), "user@example.com"))
	}

	err = svc.Request(t.Context(), "user@example.com")
	assert.ErrorIs(t, err, passwordreset.ErrTooManyRequests)
	assert.Len(t, sender.sent, passwordreset.Limit)

	var limited *passwordreset.RateLimitedError
	require.ErrorAs(t, err, &limited)
	assert.Greater(t, limited.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, limited.RetryAfter, time.Hour)

	// A different address is unaffected.
	_, err = idp.CreateUser(t.Context(), "other@example.com", "pw", "Other")
	require.NoError(t, err)
	assert.NoError(t, svc.Request(t.Context(), "other@example.com"))
}

func TestRequestEmptyEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, &recordingSender{})
	assert.ErrorIs(t, svc.Request(t.Context(), "   "), passwordreset.ErrEmailRequired)
}

func TestRequestUnknownEmailFails(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	svc, _ := newService(t, sender)

	err := svc.Request(t.Context(), "ghost@example.com")
	assert.ErrorIs(t, err, passwordreset.ErrSendFailed)
	assert.Empty(t, sender.sent)
}

func TestRequestSenderFailureSurfaced(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{fail: assert.AnError}
	svc, idp := newService(t, sender)

	_, err := idp.CreateUser(t.Context(), "user@example.com", "pw", "User")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Request(t.Context(), "user@example.com"), passwordreset.ErrSendFailed)
}
