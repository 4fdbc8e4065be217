package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumquiz/entitlements/handler"
	"github.com/sumquiz/entitlements/pkg/account"
	"github.com/sumquiz/entitlements/pkg/billing"
	"github.com/sumquiz/entitlements/pkg/clientlog"
	"github.com/sumquiz/entitlements/pkg/email"
	"github.com/sumquiz/entitlements/pkg/entitlement"
	"github.com/sumquiz/entitlements/pkg/identity"
	"github.com/sumquiz/entitlements/pkg/passwordreset"
	"github.com/sumquiz/entitlements/pkg/ratelimit"
	"github.com/sumquiz/entitlements/pkg/referral"
	"github.com/sumquiz/entitlements/pkg/usage"
)

type env struct {
	router   http.Handler
	accounts *account.MemoryStore
	idp      *identity.MemoryProvider
	reports  *clientlog.MemoryStore
}

type nullSender struct{}

func (nullSender) SendEmail(context.Context, email.Message) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEnv(t *testing.T) *env {
	t.Helper()

	log := discardLogger()
	accounts := account.NewMemoryStore()
	idp := identity.NewMemoryProvider()
	reports := clientlog.NewMemoryStore()

	limiter, err := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(), passwordreset.Limit, time.Hour)
	require.NoError(t, err)

	payments := billing.NewProcessor(billing.NewMemoryStore(accounts), billing.DefaultCatalog(), log)
	payments.Register(billing.NewBearerProvider(billing.BearerConfig{WebhookSecret: "hook-secret"}, log))

	router := handler.New(handler.Deps{
		Identity:       idp,
		Evaluator:      entitlement.NewEvaluator(accounts, log),
		Signup:         referral.NewEngine(accounts, idp, log),
		Codes:          referral.NewCodeGenerator(accounts, log),
		Usage:          usage.NewEnforcer(usage.NewMemoryStore(), log),
		PasswordReset:  passwordreset.NewService(limiter, idp, nullSender{}, log),
		ClientErrors:   clientlog.NewRecorder(reports, log),
		Payments:       payments,
		FlutterwaveKey: "FLWPUBK_TEST-abc",
		Log:            log,
	})

	return &env{router: router, accounts: accounts, idp: idp, reports: reports}
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// signUp creates an account through the API and returns its uid. The memory
// identity provider accepts the uid itself as an ID token.
func (e *env) signUp(t *testing.T, emailAddr string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/v1/signup", "", map[string]string{
		"email":       emailAddr,
		"password":    "secret123",
		"displayName": "Test User",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool   `json:"success"`
		UID     string `json:"uid"`
		Email   string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.UID)
	require.Equal(t, emailAddr, resp.Email)
	return resp.UID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestServerTime(t *testing.T) {
	t.Parallel()

	rec := newEnv(t).do(t, http.MethodGet, "/v1/time", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[struct {
		ServerTime  string `json:"serverTime"`
		TimestampMs int64  `json:"timestampMs"`
	}](t, rec)

	parsed, err := time.Parse(time.RFC3339Nano, resp.ServerTime)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, time.Minute)
	assert.InDelta(t, time.Now().UnixMilli(), resp.TimestampMs, float64(time.Minute.Milliseconds()))
}

func TestSubscriptionRequiresIdentity(t *testing.T) {
	t.Parallel()

	rec := newEnv(t).do(t, http.MethodGet, "/v1/subscription", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubscriptionStatuses(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	uid := e.signUp(t, "user@example.com")

	rec := e.do(t, http.MethodGet, "/v1/subscription", uid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[struct {
		Status string `json:"status"`
		IsPro  bool   `json:"isPro"`
	}](t, rec)
	assert.Equal(t, "none", resp.Status)
	assert.False(t, resp.IsPro)

	// Unknown uid via query parameter reports not_found.
	rec = e.do(t, http.MethodGet, "/v1/subscription?uid=ghost", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "not_found", decode[struct {
		Status string `json:"status"`
	}](t, rec).Status)
}

func TestSignUpValidation(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/v1/signup", "", map[string]string{"email": "x@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", decode[struct {
		Kind string `json:"kind"`
	}](t, rec).Kind)
}

func TestSignUpWithReferral(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	referrerUID := e.signUp(t, "referrer@example.com")

	rec := e.do(t, http.MethodPost, "/v1/referral/code", referrerUID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	code := decode[struct {
		Code string `json:"code"`
	}](t, rec).Code
	require.Regexp(t, `^[A-Z0-9]{8}$`, code)

	rec = e.do(t, http.MethodPost, "/v1/signup", "", map[string]string{
		"email":        "friend@example.com",
		"password":     "secret123",
		"displayName":  "Friend",
		"referralCode": code,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var friendUID = decode[struct {
		UID string `json:"uid"`
	}](t, rec).UID

	friend, err := e.accounts.Get(t.Context(), friendUID)
	require.NoError(t, err)
	assert.True(t, friend.IsPro)
	assert.Equal(t, code, friend.AppliedReferralCode)

	// The new account holds a trial, so the subscription endpoint says active.
	rec = e.do(t, http.MethodGet, "/v1/subscription", friendUID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "active", decode[struct {
		Status string `json:"status"`
	}](t, rec).Status)
}

func TestReferralCodeRequiresAuth(t *testing.T) {
	t.Parallel()

	rec := newEnv(t).do(t, http.MethodPost, "/v1/referral/code", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = newEnv(t).do(t, http.MethodPost, "/v1/referral/code", "forged-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUsageQuota(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	uid := e.signUp(t, "user@example.com")

	rec := e.do(t, http.MethodGet, "/v1/usage/quizzes", uid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	check := decode[struct {
		CanPerform bool `json:"canPerform"`
		Current    int  `json:"current"`
		Limit      int  `json:"limit"`
	}](t, rec)
	assert.True(t, check.CanPerform)
	assert.Equal(t, 0, check.Current)
	assert.Equal(t, 3, check.Limit)

	for range 3 {
		rec = e.do(t, http.MethodPost, "/v1/usage/quizzes", uid, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = e.do(t, http.MethodGet, "/v1/usage/quizzes", uid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	check = decode[struct {
		CanPerform bool `json:"canPerform"`
		Current    int  `json:"current"`
		Limit      int  `json:"limit"`
	}](t, rec)
	assert.False(t, check.CanPerform)
	assert.Equal(t, 3, check.Current)

	// Unknown actions always report a zero limit.
	rec = e.do(t, http.MethodGet, "/v1/usage/teleport", uid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[struct {
		CanPerform bool `json:"canPerform"`
	}](t, rec).CanPerform)
}

func TestPasswordResetEndpoint(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.signUp(t, "user@example.com")

	rec := e.do(t, http.MethodPost, "/v1/password/reset", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for range passwordreset.Limit {
		rec = e.do(t, http.MethodPost, "/v1/password/reset", "", map[string]string{"email": "user@example.com"})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = e.do(t, http.MethodPost, "/v1/password/reset", "", map[string]string{"email": "user@example.com"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "resource_exhausted", decode[struct {
		Kind string `json:"kind"`
	}](t, rec).Kind)

	retryAfter, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, int(time.Hour.Seconds()))
}

func TestLogClientError(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/v1/errors", "", map[string]string{
		"error":      "NullPointerException",
		"stackTrace": "at main.dart:10",
		"context":    "summary_screen",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	reports := e.reports.Reports()
	require.Len(t, reports, 1)
	assert.Empty(t, reports[0].AccountID)
	assert.Equal(t, "NullPointerException", reports[0].Error)

	rec = e.do(t, http.MethodPost, "/v1/errors", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentKeys(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	uid := e.signUp(t, "user@example.com")

	rec := e.do(t, http.MethodGet, "/v1/payments/keys", uid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "FLWPUBK_TEST-abc", decode[struct {
		FlutterwaveKey string `json:"flutterwaveKey"`
	}](t, rec).FlutterwaveKey)

	rec = e.do(t, http.MethodGet, "/v1/payments/keys", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPaymentWebhook(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	uid := e.signUp(t, "buyer@example.com")

	payload := map[string]any{
		"event_type":     "charge.completed",
		"transaction_id": "tx-100",
		"status":         "successful",
		"product_id":     "sumquiz_pro_monthly",
		"customer":       map[string]any{"id": uid},
	}

	post := func(body any, token string) *httptest.ResponseRecorder {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payments/payment", bytes.NewReader(raw))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.router.ServeHTTP(rec, req)
		return rec
	}

	// Wrong shared secret is rejected before any write.
	rec := post(payload, "wrong-secret")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(payload, "hook-secret")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "processed", decode[struct {
		Status string `json:"status"`
	}](t, rec).Status)

	acc, err := e.accounts.Get(t.Context(), uid)
	require.NoError(t, err)
	assert.True(t, acc.IsPro)

	// Redelivery acknowledges without reapplying.
	rec = post(payload, "hook-secret")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "duplicate", decode[struct {
		Status string `json:"status"`
	}](t, rec).Status)

	// Unknown product is a client error.
	payload["transaction_id"] = "tx-101"
	payload["product_id"] = "mystery_box"
	rec = post(payload, "hook-secret")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Wrong method on the webhook route.
	req := httptest.NewRequest(http.MethodGet, "/webhooks/payments/payment", nil)
	mrec := httptest.NewRecorder()
	e.router.ServeHTTP(mrec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, mrec.Code)
}
