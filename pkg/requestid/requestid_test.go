package requestid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumquiz/entitlements/pkg/requestid"
)

func TestMiddlewareGeneratesID(t *testing.T) {
	t.Parallel()

	var seen string
	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(requestid.Header))
}

func TestMiddlewareReusesValidHeader(t *testing.T) {
	t.Parallel()

	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "client-id-1", requestid.FromContext(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestid.Header, "client-id-1")
	h.ServeHTTP(httptest.NewRecorder(), req)
}

func TestMiddlewareRejectsGarbageHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   string
	}{
		{"spaces", "not a valid id"},
		{"control characters", "abc\ndef"},
		{"too long", strings.Repeat("a", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got := requestid.FromContext(r.Context())
				assert.NotEqual(t, tt.id, got)
				assert.NotEmpty(t, got)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(requestid.Header, tt.id)
			h.ServeHTTP(httptest.NewRecorder(), req)
		})
	}
}

func TestLogExtractor(t *testing.T) {
	t.Parallel()

	ex := requestid.LogExtractor()

	_, ok := ex(t.Context())
	assert.False(t, ok)

	attr, ok := ex(requestid.WithContext(t.Context(), "req-7"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "req-7", attr.Value.String())
}
