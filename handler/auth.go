package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/sumquiz/entitlements/pkg/apierror"
	"github.com/sumquiz/entitlements/pkg/identity"
)

type uidContextKey struct{}

// UIDFromContext returns the authenticated account id, empty when the
// request carried no valid token.
func UIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(uidContextKey{}).(string)
	return uid
}

func withUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, uidContextKey{}, uid)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// authenticate verifies "Authorization: Bearer <idToken>" against the
// identity provider. require controls whether an absent or invalid token
// rejects the request or just leaves the context anonymous.
func authenticate(idp identity.Provider, require bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if require {
					writeJSON(w, http.StatusUnauthorized,
						apierror.Unauthenticated("authentication required"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			uid, err := idp.VerifyIDToken(r.Context(), token)
			if err != nil {
				if require {
					writeJSON(w, http.StatusUnauthorized,
						apierror.Unauthenticated("invalid token"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUID(r.Context(), uid)))
		})
	}
}

// RequireAuth rejects requests without a valid ID token.
func RequireAuth(idp identity.Provider) func(http.Handler) http.Handler {
	return authenticate(idp, true)
}

// OptionalAuth attaches the account id when a valid token is present and
// passes the request through anonymously otherwise.
func OptionalAuth(idp identity.Provider) func(http.Handler) http.Handler {
	return authenticate(idp, false)
}
