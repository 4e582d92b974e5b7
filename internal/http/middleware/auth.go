package middleware

import (
	"context"
	"net/http"

	"github.com/tendant/simple-orgs/internal/httputil"
	"github.com/tendant/simple-orgs/pkg/auth"
)

type contextKey string

// IdentityKey is the context key for the verified token identity.
const IdentityKey contextKey = "identity"

// TokenVerifier verifies access tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// Auth creates middleware that requires a valid bearer access token and
// stores its identity in the request context.
func Auth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := httputil.BearerToken(r)
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "missing authorization")
				return
			}

			identity, err := tokens.Verify(tokenString)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity extracts the verified token identity from the request context.
func GetIdentity(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*auth.Identity)
	return identity, ok && identity != nil
}
