package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const identityKey ctxKey = 0

// Identity is the authenticated caller, decoded from an already-issued
// bearer token at the boundary. Core operations receive the ID explicitly
// and never look at the token themselves.
type Identity struct {
	UserID string
	Role   string // "worker" | "employer"
}

// CallerIdentity returns the identity attached by RequireAuth.
func CallerIdentity(r *http.Request) Identity {
	id, _ := r.Context().Value(identityKey).(Identity)
	return id
}

// RequireAuth verifies the Authorization bearer token (HMAC) and stores the
// caller identity on the request context. Missing or invalid tokens get 401.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	keyFunc := func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				WriteProblem(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			claims := jwt.MapClaims{}
			if _, err := jwt.ParseWithClaims(raw, claims, keyFunc); err != nil {
				WriteProblem(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			id := Identity{}
			if sub, err := claims.GetSubject(); err == nil {
				id.UserID = sub
			}
			if role, ok := claims["role"].(string); ok {
				id.Role = role
			}
			if id.UserID == "" {
				WriteProblem(w, http.StatusUnauthorized, "unauthorized", "token has no subject")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
