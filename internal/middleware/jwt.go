package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type key string

const (
	userIDKey key = "user_id"
	holderKey key = "user_holder"
)

// userHolder lets outer middleware such as RequestLog see the user id that
// an inner JWTMiddleware resolved.
type userHolder struct{ id int }

func withUserHolder(ctx context.Context, h *userHolder) context.Context {
	return context.WithValue(ctx, holderKey, h)
}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (int, error)
}

// JWTMiddleware rejects requests without a valid "Authorization: Bearer"
// token and stores the token's user id in the request context.
func JWTMiddleware(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(tokenStr) == "" {
				unauthorized(w, "invalid authorization header")
				return
			}

			userID, err := v.Verify(strings.TrimSpace(tokenStr))
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			if h, ok := r.Context().Value(holderKey).(*userHolder); ok {
				h.id = userID
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the authenticated user id set by JWTMiddleware.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok && id > 0
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="blogspace"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
