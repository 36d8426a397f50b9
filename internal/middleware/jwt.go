package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/accredian/referral-api/internal/auth"
)

type key string

const UserIDKey key = "user_id"

// GetUserID returns the authenticated user id stored by JWT, if any.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}

// JWT guards a route group with bearer-token auth. A missing Authorization
// header is 401; a present but unverifiable token (bad signature, expired,
// malformed) is 403. On success the user id is attached to the request context.
func JWT(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				jsonStatus(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			if tokenStr == "" {
				jsonStatus(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				jsonStatus(w, "invalid or expired token", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func jsonStatus(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
