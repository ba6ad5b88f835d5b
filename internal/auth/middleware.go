package auth

import (
	"context"
	"net/http"

	"github.com/Harmonybod/Event-Ticketing-System/internal/utils"
)

type contextKey string

const officerKey contextKey = "officer"

// Middleware guards the officer console routes. Every request must carry
// a valid bearer token issued by the login endpoint.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := ExtractTokenFromRequest(r)
			if err != nil {
				utils.ErrorResponse(w, http.StatusUnauthorized, err.Error())
				return
			}

			claims, err := VerifyOfficerToken(secret, tokenString)
			if err != nil {
				utils.ErrorResponse(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), officerKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Officer returns the authenticated officer's username from the context.
func Officer(ctx context.Context) string {
	if name, ok := ctx.Value(officerKey).(string); ok {
		return name
	}
	return ""
}
