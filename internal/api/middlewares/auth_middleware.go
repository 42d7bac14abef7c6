package middlewares

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "user_id"

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

// TokenParser verifies a session token and returns the user id it was
// issued for. Satisfied by auth_services.AuthService.
type TokenParser interface {
	ParseAccessToken(token string) (string, error)
}

// AuthMiddleware authenticates via the HTTP-only access_token cookie,
// whose value carries the "Bearer <token>" scheme prefix.
func AuthMiddleware(auth TokenParser, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("access_token")
		if err != nil {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		value := cookie.Value
		if !strings.HasPrefix(value, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err := auth.ParseAccessToken(strings.TrimPrefix(value, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
