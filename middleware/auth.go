package middleware

import (
	"context"
	"net/http"
	"strings"

	"coedit/pkg/apperr"
	"coedit/pkg/httpjson"
	"coedit/pkg/logger"
	"coedit/pkg/token"
)

type contextKey string

const UserIDKey contextKey = "userID"

// AuthMiddleware gates a handler behind a verified bearer token and puts the
// caller's user id into the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// For WebSockets, tokens are often passed in the query string
		// because the browser's WebSocket API doesn't support custom headers.
		tokenString := r.URL.Query().Get("token")

		// Fallback to the Authorization header for regular API calls.
		if tokenString == "" {
			authHeader := r.Header.Get("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			httpjson.Error(w, apperr.Unauthenticated("Unauthorized"))
			return
		}

		userID, err := token.Parse(tokenString)
		if err != nil {
			logger.Sugar.Debugf("Rejected token: %v", err)
			httpjson.Error(w, apperr.Unauthenticated("Invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
