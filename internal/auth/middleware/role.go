package middleware

import (
	"context"
	"net/http"

	"github.com/taskapp/backend/internal/auth/service"
	"github.com/taskapp/backend/internal/middlewares"
	"go.uber.org/zap"
)

// AdminMiddleware validates the bearer access token and requires the admin role
func AdminMiddleware(tokenGenerator *service.TokenGenerator, users UserLookup, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := authenticate(w, r, tokenGenerator, users, logger)
			if !ok {
				return
			}

			if !user.IsAdmin() {
				middlewares.WriteError(w, http.StatusForbidden, "administrator access required")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
