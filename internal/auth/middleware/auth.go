package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskapp/backend/internal/apperrors"
	"github.com/taskapp/backend/internal/auth/service"
	"github.com/taskapp/backend/internal/middlewares"
	"github.com/taskapp/backend/internal/models"
	"go.uber.org/zap"
)

type contextKey string

const userKey contextKey = "user"

// UserLookup loads the user a token was issued to
type UserLookup interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// AuthMiddleware validates the bearer access token and loads its user into the request context
func AuthMiddleware(tokenGenerator *service.TokenGenerator, users UserLookup, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := authenticate(w, r, tokenGenerator, users, logger)
			if !ok {
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate writes a 401 response and returns false when the request carries no usable token
func authenticate(w http.ResponseWriter, r *http.Request, tokenGenerator *service.TokenGenerator, users UserLookup, logger *zap.Logger) (*models.User, bool) {
	token := bearerToken(r)
	if token == "" {
		middlewares.WriteError(w, http.StatusUnauthorized, "token is missing")
		return nil, false
	}

	userID, err := tokenGenerator.ValidateAccessToken(token)
	if err != nil {
		middlewares.WriteError(w, http.StatusUnauthorized, "token is invalid")
		return nil, false
	}

	user, err := users.GetByID(r.Context(), userID)
	if err != nil {
		// Deleted users and lookup failures both end the request without detail
		if !apperrors.Is(err, apperrors.KindNotFound) {
			logger.Error("failed to load token user", zap.Int("userId", userID), zap.Error(err))
		}
		middlewares.WriteError(w, http.StatusUnauthorized, "token is invalid")
		return nil, false
	}

	return user, true
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// GetUser retrieves the authenticated user from context
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// GetUserID retrieves the authenticated user ID from context
func GetUserID(ctx context.Context) (int, bool) {
	user, ok := GetUser(ctx)
	if !ok {
		return 0, false
	}
	return user.ID, true
}

// WithUser returns a copy of ctx carrying user
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
