package middleware

import (
	"context"
	"net/http"

	"yamdb/internal/data/entity"
	"yamdb/pkg/auth"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

// TokenValidator parses and verifies bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// UserFinder loads the account behind a token subject.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
}

// Authenticate resolves an optional bearer token into a principal. Requests
// without an Authorization header pass through anonymously; a header that
// does not resolve to an active user is rejected with 401.
func Authenticate(tokens TokenValidator, users UserFinder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := auth.TokenFromHeader(authHeader)
			if err != nil {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				logger.Warn("Invalid or expired token", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			// Role is read from the database so demotions apply immediately.
			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to load token user", zap.Int64("user_id", userID), zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if user == nil || !user.IsActive {
				logger.Warn("Token for missing or inactive user", zap.Int64("user_id", userID))
				utils.ResponseUnauthorized(w, "User not found or inactive")
				return
			}

			ctx := utils.SetUserContext(r.Context(), utils.Principal{
				UserID:      user.ID,
				Username:    user.Username,
				Role:        string(user.Role),
				IsSuperuser: user.IsSuperuser,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetPrincipalFromContext(r.Context()); !ok {
			utils.ResponseUnauthorized(w, "Authentication credentials were not provided")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin allows only admins and superusers.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := utils.GetPrincipalFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication credentials were not provided")
				return
			}

			if !p.IsAdmin() {
				logger.Warn("Admin check: non-admin access attempt",
					zap.Int64("user_id", p.UserID),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
