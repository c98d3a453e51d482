package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"recipe_api/internal/common"
	"recipe_api/internal/domain/repository"
	"recipe_api/internal/platform/tokenstore"
)

type contextKey string

const (
	UserIDCtxKey    contextKey = "userID"
	UserStaffCtxKey contextKey = "userIsStaff"
	AuthTokenCtxKey contextKey = "authToken"
)

// Auth resolves the bearer token against the server-side token store and
// loads the owning account.
type Auth struct {
	tokens   tokenstore.TokenStore
	userRepo repository.UserRepository
}

func NewAuth(tokens tokenstore.TokenStore, userRepo repository.UserRepository) *Auth {
	return &Auth{tokens: tokens, userRepo: userRepo}
}

// Authenticator rejects requests without a valid, unrevoked token bound to
// an active account. On success the user id, staff flag and raw token are
// placed in the request context.
func (a *Auth) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			return
		}

		userID, err := a.tokens.UserID(r.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrUnauthorized) {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			} else {
				common.RespondWithError(w, http.StatusInternalServerError, "Failed to verify token")
			}
			return
		}

		user, err := a.userRepo.FindByID(r.Context(), userID)
		if err != nil || !user.IsActive {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, user.ID)
		ctx = context.WithValue(ctx, UserStaffCtxKey, user.IsStaff)
		ctx = context.WithValue(ctx, AuthTokenCtxKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StaffOnly gates the admin surface. Runs after Authenticator.
func (a *Auth) StaffOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isStaff, ok := r.Context().Value(UserStaffCtxKey).(bool)
		if !ok || !isStaff {
			common.RespondWithError(w, http.StatusForbidden, "Staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

// Helper to get the raw bearer token from context
func GetAuthTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(AuthTokenCtxKey).(string)
	return token, ok
}
