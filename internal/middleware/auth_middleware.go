package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	ContextKeyAuthContext ContextKey = "authContext"
)

// Authenticator turns a bearer token into the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.AuthContext, error)
}

// AuthMiddleware handles JWT authentication and sets user context
type AuthMiddleware struct {
	auth Authenticator
	log  *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(auth Authenticator, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, log: logger.OrNop(log).Named("auth.middleware")}
}

// JWTAuth verifies the bearer token and stores the AuthContext on the request.
// An empty requiredPermission only requires authentication; handlers can make
// finer checks with AuthContext.HasPermission.
func (m *AuthMiddleware) JWTAuth(next http.HandlerFunc, requiredPermission string) http.HandlerFunc {
	if requiredPermission == "" {
		return m.RequireAny(next)
	}
	return m.RequireAny(next, requiredPermission)
}

// RequireAny authenticates the caller and lets the request through if any of
// permissions is granted. No permissions means authentication only.
func (m *AuthMiddleware) RequireAny(next http.HandlerFunc, permissions ...models.Permission) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			utils.RespondWithAppError(w, apperror.New(apperror.KindAuthentication, "Missing or malformed authorization header"))
			return
		}

		ac, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			logger.WithContext(r.Context(), m.log).Info("request not authenticated",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			utils.RespondWithAppError(w, err)
			return
		}

		if len(permissions) > 0 && !ac.Permissions.HasAny(permissions...) {
			logger.WithContext(r.Context(), m.log).Info("permission denied",
				zap.String("user_id", ac.UserID),
				zap.Strings("required", permissions),
			)
			utils.RespondWithAppError(w, apperror.Forbidden("You do not have sufficient permissions to access this resource"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), ac)))
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// WithAuthContext stores ac on ctx.
func WithAuthContext(ctx context.Context, ac *models.AuthContext) context.Context {
	return context.WithValue(ctx, ContextKeyAuthContext, ac)
}

// GetAuthContext retrieves the AuthContext from the request's context
func GetAuthContext(r *http.Request) (*models.AuthContext, error) {
	val := r.Context().Value(ContextKeyAuthContext)
	authContext, ok := val.(*models.AuthContext)
	if !ok || authContext == nil {
		return nil, fmt.Errorf("authentication context not found or invalid in request")
	}
	return authContext, nil
}
