package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/services"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	// UserContextKey is the context key for the authenticated user
	UserContextKey ContextKey = "user"
	// RequestIDContextKey is the context key for the request id
	RequestIDContextKey ContextKey = "request_id"
)

// ClientIDHeader selects the tenant a request acts on.
const ClientIDHeader = "X-Client-ID"

var (
	errMissingToken = apperrors.New(apperrors.CodeUnauthorized, "authorization bearer token required")
	errAdminOnly    = apperrors.New(apperrors.CodeForbidden, "insufficient privileges")
)

// AuthenticationMiddleware provides authentication middleware
type AuthenticationMiddleware struct {
	logger   *logger.Logger
	authSvc  services.AuthenticationService
	authzSvc services.AuthorizationService
}

// NewAuthenticationMiddleware creates a new authentication middleware
func NewAuthenticationMiddleware(
	logger *logger.Logger,
	authSvc services.AuthenticationService,
	authzSvc services.AuthorizationService,
) *AuthenticationMiddleware {
	return &AuthenticationMiddleware{
		logger:   logger,
		authSvc:  authSvc,
		authzSvc: authzSvc,
	}
}

// RequireJWT loads the active user named by the bearer token
func (m *AuthenticationMiddleware) RequireJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			WriteError(w, r, m.logger, errMissingToken)
			return
		}

		user, err := m.authSvc.ValidateJWT(r.Context(), token)
		if err != nil {
			m.logger.WithRequest(GetRequestID(r.Context())).WithError(err).Warn("JWT validation failed")
			WriteError(w, r, m.logger, err)
			return
		}

		if st := stateFrom(r.Context()); st != nil {
			st.userID = user.ID
		}
		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireTenant resolves the client the request acts on and stores it in the
// context. Must run after RequireJWT.
func (m *AuthenticationMiddleware) RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			WriteError(w, r, m.logger, errMissingToken)
			return
		}

		requested := strings.TrimSpace(r.Header.Get(ClientIDHeader))
		if requested == "" {
			requested = strings.TrimSpace(r.URL.Query().Get("clientId"))
		}

		t, err := m.authzSvc.ResolveTenant(r.Context(), user, requested)
		if err != nil {
			WriteError(w, r, m.logger, err)
			return
		}

		if st := stateFrom(r.Context()); st != nil {
			st.clientID = t.ClientID
		}
		next.ServeHTTP(w, r.WithContext(tenant.WithContext(r.Context(), t)))
	})
}

// RequireAdmin rejects non-admin users
func (m *AuthenticationMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			WriteError(w, r, m.logger, errMissingToken)
			return
		}
		if !user.IsAdmin() {
			m.authzSvc.LogSecurityViolation(r.Context(), user, "role_access_denied", r.URL.Path)
			WriteError(w, r, m.logger, errAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	const bearerPrefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), true
}

// GetUserFromContext extracts the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
