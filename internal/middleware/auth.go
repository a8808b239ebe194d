package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"hms-be/internal/domain"
	"hms-be/internal/service"
	"hms-be/pkg/errors"
	"hms-be/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// SessionContextKey is the key for the authenticated session in context
	SessionContextKey ContextKey = "session"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// SessionFromContext extracts the authenticated session from the request
// context, or nil when the request is unauthenticated
func SessionFromContext(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(SessionContextKey).(*domain.Session)
	return session
}

// Auth creates an authentication middleware validating bearer session tokens
func Auth(authService service.AuthService, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeErrorResponse(w, errors.NewAuthenticationError("Authorization header is required"), logger)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeErrorResponse(w, errors.NewAuthenticationError("Invalid authorization header format"), logger)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				writeErrorResponse(w, errors.NewAuthenticationError("Token is required"), logger)
				return
			}

			ctx := r.Context()
			session, err := authService.ValidateSessionToken(ctx, token)
			if err != nil {
				logger.WithError(err).Debug("Session validation failed")
				writeErrorResponse(w, errors.NewAuthenticationError("Invalid or expired session token"), logger)
				return
			}

			ctx = context.WithValue(ctx, SessionContextKey, session)
			r = r.WithContext(ctx)

			logger.WithField("user_id", session.UserID).Debug("User authenticated successfully")

			next.ServeHTTP(w, r)
		})
	}
}

// PermissionChecker is satisfied by the permission service
type PermissionChecker interface {
	CanUser(ctx context.Context, userID, code string, pctx domain.PermissionContext) bool
}

// RequirePermission creates a middleware that rejects requests whose session
// does not resolve the given permission code. The event context is taken from
// the route's {eventID} parameter, the organization context from the
// X-Organization-ID header.
func RequirePermission(checker PermissionChecker, code string, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := SessionFromContext(r.Context())
			if session == nil {
				writeErrorResponse(w, errors.NewAuthenticationError("Authentication required"), logger)
				return
			}

			pctx := domain.PermissionContext{
				EventID:        chi.URLParam(r, "eventID"),
				OrganizationID: r.Header.Get("X-Organization-ID"),
				SessionPerms:   session.Permissions,
			}

			if !checker.CanUser(r.Context(), session.UserID, code, pctx) {
				logger.WithFields(map[string]interface{}{
					"user_id":    session.UserID,
					"permission": code,
					"event_id":   pctx.EventID,
				}).Warn("Permission denied")
				writeErrorResponse(w, errors.NewAuthorizationError("Insufficient permissions"), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestID creates a middleware that adds a unique request ID to each request
func RequestID(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			r = r.WithContext(ctx)

			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r)
		})
	}
}

// writeErrorResponse writes an error response to the client
func writeErrorResponse(w http.ResponseWriter, appErr *errors.AppError, logger *logger.Logger) {
	logger.WithError(appErr).Debug("Request rejected")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	timestamp := time.Now().UTC().Format(time.RFC3339)
	w.Write([]byte(`{"error":{"type":"` + string(appErr.Type) + `","message":"` + appErr.Message + `","timestamp":"` + timestamp + `"}}`))
}
