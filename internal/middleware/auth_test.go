package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hms-be/internal/domain"
	"hms-be/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	session *domain.Session
	err     error
}

func (f *fakeAuthService) ValidateSessionToken(ctx context.Context, token string) (*domain.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

type fakeChecker struct {
	allow    bool
	lastCode string
	lastPctx domain.PermissionContext
}

func (f *fakeChecker) CanUser(ctx context.Context, userID, code string, pctx domain.PermissionContext) bool {
	f.lastCode = code
	f.lastPctx = pctx
	return f.allow
}

func TestAuthMiddleware(t *testing.T) {
	log := logger.NewNop()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		require.NotNil(t, session)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token", func(t *testing.T) {
		auth := &fakeAuthService{session: &domain.Session{UserID: "user-1"}}
		handler := Auth(auth, log)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		handler := Auth(&fakeAuthService{}, log)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		handler := Auth(&fakeAuthService{}, log)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		auth := &fakeAuthService{err: errors.New("bad token")}
		handler := Auth(auth, log)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	log := logger.NewNop()
	session := &domain.Session{UserID: "user-1", Permissions: []string{"events.read"}}

	newRouter := func(checker *fakeChecker) *chi.Mux {
		r := chi.NewRouter()
		r.Route("/api/events/{eventID}", func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					ctx := context.WithValue(req.Context(), SessionContextKey, session)
					next.ServeHTTP(w, req.WithContext(ctx))
				})
			})
			r.Use(RequirePermission(checker, "events.read", log))
			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		})
		return r
	}

	t.Run("allowed", func(t *testing.T) {
		checker := &fakeChecker{allow: true}
		router := newRouter(checker)

		req := httptest.NewRequest(http.MethodGet, "/api/events/event-1/", nil)
		req.Header.Set("X-Organization-ID", "org-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "events.read", checker.lastCode)
		assert.Equal(t, "event-1", checker.lastPctx.EventID)
		assert.Equal(t, "org-1", checker.lastPctx.OrganizationID)
		assert.Equal(t, session.Permissions, checker.lastPctx.SessionPerms)
	})

	t.Run("denied", func(t *testing.T) {
		router := newRouter(&fakeChecker{allow: false})

		req := httptest.NewRequest(http.MethodGet, "/api/events/event-1/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no session", func(t *testing.T) {
		checker := &fakeChecker{allow: true}
		r := chi.NewRouter()
		r.With(RequirePermission(checker, "events.read", log)).Get("/", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequestID(t *testing.T) {
	handler := RequestID(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := r.Context().Value(RequestIDContextKey).(string)
		assert.NotEmpty(t, id)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
