package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/repositories"
	"github.com/desertthunder/harmony/internal/shared"
)

type userKey struct{}

// CurrentUser returns the user [Authenticator.Require] attached to ctx.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey{}).(*models.User)
	return u, ok
}

// WithUser attaches u to ctx.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// Authenticator resolves "Authorization: Bearer <token>" headers to users.
type Authenticator struct {
	sessions *repositories.SessionRepository
	users    *repositories.UserRepository
	logger   *log.Logger
}

// NewAuthenticator creates an [Authenticator].
func NewAuthenticator(sessions *repositories.SessionRepository, users *repositories.UserRepository, logger *log.Logger) *Authenticator {
	return &Authenticator{sessions: sessions, users: users, logger: logger}
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func (a *Authenticator) resolve(r *http.Request) (*models.User, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, shared.ErrUnauthorized
	}

	session, err := a.sessions.Lookup(token)
	if err != nil {
		return nil, err
	}

	user, err := a.users.Get(session.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrUnauthorized
	}
	return user, err
}

// Require rejects requests without a valid session with 401.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.resolve(r)
		if err != nil {
			if errors.Is(err, shared.ErrUnauthorized) {
				writeMessage(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}
			writeError(w, a.logger, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAdmin must run after [Authenticator.Require] and rejects non-admins with 403.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok || !user.IsAdmin() {
			writeMessage(w, http.StatusForbidden, "Not authorized as an admin")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// protected is the middleware chain for session-scoped routes.
func (a *Authenticator) protected() []Middleware {
	return []Middleware{a.Require}
}

// admin is the middleware chain for admin routes.
func (a *Authenticator) admin() []Middleware {
	return []Middleware{a.Require, a.RequireAdmin}
}
