package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

type ctxKey struct{}

func WithSession(ctx context.Context, s models.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFrom returns the session stored by Authenticate.
func SessionFrom(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(models.Session)
	return s, ok
}

// ErrorWriter renders an authentication or authorisation failure.
type ErrorWriter func(w http.ResponseWriter, status int, message string)

// Authenticate reads the session token from the cookie or a Bearer header.
// Requests without a valid token pass through without a session.
func (m *TokenManager) Authenticate(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, cookieName)
			if token != "" {
				if claims, err := m.Parse(token); err == nil {
					r = r.WithContext(WithSession(r.Context(), claims.Session()))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// RequireRole rejects requests without a session (401) or whose role is
// not listed (403). With no roles any logged-in user passes.
func RequireRole(writeErr ErrorWriter, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFrom(r.Context())
			if !ok {
				writeErr(w, http.StatusUnauthorized, "Please log in first")
				return
			}
			if len(roles) > 0 && !hasRole(s.Role, roles) {
				writeErr(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
