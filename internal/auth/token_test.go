package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("secret", "techzone", time.Hour)

	token, sess, err := m.Issue(models.Session{
		Username:     "asha",
		Role:         models.RoleStudent,
		StudentBatch: "batch-1",
		StudentKey:   "PY 9876543210",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.SessionID)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, sess, claims.Session())
}

func TestParseRejects(t *testing.T) {
	m := NewTokenManager("secret", "techzone", time.Hour)
	token, _, err := m.Issue(models.Session{Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		_, err := NewTokenManager("other", "techzone", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewTokenManager("secret", "elsewhere", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewTokenManager("secret", "techzone", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRequireRole(t *testing.T) {
	m := NewTokenManager("secret", "techzone", time.Hour)
	writeErr := func(w http.ResponseWriter, status int, msg string) {
		http.Error(w, msg, status)
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := m.Authenticate("session")(RequireRole(writeErr, models.RoleAdmin, models.RoleSuperAdmin)(ok))

	adminToken, _, err := m.Issue(models.Session{Username: "root", Role: models.RoleAdmin})
	require.NoError(t, err)
	trainerToken, _, err := m.Issue(models.Session{Username: "tina", Role: models.RoleTrainer})
	require.NoError(t, err)

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no session", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bearer admin", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+adminToken) }, http.StatusNoContent},
		{"cookie admin", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "session", Value: adminToken}) }, http.StatusNoContent},
		{"trainer forbidden", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+trainerToken) }, http.StatusForbidden},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
