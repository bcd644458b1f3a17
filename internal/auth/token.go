// Package auth issues and verifies session tokens and guards routes by role.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims represents the JWT payload of a logged-in session.
type Claims struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	StudentBatch string `json:"student_batch,omitempty"`
	StudentKey   string `json:"student_key,omitempty"`
	jwt.RegisteredClaims
}

func (c Claims) Session() models.Session {
	return models.Session{
		SessionID:    c.ID,
		Username:     c.Username,
		Role:         c.Role,
		StudentBatch: c.StudentBatch,
		StudentKey:   c.StudentKey,
	}
}

type TokenManager struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		key:    []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for the session. A new session ID is assigned when the
// session has none.
func (m *TokenManager) Issue(s models.Session) (string, models.Session, error) {
	if s.SessionID == "" {
		s.SessionID = uuid.NewString()
	}
	now := m.now()

	claims := Claims{
		Username:     s.Username,
		Role:         s.Role,
		StudentBatch: s.StudentBatch,
		StudentKey:   s.StudentKey,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.SessionID,
			Issuer:    m.issuer,
			Subject:   s.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", models.Session{}, err
	}
	return token, s, nil
}

// Parse validates a token and returns its claims.
func (m *TokenManager) Parse(tokenStr string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.key, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}
