package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

// TokenIssuer signs a session into a bearer token.
type TokenIssuer interface {
	Issue(s models.Session) (string, models.Session, error)
}

type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

type authService struct {
	credentials CredentialService
	students    StudentService
	tokens      TokenIssuer
	logger      zerolog.Logger
}

func NewAuthService(credentials CredentialService, students StudentService, tokens TokenIssuer, logger zerolog.Logger) AuthService {
	return &authService{
		credentials: credentials,
		students:    students,
		tokens:      tokens,
		logger:      logger,
	}
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	session := models.Session{Username: username, Role: req.Role}

	switch {
	case req.Role == models.RoleStudent:
		student, err := s.students.Authenticate(ctx, username, req.Password, req.BatchID)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				s.logger.Warn().Str("username", username).Str("role", req.Role).Msg("Login rejected")
			}
			return nil, err
		}
		session.StudentBatch = student.BatchID
		session.StudentKey = student.ID
	case models.IsStaffRole(req.Role):
		if _, err := s.credentials.VerifyLogin(ctx, username, req.Password, req.Role); err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				s.logger.Warn().Str("username", username).Str("role", req.Role).Msg("Login rejected")
			}
			return nil, err
		}
	default:
		return nil, ErrInvalidRole
	}

	token, issued, err := s.tokens.Issue(session)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("username", username).
		Str("role", req.Role).
		Str("session_id", issued.SessionID).
		Msg("User logged in")

	return &models.LoginResponse{Token: token, Session: issued}, nil
}
