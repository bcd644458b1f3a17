package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
)

type CredentialService interface {
	ListAdmins(ctx context.Context) ([]models.RoleCredential, error)
	AddAdmin(ctx context.Context, req *models.AdminRequest) (*models.RoleCredential, error)
	UpdateAdmin(ctx context.Context, id string, req *models.AdminRequest) (*models.RoleCredential, error)
	DeleteAdmin(ctx context.Context, id string) error
	// CreateUser adds a staff credential of any role. Used by the seed-user command.
	CreateUser(ctx context.Context, username, password, role string) (*models.RoleCredential, error)
	// VerifyLogin checks a staff login against the stored hash.
	VerifyLogin(ctx context.Context, username, password, role string) (*models.RoleCredential, error)
}

type credentialService struct {
	credRepo repository.CredentialRepository
	logger   zerolog.Logger
	cost     int
}

func NewCredentialService(credRepo repository.CredentialRepository, logger zerolog.Logger) CredentialService {
	return &credentialService{
		credRepo: credRepo,
		logger:   logger,
		cost:     bcrypt.DefaultCost,
	}
}

func (s *credentialService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

func (s *credentialService) ListAdmins(ctx context.Context) ([]models.RoleCredential, error) {
	admins, err := s.credRepo.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

func (s *credentialService) AddAdmin(ctx context.Context, req *models.AdminRequest) (*models.RoleCredential, error) {
	return s.CreateUser(ctx, req.Username, req.Password, models.RoleAdmin)
}

func (s *credentialService) CreateUser(ctx context.Context, username, password, role string) (*models.RoleCredential, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	if !models.IsStaffRole(role) {
		return nil, ErrInvalidRole
	}

	existing, err := s.credRepo.GetByUsernameAndRole(ctx, username, role)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, ErrAdminExists
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	cred := &models.RoleCredential{
		ID:               uuid.New().String(),
		Username:         username,
		PasswordHash:     hash,
		OriginalPassword: password,
		Name:             username,
		Role:             role,
		Status:           models.StatusActive,
		CreatedAt:        time.Now(),
	}
	if err := s.credRepo.Create(ctx, cred); err != nil {
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	s.logger.Info().
		Str("credential_id", cred.ID).
		Str("username", username).
		Str("role", role).
		Msg("Credential created")

	return cred, nil
}

func (s *credentialService) UpdateAdmin(ctx context.Context, id string, req *models.AdminRequest) (*models.RoleCredential, error) {
	username := strings.TrimSpace(req.Username)
	if id == "" || username == "" {
		return nil, ErrCredentialsRequired
	}

	cred, err := s.credRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if cred == nil || cred.Role != models.RoleAdmin {
		return nil, ErrAdminNotFound
	}

	if username != cred.Username {
		other, err := s.credRepo.GetByUsernameAndRole(ctx, username, models.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if other != nil && other.ID != cred.ID {
			return nil, ErrAdminExists
		}
	}

	cred.Username = username
	cred.Name = username
	if password := strings.TrimSpace(req.Password); password != "" {
		hash, err := s.hash(password)
		if err != nil {
			return nil, err
		}
		cred.PasswordHash = hash
		cred.OriginalPassword = password
	}
	now := time.Now()
	cred.UpdatedAt = &now

	if err := s.credRepo.Update(ctx, cred); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}

	s.logger.Info().Str("credential_id", id).Msg("Admin updated")
	return cred, nil
}

func (s *credentialService) DeleteAdmin(ctx context.Context, id string) error {
	cred, err := s.credRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get admin: %w", err)
	}
	if cred == nil || cred.Role != models.RoleAdmin {
		return ErrAdminNotFound
	}

	if err := s.credRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("failed to delete admin: %w", err)
	}

	s.logger.Info().Str("credential_id", id).Msg("Admin deleted")
	return nil
}

func (s *credentialService) VerifyLogin(ctx context.Context, username, password, role string) (*models.RoleCredential, error) {
	cred, err := s.credRepo.GetByUsernameAndRole(ctx, username, role)
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	if cred == nil || cred.Status != models.StatusActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return cred, nil
}
