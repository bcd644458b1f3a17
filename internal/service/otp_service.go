package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/mailer"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/metrics"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w{2,}$`)

// OTPVerifier is the part of the OTP flow student creation depends on.
type OTPVerifier interface {
	// ConsumeVerified reports whether the session verified email, clearing
	// the OTP state when it did.
	ConsumeVerified(ctx context.Context, sessionID, email string) (bool, error)
}

type OTPService interface {
	OTPVerifier
	SendOTP(ctx context.Context, sessionID, email string) error
	VerifyOTP(ctx context.Context, sessionID, email, code string) error
}

type otpService struct {
	repo   repository.OTPRepository
	sender mailer.Sender
	ttl    time.Duration
	logger zerolog.Logger
}

func NewOTPService(repo repository.OTPRepository, sender mailer.Sender, ttl time.Duration, logger zerolog.Logger) OTPService {
	return &otpService{
		repo:   repo,
		sender: sender,
		ttl:    ttl,
		logger: logger,
	}
}

// generateOTP returns a uniformly random code in [100000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return NewValidationError(ErrEmailRequired, FieldError{Field: "email", Error: ErrEmailRequired.Error()})
	}
	if !emailPattern.MatchString(email) {
		return NewValidationError(ErrInvalidEmail, FieldError{Field: "email", Error: ErrInvalidEmail.Error()})
	}
	return nil
}

func (s *otpService) SendOTP(ctx context.Context, sessionID, email string) error {
	email = strings.TrimSpace(email)
	if err := ValidateEmail(email); err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	msg, err := mailer.OTPMessage(email, code)
	if err != nil {
		return fmt.Errorf("failed to build otp email: %w", err)
	}

	err = s.sender.Send(ctx, msg)
	metrics.ObserveEmail("otp", err)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Failed to send OTP email")
		return ErrOTPSendFailed
	}

	state := &models.OTPState{Email: email, Code: code}
	if err := s.repo.Save(ctx, sessionID, state, s.ttl); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("OTP sent")
	return nil
}

func (s *otpService) VerifyOTP(ctx context.Context, sessionID, email, code string) error {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)

	state, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load otp: %w", err)
	}
	if state == nil || email == "" || state.Email != email || state.Code != code {
		return ErrInvalidOTP
	}

	state.Verified = true
	if err := s.repo.Save(ctx, sessionID, state, s.ttl); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

func (s *otpService) ConsumeVerified(ctx context.Context, sessionID, email string) (bool, error) {
	state, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to load otp: %w", err)
	}
	if state == nil || !state.Verified || state.Email != strings.TrimSpace(email) {
		return false, nil
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return false, fmt.Errorf("failed to clear otp: %w", err)
	}
	return true, nil
}
