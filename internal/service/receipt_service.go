package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/mailer"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/metrics"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
)

// ReceiptPublisher queues receipt emails for asynchronous delivery.
type ReceiptPublisher interface {
	PublishReceiptRequested(ctx context.Context, event *models.ReceiptRequestedEvent) error
}

type ReceiptService interface {
	// RequestReceipt queues the receipt email, or sends it right away when no
	// queue is available. It reports whether the email was queued.
	RequestReceipt(ctx context.Context, key, requestedBy string) (bool, error)
	SendReceipt(ctx context.Context, key string) error
}

type receiptService struct {
	studentRepo repository.StudentRepository
	sender      mailer.Sender
	publisher   ReceiptPublisher
	portalURL   string
	logger      zerolog.Logger
}

// NewReceiptService builds the receipt flow. publisher may be nil.
func NewReceiptService(
	studentRepo repository.StudentRepository,
	sender mailer.Sender,
	publisher ReceiptPublisher,
	portalURL string,
	logger zerolog.Logger,
) ReceiptService {
	return &receiptService{
		studentRepo: studentRepo,
		sender:      sender,
		publisher:   publisher,
		portalURL:   portalURL,
		logger:      logger,
	}
}

func (s *receiptService) recipient(ctx context.Context, key string) (*models.Student, error) {
	student, err := s.studentRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil || strings.TrimSpace(student.Email) == "" {
		return nil, ErrReceiptNoRecipient
	}
	return student, nil
}

func (s *receiptService) RequestReceipt(ctx context.Context, key, requestedBy string) (bool, error) {
	student, err := s.recipient(ctx, key)
	if err != nil {
		return false, err
	}

	if s.publisher != nil {
		event := &models.ReceiptRequestedEvent{
			EventID:     uuid.New().String(),
			StudentKey:  student.ID,
			Email:       student.Email,
			RequestedBy: requestedBy,
			RequestedAt: time.Now(),
		}
		err := s.publisher.PublishReceiptRequested(ctx, event)
		if err == nil {
			s.logger.Info().
				Str("event_id", event.EventID).
				Str("student_key", student.ID).
				Msg("Receipt email queued")
			return true, nil
		}
		s.logger.Warn().Err(err).Str("student_key", student.ID).Msg("Failed to queue receipt email, sending directly")
	}

	return false, s.deliver(ctx, student)
}

func (s *receiptService) SendReceipt(ctx context.Context, key string) error {
	student, err := s.recipient(ctx, key)
	if err != nil {
		return err
	}
	return s.deliver(ctx, student)
}

func (s *receiptService) deliver(ctx context.Context, student *models.Student) error {
	msg, err := mailer.ReceiptMessage(BuildReceipt(student), s.portalURL)
	if err != nil {
		return fmt.Errorf("failed to build receipt email: %w", err)
	}

	err = s.sender.Send(ctx, msg)
	metrics.ObserveEmail("receipt", err)
	if err != nil {
		s.logger.Error().Err(err).Str("student_key", student.ID).Msg("Failed to send receipt email")
		return ErrEmailSendFailed
	}

	s.logger.Info().
		Str("student_key", student.ID).
		Str("email", student.Email).
		Msg("Receipt email sent")
	return nil
}
