package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
)

type MessageService interface {
	SendMessage(ctx context.Context, trainer string, req *models.SendMessageRequest) (*models.Message, error)
	ListForBatch(ctx context.Context, batchID string) ([]models.Message, error)
	MarkBatchRead(ctx context.Context, batchID, username string) (int64, error)
	UnreadCount(ctx context.Context, batchID, username string) (int, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	logger      zerolog.Logger
}

func NewMessageService(messageRepo repository.MessageRepository, logger zerolog.Logger) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		logger:      logger,
	}
}

func (s *messageService) SendMessage(ctx context.Context, trainer string, req *models.SendMessageRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.MessageContent)
	if req.BatchID == "" || content == "" {
		return nil, ErrMessageRequired
	}

	msg := &models.Message{
		ID:             uuid.New().String(),
		BatchID:        req.BatchID,
		TrainerName:    trainer,
		MessageContent: content,
		Timestamp:      time.Now(),
		ReadBy:         []string{},
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	s.logger.Info().
		Str("message_id", msg.ID).
		Str("batch_id", msg.BatchID).
		Str("trainer", trainer).
		Msg("Message sent")

	return msg, nil
}

func (s *messageService) ListForBatch(ctx context.Context, batchID string) ([]models.Message, error) {
	messages, err := s.messageRepo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (s *messageService) MarkBatchRead(ctx context.Context, batchID, username string) (int64, error) {
	if batchID == "" {
		return 0, ErrNoBatch
	}
	if username == "" {
		return 0, nil
	}
	n, err := s.messageRepo.MarkBatchRead(ctx, batchID, username)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return n, nil
}

func (s *messageService) UnreadCount(ctx context.Context, batchID, username string) (int, error) {
	if batchID == "" {
		return 0, nil
	}
	n, err := s.messageRepo.CountUnread(ctx, batchID, username)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return n, nil
}
