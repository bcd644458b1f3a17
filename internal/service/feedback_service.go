package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/batchname"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
)

type FeedbackService interface {
	SubmitFeedback(ctx context.Context, caller models.Session, req *models.FeedbackRequest) (*models.Feedback, error)
	ListFeedback(ctx context.Context) ([]models.Feedback, error)
	DeleteFeedback(ctx context.Context, id string) error
	DeleteAllFeedback(ctx context.Context) (int64, error)
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	studentRepo  repository.StudentRepository
	logger       zerolog.Logger
}

func NewFeedbackService(feedbackRepo repository.FeedbackRepository, studentRepo repository.StudentRepository, logger zerolog.Logger) FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		studentRepo:  studentRepo,
		logger:       logger,
	}
}

func (s *feedbackService) SubmitFeedback(ctx context.Context, caller models.Session, req *models.FeedbackRequest) (*models.Feedback, error) {
	text := strings.TrimSpace(req.FeedbackText)
	if text == "" {
		return nil, ErrFeedbackRequired
	}

	student, err := s.studentRepo.GetByKey(ctx, caller.StudentKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentInfoMissing
	}

	fb := &models.Feedback{
		ID:              uuid.New().String(),
		StudentID:       caller.StudentKey,
		StudentRecordID: orUnknown(student.StudentID),
		StudentName:     orUnknown(student.StudentName),
		StudentNumber:   orUnknown(student.StudentNumber),
		BatchName:       orUnknown(student.BatchTime),
		FeedbackText:    text,
		SubmittedBy:     caller.Username,
		CreatedAt:       time.Now(),
	}
	if err := s.feedbackRepo.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	s.logger.Info().
		Str("feedback_id", fb.ID).
		Str("student_key", fb.StudentID).
		Msg("Feedback submitted")

	return fb, nil
}

// ListFeedback returns feedback newest first, filling gaps in the snapshot
// from the current student record.
func (s *feedbackService) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	feedback, err := s.feedbackRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	if len(feedback) == 0 {
		return feedback, nil
	}

	students, err := s.studentRepo.List(ctx, models.StudentFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	lookup := make(map[string]models.Student, len(students))
	for _, st := range students {
		lookup[st.ID] = st
	}

	for i := range feedback {
		fb := &feedback[i]
		st := lookup[fb.StudentID]
		fb.StudentRecordID = firstKnown(fb.StudentRecordID, st.StudentID)
		fb.StudentName = firstKnown(fb.StudentName, st.StudentName)
		fb.StudentNumber = firstKnown(fb.StudentNumber, st.StudentNumber)
		fb.BatchName = firstKnown(fb.BatchName, st.BatchTime)
		fb.SubmittedBy = orUnknown(fb.SubmittedBy)
	}
	return feedback, nil
}

func (s *feedbackService) DeleteFeedback(ctx context.Context, id string) error {
	if err := s.feedbackRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFeedbackNotFound
		}
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	s.logger.Info().Str("feedback_id", id).Msg("Feedback deleted")
	return nil
}

func (s *feedbackService) DeleteAllFeedback(ctx context.Context) (int64, error) {
	n, err := s.feedbackRepo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete feedback: %w", err)
	}
	s.logger.Info().Int64("deleted", n).Msg("All feedback deleted")
	return n, nil
}

func orUnknown(s string) string {
	if s == "" {
		return batchname.Unknown
	}
	return s
}

func firstKnown(values ...string) string {
	for _, v := range values {
		if v != "" && v != batchname.Unknown {
			return v
		}
	}
	return batchname.Unknown
}
