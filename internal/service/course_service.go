package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
)

type CourseService interface {
	AddRecord(ctx context.Context, req *models.CourseRecordRequest) (*models.CourseRecord, error)
	ListRecords(ctx context.Context) ([]models.CourseRecord, error)
	// UpdateRecord replaces the record's fields and keeps its original time stamp.
	UpdateRecord(ctx context.Context, id string, req *models.CourseRecordRequest) (*models.CourseRecord, error)
	DeleteRecord(ctx context.Context, id string) error
}

type courseService struct {
	courseRepo repository.CourseRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewCourseService(courseRepo repository.CourseRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		logger:     logger,
		now:        time.Now,
	}
}

func applyCourseRequest(r *models.CourseRecord, req *models.CourseRecordRequest) {
	r.TrainerName = req.TrainerName
	r.BatchName = req.BatchName
	r.OngoingModule = req.OngoingModule
	r.CompletedModule = req.CompletedModule
	r.UpcomingModule = req.UpcomingModule
	r.ClassDate = req.ClassDate
	r.StartTime = req.StartTime
	r.EndTime = req.EndTime
}

func (s *courseService) AddRecord(ctx context.Context, req *models.CourseRecordRequest) (*models.CourseRecord, error) {
	record := &models.CourseRecord{
		ID:        uuid.New().String(),
		TimeStamp: s.now().Format(models.CourseTimestampLayout),
	}
	applyCourseRequest(record, req)

	if err := s.courseRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add course record: %w", err)
	}

	s.logger.Info().
		Str("record_id", record.ID).
		Str("trainer", record.TrainerName).
		Str("batch", record.BatchName).
		Msg("Course record added")

	return record, nil
}

func (s *courseService) ListRecords(ctx context.Context) ([]models.CourseRecord, error) {
	records, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list course records: %w", err)
	}
	return records, nil
}

func (s *courseService) UpdateRecord(ctx context.Context, id string, req *models.CourseRecordRequest) (*models.CourseRecord, error) {
	record, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course record: %w", err)
	}
	if record == nil {
		return nil, ErrCourseNotFound
	}

	applyCourseRequest(record, req)
	if record.TimeStamp == "" {
		record.TimeStamp = s.now().Format(models.CourseTimestampLayout)
	}

	if err := s.courseRepo.Update(ctx, record); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to update course record: %w", err)
	}

	s.logger.Info().Str("record_id", id).Msg("Course record updated")
	return record, nil
}

func (s *courseService) DeleteRecord(ctx context.Context, id string) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course record: %w", err)
	}
	s.logger.Info().Str("record_id", id).Msg("Course record deleted")
	return nil
}
