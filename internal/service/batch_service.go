package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/batchname"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
)

type BatchService interface {
	CreateBatch(ctx context.Context, req *models.BatchRequest) (*models.Batch, error)
	UpdateBatch(ctx context.Context, id string, req *models.BatchRequest) (*models.Batch, error)
	DeleteBatch(ctx context.Context, id string) error
	GetBatch(ctx context.Context, id string) (*models.Batch, error)
	ListBatches(ctx context.Context) ([]models.Batch, error)
	Summary(ctx context.Context) ([]models.BatchSummary, error)
}

type batchService struct {
	batchRepo   repository.BatchRepository
	studentRepo repository.StudentRepository
	logger      zerolog.Logger
}

func NewBatchService(batchRepo repository.BatchRepository, studentRepo repository.StudentRepository, logger zerolog.Logger) BatchService {
	return &batchService{
		batchRepo:   batchRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

func (s *batchService) CreateBatch(ctx context.Context, req *models.BatchRequest) (*models.Batch, error) {
	name := strings.TrimSpace(req.BatchName)
	batch := &models.Batch{
		ID:                uuid.New().String(),
		BatchName:         name,
		OriginalBatchName: name,
		StartTime:         strings.TrimSpace(req.StartTime),
		EndTime:           strings.TrimSpace(req.EndTime),
		BatchStartDate:    req.BatchStartDate,
		Description:       req.Description,
		CreatedAt:         time.Now(),
	}

	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}

	s.logger.Info().
		Str("batch_id", batch.ID).
		Str("label", batch.Label()).
		Msg("Batch created")

	return batch, nil
}

func (s *batchService) UpdateBatch(ctx context.Context, id string, req *models.BatchRequest) (*models.Batch, error) {
	batch, err := s.GetBatch(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.BatchName)
	batch.BatchName = name
	batch.OriginalBatchName = name
	batch.StartTime = strings.TrimSpace(req.StartTime)
	batch.EndTime = strings.TrimSpace(req.EndTime)
	batch.BatchStartDate = req.BatchStartDate
	batch.Description = req.Description
	now := time.Now()
	batch.UpdatedAt = &now

	if err := s.batchRepo.Update(ctx, batch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to update batch: %w", err)
	}

	s.logger.Info().Str("batch_id", id).Msg("Batch updated")
	return batch, nil
}

func (s *batchService) DeleteBatch(ctx context.Context, id string) error {
	if err := s.batchRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBatchNotFound
		}
		return fmt.Errorf("failed to delete batch: %w", err)
	}

	s.logger.Info().Str("batch_id", id).Msg("Batch deleted")
	return nil
}

func (s *batchService) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	if batch == nil {
		return nil, ErrBatchNotFound
	}
	return batch, nil
}

func (s *batchService) ListBatches(ctx context.Context) ([]models.Batch, error) {
	batches, err := s.batchRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}

func (s *batchService) Summary(ctx context.Context) ([]models.BatchSummary, error) {
	batches, err := s.ListBatches(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.studentRepo.List(ctx, models.StudentFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	type counts struct{ total, paid int }
	byBatch := make(map[string]*counts, len(batches))
	for _, st := range students {
		c, ok := byBatch[st.BatchID]
		if !ok {
			c = &counts{}
			byBatch[st.BatchID] = c
		}
		c.total++
		if st.IsPaid() {
			c.paid++
		}
	}

	summary := make([]models.BatchSummary, 0, len(batches))
	for _, b := range batches {
		row := models.BatchSummary{
			BatchID:     b.ID,
			DisplayName: batchname.DisplayName(b),
		}
		if c, ok := byBatch[b.ID]; ok {
			row.TotalStudents = c.total
			row.PaidStudents = c.paid
			row.UnpaidCount = c.total - c.paid
		}
		summary = append(summary, row)
	}

	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].DisplayName < summary[j].DisplayName
	})
	return summary, nil
}
