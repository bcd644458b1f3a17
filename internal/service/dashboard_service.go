package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/batchname"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

type DashboardService interface {
	Dashboard(ctx context.Context, caller models.Session) (*models.Dashboard, error)
}

type dashboardService struct {
	batches  BatchService
	files    DownloadService
	messages MessageService
	courses  CourseService
	logger   zerolog.Logger
}

func NewDashboardService(
	batches BatchService,
	files DownloadService,
	messages MessageService,
	courses CourseService,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		batches:  batches,
		files:    files,
		messages: messages,
		courses:  courses,
		logger:   logger,
	}
}

func (s *dashboardService) Dashboard(ctx context.Context, caller models.Session) (*models.Dashboard, error) {
	d := &models.Dashboard{Role: caller.Role, Username: caller.Username}

	switch caller.Role {
	case models.RoleTrainer:
		batches, err := s.batches.ListBatches(ctx)
		if err != nil {
			return nil, err
		}
		d.TrainerViews = make([]models.TrainerBatchView, 0, len(batches))
		for _, b := range batches {
			files, err := s.files.ListByBatch(ctx, b.ID)
			if err != nil {
				return nil, err
			}
			messages, err := s.messages.ListForBatch(ctx, b.ID)
			if err != nil {
				return nil, err
			}
			d.TrainerViews = append(d.TrainerViews, models.TrainerBatchView{
				Batch:    b,
				Label:    batchname.DisplayName(b),
				Files:    files,
				Messages: messages,
			})
		}

	case models.RoleStudent:
		if err := s.studentView(ctx, caller, d); err != nil {
			return nil, err
		}

	case models.RoleAdmin, models.RoleSuperAdmin:
		records, err := s.courses.ListRecords(ctx)
		if err != nil {
			return nil, err
		}
		batches, err := s.batches.ListBatches(ctx)
		if err != nil {
			return nil, err
		}
		d.CourseRecords = records
		d.Batches = batches

	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, caller.Role)
	}

	return d, nil
}

func (s *dashboardService) studentView(ctx context.Context, caller models.Session, d *models.Dashboard) error {
	if caller.StudentBatch == "" {
		d.BatchLabel = batchname.Unknown
		return nil
	}

	batch, err := s.batches.GetBatch(ctx, caller.StudentBatch)
	switch {
	case err == nil:
		d.BatchLabel = batchname.DisplayName(*batch)
	case errors.Is(err, ErrBatchNotFound):
		d.BatchLabel = batchname.Unknown
	default:
		return err
	}

	if d.Files, err = s.files.ListByBatch(ctx, caller.StudentBatch); err != nil {
		return err
	}
	if d.Messages, err = s.messages.ListForBatch(ctx, caller.StudentBatch); err != nil {
		return err
	}
	if d.UnreadCount, err = s.messages.UnreadCount(ctx, caller.StudentBatch, caller.Username); err != nil {
		return err
	}
	return nil
}
