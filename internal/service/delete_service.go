package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
)

type DeleteService interface {
	DeleteTrainerFile(ctx context.Context, filename, uploadedBy string) error
	CleanupOrphans(ctx context.Context) (int, error)
	CountOrphans(ctx context.Context) (int, error)
}

type deleteService struct {
	fileRepo    repository.TrainerFileRepository
	storageRepo repository.StorageRepository
	logger      zerolog.Logger
	prefix      string
}

func NewDeleteService(
	fileRepo repository.TrainerFileRepository,
	storageRepo repository.StorageRepository,
	logger zerolog.Logger,
	prefix string,
) DeleteService {
	return &deleteService{
		fileRepo:    fileRepo,
		storageRepo: storageRepo,
		logger:      logger,
		prefix:      prefix,
	}
}

func (s *deleteService) DeleteTrainerFile(ctx context.Context, filename, uploadedBy string) error {
	if uploadedBy == "" || !strings.HasPrefix(filename, uploadedBy) {
		return ErrNotFileOwner
	}

	record, err := s.fileRepo.GetByFilename(ctx, filename)
	if err != nil {
		return fmt.Errorf("failed to get file metadata: %w", err)
	}
	if record != nil && record.UploadedBy != uploadedBy {
		return ErrNotFileOwner
	}

	deleted, err := s.fileRepo.DeleteByFilenameAndUploader(ctx, filename, uploadedBy)
	if err != nil {
		return fmt.Errorf("failed to delete file metadata: %w", err)
	}

	objectName := path.Join(s.prefix, filename)
	if record != nil {
		objectName = objectPath(s.prefix, record)
	}
	exists, err := s.storageRepo.FileExists(ctx, objectName)
	if err != nil {
		return fmt.Errorf("failed to check stored object: %w", err)
	}
	if exists {
		if err := s.storageRepo.DeleteFile(ctx, objectName); err != nil {
			return fmt.Errorf("failed to delete file from storage: %w", err)
		}
	}

	if deleted == 0 && !exists {
		return ErrFileNotFound
	}

	s.logger.Info().
		Str("filename", filename).
		Str("uploaded_by", uploadedBy).
		Int64("records", deleted).
		Bool("object_deleted", exists).
		Msg("Trainer file deleted")

	return nil
}

// orphanObjectGrace skips stored objects young enough that their record may
// still be on its way.
const orphanObjectGrace = 15 * time.Minute

type orphans struct {
	checked int
	records []models.TrainerFile
	objects []string
}

func (o *orphans) count() int { return len(o.records) + len(o.objects) }

// findOrphans collects records with no stored object or backup, and stored
// objects under the upload prefix that no record points to.
func (s *deleteService) findOrphans(ctx context.Context) (*orphans, error) {
	files, err := s.fileRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	found := &orphans{checked: len(files)}
	referenced := make(map[string]struct{}, len(files))
	for i := range files {
		referenced[objectPath(s.prefix, &files[i])] = struct{}{}
		if isOrphan(ctx, s.storageRepo, s.prefix, &files[i], s.logger) {
			found.records = append(found.records, files[i])
		}
	}

	objects, err := s.storageRepo.ListFiles(ctx, s.listPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to list stored objects: %w", err)
	}
	cutoff := time.Now().Add(-orphanObjectGrace)
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue
		}
		found.objects = append(found.objects, obj.Key)
	}

	return found, nil
}

func (s *deleteService) listPrefix() string {
	p := strings.Trim(s.prefix, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

func (s *deleteService) CleanupOrphans(ctx context.Context) (int, error) {
	start := time.Now()
	found, err := s.findOrphans(ctx)
	if err != nil {
		return 0, err
	}

	records := 0
	for i := range found.records {
		if err := s.fileRepo.DeleteByID(ctx, found.records[i].ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().Err(err).Str("filename", found.records[i].Filename).Msg("Failed to delete orphaned record")
			continue
		}
		records++
	}

	objects := 0
	for _, key := range found.objects {
		if err := s.storageRepo.DeleteFile(ctx, key); err != nil {
			s.logger.Error().Err(err).Str("object", key).Msg("Failed to delete orphaned object")
			continue
		}
		objects++
	}

	s.logger.Info().
		Int("checked", found.checked).
		Int("records_removed", records).
		Int("objects_removed", objects).
		Dur("took", time.Since(start)).
		Msg("Orphaned file cleanup completed")

	return records + objects, nil
}

func (s *deleteService) CountOrphans(ctx context.Context) (int, error) {
	found, err := s.findOrphans(ctx)
	if err != nil {
		return 0, err
	}
	return found.count(), nil
}
