package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
)

type DownloadService interface {
	DownloadFile(ctx context.Context, filename string, caller models.Session) (*models.FileContent, error)
	GetPresignedURL(ctx context.Context, filename string, caller models.Session, expiresIn int64) (string, error)
	// ListByBatch returns the batch's files after deleting records that have
	// neither a stored object nor a base64 backup.
	ListByBatch(ctx context.Context, batchID string) ([]models.TrainerFile, error)
	ListByUploader(ctx context.Context, username string) ([]models.TrainerFile, error)
}

type downloadService struct {
	fileRepo    repository.TrainerFileRepository
	storageRepo repository.StorageRepository
	logger      zerolog.Logger
	prefix      string
}

func NewDownloadService(
	fileRepo repository.TrainerFileRepository,
	storageRepo repository.StorageRepository,
	logger zerolog.Logger,
	prefix string,
) DownloadService {
	return &downloadService{
		fileRepo:    fileRepo,
		storageRepo: storageRepo,
		logger:      logger,
		prefix:      prefix,
	}
}

// authorize loads the record and enforces the student batch restriction.
func (s *downloadService) authorize(ctx context.Context, filename string, caller models.Session) (*models.TrainerFile, error) {
	record, err := s.fileRepo.GetByFilename(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to get file metadata: %w", err)
	}
	if record == nil {
		return nil, ErrFileNotFound
	}

	if caller.Role == models.RoleStudent && caller.StudentBatch != "" && record.BatchID != caller.StudentBatch {
		s.logger.Warn().
			Str("filename", filename).
			Str("username", caller.Username).
			Str("file_batch", record.BatchID).
			Str("student_batch", caller.StudentBatch).
			Msg("Download denied")
		return nil, ErrFileAccessDenied
	}
	return record, nil
}

func objectPath(prefix string, f *models.TrainerFile) string {
	if f.StoragePath != "" {
		return f.StoragePath
	}
	return path.Join(prefix, f.Filename)
}

func (s *downloadService) DownloadFile(ctx context.Context, filename string, caller models.Session) (*models.FileContent, error) {
	record, err := s.authorize(ctx, filename, caller)
	if err != nil {
		return nil, err
	}

	name := record.OriginalFilename
	if name == "" {
		name = record.Filename
	}

	if record.UploadedToStorage {
		content, err := s.fromStorage(ctx, record)
		if err == nil {
			content.FileName = name
			s.logger.Info().
				Str("filename", filename).
				Str("username", caller.Username).
				Int64("size", content.FileSize).
				Msg("File downloaded")
			return content, nil
		}
		if !errors.Is(err, repository.ErrObjectNotFound) {
			s.logger.Error().Err(err).Str("filename", filename).Msg("Failed to download from storage, trying backup")
		}
	}

	if record.FileDataBase64 == "" {
		return nil, ErrFileMissing
	}

	data, err := base64.StdEncoding.DecodeString(record.FileDataBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode file backup: %w", err)
	}

	contentType := record.ContentType
	if contentType == "" || contentType == defaultContentType {
		contentType = detectMimeType(record.Filename)
	}

	s.logger.Info().
		Str("filename", filename).
		Str("username", caller.Username).
		Int("size", len(data)).
		Msg("File downloaded from backup")

	return &models.FileContent{
		FileName:    name,
		ContentType: contentType,
		FileSize:    int64(len(data)),
		Content:     data,
	}, nil
}

func (s *downloadService) fromStorage(ctx context.Context, record *models.TrainerFile) (*models.FileContent, error) {
	reader, size, err := s.storageRepo.DownloadFile(ctx, objectPath(s.prefix, record))
	if err != nil {
		return nil, err
	}
	content, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	contentType := record.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	return &models.FileContent{
		ContentType: contentType,
		FileSize:    size,
		Content:     content,
	}, nil
}

func (s *downloadService) GetPresignedURL(ctx context.Context, filename string, caller models.Session, expiresIn int64) (string, error) {
	record, err := s.authorize(ctx, filename, caller)
	if err != nil {
		return "", err
	}
	if !record.UploadedToStorage {
		return "", ErrFileMissing
	}

	url, err := s.storageRepo.GetPresignedURL(ctx, objectPath(s.prefix, record), secondsToDuration(expiresIn))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	s.logger.Info().
		Str("filename", filename).
		Int64("expires_in", expiresIn).
		Msg("Generated presigned URL")

	return url, nil
}

func (s *downloadService) ListByBatch(ctx context.Context, batchID string) ([]models.TrainerFile, error) {
	files, err := s.fileRepo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	valid := make([]models.TrainerFile, 0, len(files))
	for i := range files {
		if !isOrphan(ctx, s.storageRepo, s.prefix, &files[i], s.logger) {
			valid = append(valid, files[i])
			continue
		}
		if err := s.fileRepo.DeleteByID(ctx, files[i].ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().Err(err).Str("filename", files[i].Filename).Msg("Failed to delete orphaned record")
			continue
		}
		s.logger.Info().Str("filename", files[i].Filename).Msg("Deleted orphaned file record")
	}
	return valid, nil
}

func (s *downloadService) ListByUploader(ctx context.Context, username string) ([]models.TrainerFile, error) {
	files, err := s.fileRepo.ListByUploader(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// isOrphan reports whether the record has no stored object and no base64
// backup. A failed existence check counts as present.
func isOrphan(ctx context.Context, storage repository.StorageRepository, prefix string, f *models.TrainerFile, logger zerolog.Logger) bool {
	if f.FileDataBase64 != "" {
		return false
	}
	if !f.UploadedToStorage {
		return true
	}
	exists, err := storage.FileExists(ctx, objectPath(prefix, f))
	if err != nil {
		logger.Error().Err(err).Str("filename", f.Filename).Msg("Failed to check stored object")
		return false
	}
	return !exists
}

func secondsToDuration(seconds int64) time.Duration {
	if seconds <= 0 {
		return time.Hour
	}
	return time.Duration(seconds) * time.Second
}
