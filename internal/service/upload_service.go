package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
)

const defaultContentType = "application/octet-stream"

type UploadService interface {
	UploadFile(ctx context.Context, fileHeader *multipart.FileHeader, trainer, batchID string) (*models.TrainerFile, error)
	UploadFileBytes(ctx context.Context, fileName, contentType string, fileBytes []byte, trainer, batchID string) (*models.TrainerFile, error)
}

type uploadService struct {
	fileRepo    repository.TrainerFileRepository
	storageRepo repository.StorageRepository
	logger      zerolog.Logger
	config      UploadConfig
}

type UploadConfig struct {
	MaxUploadSize   int64
	Prefix          string
	BackupThreshold int64
	AllowedTypes    []string
}

func NewUploadService(
	fileRepo repository.TrainerFileRepository,
	storageRepo repository.StorageRepository,
	logger zerolog.Logger,
	config UploadConfig,
) UploadService {
	return &uploadService{
		fileRepo:    fileRepo,
		storageRepo: storageRepo,
		logger:      logger,
		config:      config,
	}
}

func (s *uploadService) UploadFile(ctx context.Context, fileHeader *multipart.FileHeader, trainer, batchID string) (*models.TrainerFile, error) {
	if fileHeader == nil || batchID == "" {
		return nil, ErrNoFilePart
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return s.UploadFileBytes(ctx, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileBytes, trainer, batchID)
}

func (s *uploadService) UploadFileBytes(ctx context.Context, fileName, contentType string, fileBytes []byte, trainer, batchID string) (*models.TrainerFile, error) {
	if batchID == "" {
		return nil, ErrNoFilePart
	}

	safeName := SecureFilename(fileName)
	if safeName == "" {
		return nil, ErrNoFileSelected
	}

	size := int64(len(fileBytes))
	if s.config.MaxUploadSize > 0 && size > s.config.MaxUploadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, s.config.MaxUploadSize)
	}

	if contentType == "" || contentType == defaultContentType {
		contentType = detectMimeType(safeName)
	}
	if !s.isAllowedType(contentType, safeName) {
		return nil, fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, contentType)
	}

	storedName := fmt.Sprintf("%s_%s", trainer, safeName)
	storagePath := s.storagePath(storedName)

	if err := s.storageRepo.UploadFile(ctx, storagePath, bytes.NewReader(fileBytes), size, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload file to storage: %w", err)
	}

	record := &models.TrainerFile{
		ID:                uuid.New().String(),
		Filename:          storedName,
		OriginalFilename:  safeName,
		UploadedBy:        trainer,
		BatchID:           batchID,
		FileSize:          size,
		ContentType:       contentType,
		StoragePath:       storagePath,
		UploadedToStorage: true,
		UploadedAt:        time.Now(),
	}
	if size < s.config.BackupThreshold {
		record.FileDataBase64 = base64.StdEncoding.EncodeToString(fileBytes)
		record.HasBase64Backup = true
	}

	if err := s.fileRepo.Upsert(ctx, record); err != nil {
		if delErr := s.storageRepo.DeleteFile(ctx, storagePath); delErr != nil {
			s.logger.Error().Err(delErr).Str("storage_path", storagePath).Msg("Failed to remove object after metadata error")
		}
		return nil, fmt.Errorf("failed to save file metadata: %w", err)
	}

	s.logger.Info().
		Str("file_id", record.ID).
		Str("filename", storedName).
		Str("batch_id", batchID).
		Int64("size", size).
		Bool("base64_backup", record.HasBase64Backup).
		Msg("File uploaded successfully")

	return record, nil
}

func (s *uploadService) storagePath(fileName string) string {
	return path.Join(s.config.Prefix, fileName)
}

func (s *uploadService) isAllowedType(mimeType, fileName string) bool {
	if len(s.config.AllowedTypes) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	for _, allowed := range s.config.AllowedTypes {
		if strings.HasPrefix(allowed, ".") {
			if ext == allowed {
				return true
			}
		} else if strings.HasPrefix(mimeType, allowed) {
			return true
		}
	}

	return false
}

var mimeTypes = map[string]string{
	".txt":  "text/plain",
	".pdf":  "application/pdf",
	".doc":  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".zip":  "application/zip",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
}

// detectMimeType infers the content type from the file extension.
func detectMimeType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if mimeType, ok := mimeTypes[ext]; ok {
		return mimeType
	}
	return defaultContentType
}

// SecureFilename reduces a client supplied name to a flat ASCII file name:
// path separators become spaces, whitespace runs become underscores and only
// letters, digits, '_', '-' and '.' survive. Leading and trailing dots and
// underscores are stripped.
func SecureFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")

	var b strings.Builder
	for _, r := range name {
		if r > unicode.MaxASCII {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}
