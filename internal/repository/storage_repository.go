package repository

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/metrics"
)

// StorageRepository stores trainer uploads in a single bucket.
type StorageRepository interface {
	UploadFile(ctx context.Context, objectName string, file io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error)
	DeleteFile(ctx context.Context, objectName string) error
	FileExists(ctx context.Context, objectName string) (bool, error)
	GetPresignedURL(ctx context.Context, objectName string, expires time.Duration) (string, error)
	ListFiles(ctx context.Context, prefix string) ([]StoredObject, error)
}

type StoredObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

type storageRepository struct {
	provider StorageRepository
	logger   zerolog.Logger
}

// NewStorageRepository wraps a provider with operation metrics and error logging.
func NewStorageRepository(provider StorageRepository, logger zerolog.Logger) StorageRepository {
	return &storageRepository{
		provider: provider,
		logger:   logger,
	}
}

func (r *storageRepository) observe(op string, err error) {
	metrics.ObserveStorageOp(op, err)
	if err != nil && err != ErrObjectNotFound {
		r.logger.Error().Err(err).Str("op", op).Msg("Storage operation failed")
	}
}

func (r *storageRepository) UploadFile(ctx context.Context, objectName string, file io.Reader, size int64, contentType string) error {
	err := r.provider.UploadFile(ctx, objectName, file, size, contentType)
	r.observe("upload", err)
	return err
}

func (r *storageRepository) DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	rc, size, err := r.provider.DownloadFile(ctx, objectName)
	r.observe("download", err)
	return rc, size, err
}

func (r *storageRepository) DeleteFile(ctx context.Context, objectName string) error {
	err := r.provider.DeleteFile(ctx, objectName)
	r.observe("delete", err)
	return err
}

func (r *storageRepository) FileExists(ctx context.Context, objectName string) (bool, error) {
	ok, err := r.provider.FileExists(ctx, objectName)
	r.observe("stat", err)
	return ok, err
}

func (r *storageRepository) GetPresignedURL(ctx context.Context, objectName string, expires time.Duration) (string, error) {
	u, err := r.provider.GetPresignedURL(ctx, objectName, expires)
	r.observe("presign", err)
	return u, err
}

func (r *storageRepository) ListFiles(ctx context.Context, prefix string) ([]StoredObject, error) {
	files, err := r.provider.ListFiles(ctx, prefix)
	r.observe("list", err)
	return files, err
}
