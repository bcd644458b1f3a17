package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

type TrainerFileRepository interface {
	// Upsert inserts the record or replaces the one with the same filename.
	Upsert(ctx context.Context, file *models.TrainerFile) error
	GetByFilename(ctx context.Context, filename string) (*models.TrainerFile, error)
	ListByBatch(ctx context.Context, batchID string) ([]models.TrainerFile, error)
	ListByUploader(ctx context.Context, username string) ([]models.TrainerFile, error)
	ListAll(ctx context.Context) ([]models.TrainerFile, error)
	DeleteByFilenameAndUploader(ctx context.Context, filename, uploadedBy string) (int64, error)
	DeleteByID(ctx context.Context, id string) error
}

type trainerFileRepository struct {
	*PostgresRepository
}

func NewTrainerFileRepository(db *sql.DB, logger zerolog.Logger) TrainerFileRepository {
	return &trainerFileRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const trainerFileColumns = `
	id, filename, original_filename, uploaded_by, batch_id, file_size, content_type,
	storage_path, uploaded_to_storage, file_data_base64, has_base64_backup, uploaded_at`

func scanTrainerFile(row rowScanner) (*models.TrainerFile, error) {
	f := &models.TrainerFile{}
	err := row.Scan(
		&f.ID, &f.Filename, &f.OriginalFilename, &f.UploadedBy, &f.BatchID, &f.FileSize, &f.ContentType,
		&f.StoragePath, &f.UploadedToStorage, &f.FileDataBase64, &f.HasBase64Backup, &f.UploadedAt,
	)
	return f, err
}

func (r *trainerFileRepository) queryFiles(ctx context.Context, query string, args ...interface{}) ([]models.TrainerFile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.TrainerFile
	for rows.Next() {
		f, err := scanTrainerFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}

	return files, rows.Err()
}

func (r *trainerFileRepository) Upsert(ctx context.Context, f *models.TrainerFile) error {
	query := `
		INSERT INTO trainer_files (` + trainerFileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (filename) DO UPDATE SET
			original_filename = EXCLUDED.original_filename,
			uploaded_by = EXCLUDED.uploaded_by,
			batch_id = EXCLUDED.batch_id,
			file_size = EXCLUDED.file_size,
			content_type = EXCLUDED.content_type,
			storage_path = EXCLUDED.storage_path,
			uploaded_to_storage = EXCLUDED.uploaded_to_storage,
			file_data_base64 = EXCLUDED.file_data_base64,
			has_base64_backup = EXCLUDED.has_base64_backup,
			uploaded_at = EXCLUDED.uploaded_at
		RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		f.ID, f.Filename, f.OriginalFilename, f.UploadedBy, f.BatchID, f.FileSize, f.ContentType,
		f.StoragePath, f.UploadedToStorage, f.FileDataBase64, f.HasBase64Backup, f.UploadedAt,
	).Scan(&f.ID)
}

func (r *trainerFileRepository) GetByFilename(ctx context.Context, filename string) (*models.TrainerFile, error) {
	query := `SELECT ` + trainerFileColumns + ` FROM trainer_files WHERE filename = $1`

	f, err := scanTrainerFile(r.db.QueryRowContext(ctx, query, filename))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (r *trainerFileRepository) ListByBatch(ctx context.Context, batchID string) ([]models.TrainerFile, error) {
	query := `SELECT ` + trainerFileColumns + ` FROM trainer_files WHERE batch_id = $1 ORDER BY uploaded_at DESC`
	return r.queryFiles(ctx, query, batchID)
}

func (r *trainerFileRepository) ListByUploader(ctx context.Context, username string) ([]models.TrainerFile, error) {
	query := `SELECT ` + trainerFileColumns + ` FROM trainer_files WHERE uploaded_by = $1 ORDER BY uploaded_at DESC`
	return r.queryFiles(ctx, query, username)
}

func (r *trainerFileRepository) ListAll(ctx context.Context) ([]models.TrainerFile, error) {
	query := `SELECT ` + trainerFileColumns + ` FROM trainer_files ORDER BY uploaded_at DESC`
	return r.queryFiles(ctx, query)
}

func (r *trainerFileRepository) DeleteByFilenameAndUploader(ctx context.Context, filename, uploadedBy string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM trainer_files WHERE filename = $1 AND uploaded_by = $2`,
		filename, uploadedBy,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *trainerFileRepository) DeleteByID(ctx context.Context, id string) error {
	return r.execAffecting(ctx, `DELETE FROM trainer_files WHERE id = $1`, id)
}
