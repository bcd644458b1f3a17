package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

type BatchRepository interface {
	Create(ctx context.Context, batch *models.Batch) error
	GetByID(ctx context.Context, id string) (*models.Batch, error)
	GetAll(ctx context.Context) ([]models.Batch, error)
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id string) error
}

type batchRepository struct {
	*PostgresRepository
}

func NewBatchRepository(db *sql.DB, logger zerolog.Logger) BatchRepository {
	return &batchRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const batchColumns = `id, batch_name, original_batch_name, start_time, end_time, batch_start_date, description, created_at, updated_at`

func scanBatch(row rowScanner) (*models.Batch, error) {
	b := &models.Batch{}
	var updatedAt sql.NullTime
	if err := row.Scan(
		&b.ID, &b.BatchName, &b.OriginalBatchName, &b.StartTime, &b.EndTime,
		&b.BatchStartDate, &b.Description, &b.CreatedAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	b.UpdatedAt = timePtr(updatedAt)
	return b, nil
}

func (r *batchRepository) Create(ctx context.Context, b *models.Batch) error {
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.BatchName, b.OriginalBatchName, b.StartTime, b.EndTime,
		b.BatchStartDate, b.Description, b.CreatedAt, nullTime(b.UpdatedAt),
	)

	return err
}

func (r *batchRepository) GetByID(ctx context.Context, id string) (*models.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`

	b, err := scanBatch(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return b, err
}

func (r *batchRepository) GetAll(ctx context.Context) ([]models.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches ORDER BY batch_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []models.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}

	return batches, rows.Err()
}

func (r *batchRepository) Update(ctx context.Context, b *models.Batch) error {
	query := `
		UPDATE batches
		SET batch_name = $1, original_batch_name = $2, start_time = $3, end_time = $4,
			batch_start_date = $5, description = $6, updated_at = $7
		WHERE id = $8
	`

	return r.execAffecting(ctx, query,
		b.BatchName, b.OriginalBatchName, b.StartTime, b.EndTime,
		b.BatchStartDate, b.Description, nullTime(b.UpdatedAt),
		b.ID,
	)
}

func (r *batchRepository) Delete(ctx context.Context, id string) error {
	return r.execAffecting(ctx, `DELETE FROM batches WHERE id = $1`, id)
}
