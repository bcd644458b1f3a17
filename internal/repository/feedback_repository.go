package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetAll(ctx context.Context) ([]models.Feedback, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type feedbackRepository struct {
	*PostgresRepository
}

func NewFeedbackRepository(db *sql.DB, logger zerolog.Logger) FeedbackRepository {
	return &feedbackRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *feedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	query := `
		INSERT INTO student_feedback (
			id, student_id, student_record_id, student_name, student_number,
			batch_name, feedback_text, submitted_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.StudentID, f.StudentRecordID, f.StudentName, f.StudentNumber,
		f.BatchName, f.FeedbackText, f.SubmittedBy, f.CreatedAt,
	)

	return err
}

func (r *feedbackRepository) GetAll(ctx context.Context) ([]models.Feedback, error) {
	query := `
		SELECT id, student_id, student_record_id, student_name, student_number,
			batch_name, feedback_text, submitted_by, created_at
		FROM student_feedback
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Feedback
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(
			&f.ID, &f.StudentID, &f.StudentRecordID, &f.StudentName, &f.StudentNumber,
			&f.BatchName, &f.FeedbackText, &f.SubmittedBy, &f.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, f)
	}

	return items, rows.Err()
}

func (r *feedbackRepository) Delete(ctx context.Context, id string) error {
	return r.execAffecting(ctx, `DELETE FROM student_feedback WHERE id = $1`, id)
}

func (r *feedbackRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM student_feedback`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
