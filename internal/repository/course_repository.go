package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

type CourseRepository interface {
	Create(ctx context.Context, record *models.CourseRecord) error
	GetByID(ctx context.Context, id string) (*models.CourseRecord, error)
	GetAll(ctx context.Context) ([]models.CourseRecord, error)
	Update(ctx context.Context, record *models.CourseRecord) error
	Delete(ctx context.Context, id string) error
}

type courseRepository struct {
	*PostgresRepository
}

func NewCourseRepository(db *sql.DB, logger zerolog.Logger) CourseRepository {
	return &courseRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const courseColumns = `
	id, trainer_name, batch_name, ongoing_module, completed_module, upcoming_module,
	class_date, start_time, end_time, time_stamp`

func scanCourseRecord(row rowScanner) (*models.CourseRecord, error) {
	c := &models.CourseRecord{}
	err := row.Scan(
		&c.ID, &c.TrainerName, &c.BatchName, &c.OngoingModule, &c.CompletedModule, &c.UpcomingModule,
		&c.ClassDate, &c.StartTime, &c.EndTime, &c.TimeStamp,
	)
	return c, err
}

func (r *courseRepository) Create(ctx context.Context, c *models.CourseRecord) error {
	query := `
		INSERT INTO course_records (` + courseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.TrainerName, c.BatchName, c.OngoingModule, c.CompletedModule, c.UpcomingModule,
		c.ClassDate, c.StartTime, c.EndTime, c.TimeStamp,
	)

	return err
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.CourseRecord, error) {
	query := `SELECT ` + courseColumns + ` FROM course_records WHERE id = $1`

	c, err := scanCourseRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (r *courseRepository) GetAll(ctx context.Context) ([]models.CourseRecord, error) {
	query := `SELECT ` + courseColumns + ` FROM course_records ORDER BY time_stamp DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CourseRecord
	for rows.Next() {
		c, err := scanCourseRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *c)
	}

	return records, rows.Err()
}

func (r *courseRepository) Update(ctx context.Context, c *models.CourseRecord) error {
	query := `
		UPDATE course_records
		SET trainer_name = $1, batch_name = $2, ongoing_module = $3, completed_module = $4,
			upcoming_module = $5, class_date = $6, start_time = $7, end_time = $8, time_stamp = $9
		WHERE id = $10
	`

	return r.execAffecting(ctx, query,
		c.TrainerName, c.BatchName, c.OngoingModule, c.CompletedModule,
		c.UpcomingModule, c.ClassDate, c.StartTime, c.EndTime, c.TimeStamp,
		c.ID,
	)
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	return r.execAffecting(ctx, `DELETE FROM course_records WHERE id = $1`, id)
}
