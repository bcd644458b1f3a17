package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByKey(ctx context.Context, key string) (*models.Student, error)
	GetByCredentials(ctx context.Context, username, password, batchID string) (*models.Student, error)
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	ListByBatch(ctx context.Context, batchID string) ([]models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, key string) error
}

type studentRepository struct {
	*PostgresRepository
}

func NewStudentRepository(db *sql.DB, logger zerolog.Logger) StudentRepository {
	return &studentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const studentColumns = `
	id, student_id, course_initials, student_name, student_number, email,
	course_name, batch_time, batch_id, total_fees, fees_paid, due_fees,
	installments, fees_due_date, fees_status, username, password,
	enrollment_date, enrollment_time, created_at, updated_at`

func scanStudent(row rowScanner) (*models.Student, error) {
	s := &models.Student{}
	var updatedAt sql.NullTime
	err := row.Scan(
		&s.ID, &s.StudentID, &s.CourseInitials, &s.StudentName, &s.StudentNumber, &s.Email,
		&s.CourseName, &s.BatchTime, &s.BatchID, &s.TotalFees, &s.FeesPaid, &s.DueFees,
		&s.Installments, &s.FeesDueDate, &s.FeesStatus, &s.Username, &s.Password,
		&s.EnrollmentDate, &s.EnrollmentTime, &s.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.UpdatedAt = timePtr(updatedAt)
	return s, nil
}

func (r *studentRepository) queryStudents(ctx context.Context, query string, args ...interface{}) ([]models.Student, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}

	return students, rows.Err()
}

func (r *studentRepository) Create(ctx context.Context, s *models.Student) error {
	query := `
		INSERT INTO students (` + studentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.StudentID, s.CourseInitials, s.StudentName, s.StudentNumber, s.Email,
		s.CourseName, s.BatchTime, s.BatchID, s.TotalFees, s.FeesPaid, s.DueFees,
		s.Installments, s.FeesDueDate, s.FeesStatus, s.Username, s.Password,
		s.EnrollmentDate, s.EnrollmentTime, s.CreatedAt, nullTime(s.UpdatedAt),
	)

	return mapUniqueViolation(err)
}

func (r *studentRepository) GetByKey(ctx context.Context, key string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	s, err := scanStudent(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return s, err
}

func (r *studentRepository) GetByCredentials(ctx context.Context, username, password, batchID string) (*models.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE username = $1 AND password = $2 AND batch_id = $3
		LIMIT 1
	`

	s, err := scanStudent(r.db.QueryRowContext(ctx, query, username, password, batchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return s, err
}

func (r *studentRepository) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM students WHERE student_id = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, studentID).Scan(&exists)
	return exists, err
}

func (r *studentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where = append(where, column+" = $"+strconv.Itoa(len(args)))
	}
	add("student_id", filter.StudentID)
	add("batch_time", filter.BatchTime)
	add("fees_status", filter.FeesStatus)

	query := `SELECT ` + studentColumns + ` FROM students`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	return r.queryStudents(ctx, query, args...)
}

func (r *studentRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE batch_id = $1 ORDER BY student_name`
	return r.queryStudents(ctx, query, batchID)
}

func (r *studentRepository) Update(ctx context.Context, s *models.Student) error {
	query := `
		UPDATE students
		SET student_id = $1, course_initials = $2, student_name = $3, student_number = $4,
			email = $5, course_name = $6, batch_time = $7, batch_id = $8, total_fees = $9,
			fees_paid = $10, due_fees = $11, installments = $12, fees_due_date = $13,
			fees_status = $14, username = $15, password = $16, updated_at = $17
		WHERE id = $18
	`

	return r.execAffecting(ctx, query,
		s.StudentID, s.CourseInitials, s.StudentName, s.StudentNumber,
		s.Email, s.CourseName, s.BatchTime, s.BatchID, s.TotalFees,
		s.FeesPaid, s.DueFees, s.Installments, s.FeesDueDate,
		s.FeesStatus, s.Username, s.Password, nullTime(s.UpdatedAt),
		s.ID,
	)
}

func (r *studentRepository) Delete(ctx context.Context, key string) error {
	return r.execAffecting(ctx, `DELETE FROM students WHERE id = $1`, key)
}
