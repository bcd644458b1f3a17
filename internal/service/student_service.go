package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/batchname"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/studentid"
)

const (
	createdAtLayout      = "2006-01-02 15:04:05"
	enrollmentDateLayout = "02-01-2006"
	enrollmentTimeLayout = "03:04 PM"
)

type StudentService interface {
	CreateStudent(ctx context.Context, sessionID string, req *models.StudentRequest) (*models.Student, error)
	UpdateStudent(ctx context.Context, key string, req *models.StudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, key string) error
	GetStudent(ctx context.Context, key string) (*models.Student, error)
	ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	GetReceipt(ctx context.Context, key string) (*models.StudentReceipt, error)
	Authenticate(ctx context.Context, username, password, batchID string) (*models.Student, error)
}

type studentService struct {
	studentRepo repository.StudentRepository
	batchRepo   repository.BatchRepository
	otp         OTPVerifier
	logger      zerolog.Logger
}

func NewStudentService(
	studentRepo repository.StudentRepository,
	batchRepo repository.BatchRepository,
	otp OTPVerifier,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		studentRepo: studentRepo,
		batchRepo:   batchRepo,
		otp:         otp,
		logger:      logger,
	}
}

// uniqueFields are the values that must not repeat across students.
type uniqueFields struct {
	StudentID string
	Email     string
	Username  string
	Password  string
}

// checkUnique scans every student except excludeKey. Empty values are not
// checked. The order of the checks decides which error is reported.
func checkUnique(students []models.Student, c uniqueFields, excludeKey string) error {
	for _, s := range students {
		if excludeKey != "" && s.ID == excludeKey {
			continue
		}
		if c.StudentID != "" && s.StudentID == c.StudentID {
			return ErrStudentIDExists
		}
	}
	for _, s := range students {
		if excludeKey != "" && s.ID == excludeKey {
			continue
		}
		if c.Email != "" && s.Email == c.Email {
			return ErrStudentEmailExists
		}
	}
	for _, s := range students {
		if excludeKey != "" && s.ID == excludeKey {
			continue
		}
		if c.Username != "" && s.Username == c.Username {
			return ErrUsernameExists
		}
	}
	for _, s := range students {
		if excludeKey != "" && s.ID == excludeKey {
			continue
		}
		if c.Password != "" && s.Password == c.Password {
			return ErrPasswordExists
		}
	}
	return nil
}

func resolveInitials(req *models.StudentRequest) (string, error) {
	initials, err := studentid.ResolveInitials(strings.TrimSpace(req.CourseInitials), req.CustomInitials)
	if err != nil {
		return "", NewValidationError(err, FieldError{Field: "custom_initials", Error: err.Error()})
	}
	return initials, nil
}

// applyFees copies the fee fields, resolving the custom due date and the
// outstanding amount.
func applyFees(s *models.Student, req *models.StudentRequest) {
	s.TotalFees = req.TotalFees
	s.FeesPaid = req.FeesPaid
	s.DueFees = req.DueFees
	if s.DueFees == 0 && s.TotalFees > s.FeesPaid {
		s.DueFees = s.TotalFees - s.FeesPaid
	}
	s.Installments = req.Installments
	s.FeesDueDate = req.FeesDueDate
	if strings.EqualFold(req.FeesDueDate, models.CustomDueDate) {
		s.FeesDueDate = req.CustomDate
	}
	s.FeesStatus = req.FeesStatus
	if s.FeesStatus == "" {
		s.FeesStatus = "Pending"
		if s.TotalFees > 0 && s.FeesPaid >= s.TotalFees {
			s.FeesStatus = models.FeesStatusPaid
		}
	}
}

func (s *studentService) CreateStudent(ctx context.Context, sessionID string, req *models.StudentRequest) (*models.Student, error) {
	initials, err := resolveInitials(req)
	if err != nil {
		return nil, err
	}

	batchID := req.BatchID
	if batchID == "" {
		batches, err := s.batchRepo.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load batches: %w", err)
		}
		if b := batchname.MatchLabel(req.BatchTime, batches); b != nil {
			batchID = b.ID
		}
	}

	verified, err := s.otp.ConsumeVerified(ctx, sessionID, req.Email)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, ErrOTPNotVerified
	}

	existing, err := s.studentRepo.List(ctx, models.StudentFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}
	if err := checkUnique(existing, uniqueFields{
		StudentID: req.StudentID,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
	}, ""); err != nil {
		return nil, err
	}

	id := studentid.Simple(initials, strings.TrimSpace(req.StudentNumber))
	taken, err := s.simpleIDTaken(ctx, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSimpleIDTaken
	}

	now := time.Now()
	student := &models.Student{
		ID:             id,
		StudentID:      id,
		CourseInitials: initials,
		StudentName:    strings.TrimSpace(req.StudentName),
		StudentNumber:  strings.TrimSpace(req.StudentNumber),
		Email:          strings.TrimSpace(req.Email),
		CourseName:     req.CourseName,
		BatchTime:      req.BatchTime,
		BatchID:        batchID,
		Username:       req.Username,
		Password:       req.Password,
		EnrollmentDate: now.Format(enrollmentDateLayout),
		EnrollmentTime: now.Format(enrollmentTimeLayout),
		CreatedAt:      now,
	}
	applyFees(student, req)

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSimpleIDTaken
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info().
		Str("student_id", student.StudentID).
		Str("batch_id", student.BatchID).
		Msg("Student created")

	return student, nil
}

func (s *studentService) UpdateStudent(ctx context.Context, key string, req *models.StudentRequest) (*models.Student, error) {
	current, err := s.studentRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if current == nil {
		return nil, ErrStudentNotFound
	}

	initials, err := resolveInitials(req)
	if err != nil {
		return nil, err
	}

	batches, err := s.batchRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load batches: %w", err)
	}

	existing, err := s.studentRepo.List(ctx, models.StudentFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	oldSched := batchname.Resolve(current.BatchTime, batches)
	newSched := batchname.Resolve(req.BatchTime, batches)
	batchChanged := current.BatchTime != req.BatchTime || oldSched.StartDate != newSched.StartDate

	newID := ""
	if batchChanged {
		newID, err = s.regenerateID(ctx, current, initials, req, newSched, batches, existing)
		if err != nil {
			return nil, err
		}
	}

	if err := checkUnique(existing, uniqueFields{
		StudentID: newID,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
	}, current.ID); err != nil {
		return nil, err
	}

	updated := *current
	if newID != "" {
		updated.StudentID = newID
	}
	updated.CourseInitials = initials
	updated.StudentName = strings.TrimSpace(req.StudentName)
	updated.StudentNumber = strings.TrimSpace(req.StudentNumber)
	updated.Email = strings.TrimSpace(req.Email)
	updated.CourseName = req.CourseName
	updated.BatchTime = req.BatchTime
	updated.Username = req.Username
	updated.Password = req.Password
	switch {
	case req.BatchID != "":
		updated.BatchID = req.BatchID
	case batchChanged:
		if b := batchname.MatchLabel(req.BatchTime, batches); b != nil {
			updated.BatchID = b.ID
		}
	}
	applyFees(&updated, req)
	now := time.Now()
	updated.UpdatedAt = &now

	if err := s.studentRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	s.logger.Info().
		Str("key", updated.ID).
		Str("student_id", updated.StudentID).
		Bool("id_regenerated", newID != "" && newID != current.StudentID).
		Msg("Student updated")

	return &updated, nil
}

// regenerateID picks the simple identifier when it is free (or already the
// student's own) and the next sequence identifier otherwise.
func (s *studentService) regenerateID(
	ctx context.Context,
	current *models.Student,
	initials string,
	req *models.StudentRequest,
	sched batchname.Schedule,
	batches []models.Batch,
	existing []models.Student,
) (string, error) {
	simple := studentid.Simple(initials, strings.TrimSpace(req.StudentNumber))
	if simple == current.StudentID {
		return simple, nil
	}

	taken, err := s.studentRepo.ExistsByStudentID(ctx, simple)
	if err != nil {
		return "", fmt.Errorf("failed to check student id: %w", err)
	}
	if !taken {
		return simple, nil
	}

	ids := make([]string, 0, len(existing))
	for _, st := range existing {
		ids = append(ids, st.StudentID)
	}
	return studentid.Sequence(initials, ids, sched.FillTimes(req.BatchTime, batches)), nil
}

func (s *studentService) DeleteStudent(ctx context.Context, key string) error {
	if err := s.studentRepo.Delete(ctx, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to delete student: %w", err)
	}

	s.logger.Info().Str("key", key).Msg("Student deleted")
	return nil
}

// simpleIDTaken reports whether id is in use as a student ID or as the key of
// a record whose student ID was regenerated on update.
func (s *studentService) simpleIDTaken(ctx context.Context, id string) (bool, error) {
	taken, err := s.studentRepo.ExistsByStudentID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check student id: %w", err)
	}
	if taken {
		return true, nil
	}
	owner, err := s.studentRepo.GetByKey(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check student key: %w", err)
	}
	return owner != nil, nil
}

func (s *studentService) GetStudent(ctx context.Context, key string) (*models.Student, error) {
	student, err := s.studentRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	return student, nil
}

func (s *studentService) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	students, err := s.studentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// BuildReceipt fills the printable defaults for a student.
func BuildReceipt(student *models.Student) *models.StudentReceipt {
	r := &models.StudentReceipt{Student: *student}
	if r.DueFees == 0 && r.TotalFees > r.FeesPaid {
		r.DueFees = r.TotalFees - r.FeesPaid
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAtDisplay = "Not recorded"
	} else {
		r.CreatedAtDisplay = r.CreatedAt.Format(createdAtLayout)
	}
	return r
}

func (s *studentService) GetReceipt(ctx context.Context, key string) (*models.StudentReceipt, error) {
	student, err := s.GetStudent(ctx, key)
	if err != nil {
		return nil, err
	}
	return BuildReceipt(student), nil
}

func (s *studentService) Authenticate(ctx context.Context, username, password, batchID string) (*models.Student, error) {
	student, err := s.studentRepo.GetByCredentials(ctx, username, password, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate student: %w", err)
	}
	if student == nil {
		return nil, ErrInvalidCredentials
	}
	return student, nil
}
