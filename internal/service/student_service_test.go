package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/studentid"
)

var (
	pythonBatch = models.Batch{
		ID: "b1", BatchName: "Python", OriginalBatchName: "Python",
		StartTime: "10:00", EndTime: "11:00", BatchStartDate: "2025-08-01",
	}
	javaBatch = models.Batch{
		ID: "b2", BatchName: "Java", OriginalBatchName: "Java",
		StartTime: "14:00", EndTime: "15:00", BatchStartDate: "2025-09-01",
	}
)

func newStudentRequest() *models.StudentRequest {
	return &models.StudentRequest{
		CourseInitials: "PY",
		StudentName:    "Asha",
		StudentNumber:  "9876543210",
		Email:          "asha@example.com",
		CourseName:     "Python Full Stack",
		BatchTime:      pythonBatch.Label(),
		TotalFees:      10000,
		FeesPaid:       4000,
		Username:       "asha",
		Password:       "secret1",
	}
}

func newTestStudentService(verified bool, students ...models.Student) (StudentService, *fakeStudentRepo, *stubVerifier) {
	repo := newFakeStudentRepo(students...)
	batches := &fakeBatchRepo{batches: []models.Batch{pythonBatch, javaBatch}}
	otp := &stubVerifier{verified: verified}
	return NewStudentService(repo, batches, otp, zerolog.Nop()), repo, otp
}

func TestCreateStudent(t *testing.T) {
	svc, repo, otp := newTestStudentService(true)

	student, err := svc.CreateStudent(context.Background(), "sess", newStudentRequest())
	require.NoError(t, err)

	assert.Equal(t, "PY 9876543210", student.StudentID)
	assert.Equal(t, student.StudentID, student.ID)
	assert.Equal(t, "b1", student.BatchID)
	assert.Equal(t, float64(6000), student.DueFees)
	assert.Equal(t, "Pending", student.FeesStatus)
	assert.NotEmpty(t, student.EnrollmentDate)
	assert.NotEmpty(t, student.EnrollmentTime)
	assert.False(t, student.CreatedAt.IsZero())
	assert.Equal(t, 1, otp.calls)

	stored, err := repo.GetByKey(context.Background(), "PY 9876543210")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "asha@example.com", stored.Email)
}

func TestCreateStudentCustomFields(t *testing.T) {
	svc, _, _ := newTestStudentService(true)

	req := newStudentRequest()
	req.CourseInitials = models.CustomCourseOption
	req.CustomInitials = " ds "
	req.FeesDueDate = models.CustomDueDate
	req.CustomDate = "2025-10-15"
	req.FeesPaid = 10000

	student, err := svc.CreateStudent(context.Background(), "sess", req)
	require.NoError(t, err)

	assert.Equal(t, "DS 9876543210", student.StudentID)
	assert.Equal(t, "2025-10-15", student.FeesDueDate)
	assert.Equal(t, models.FeesStatusPaid, student.FeesStatus)
	assert.Zero(t, student.DueFees)
}

func TestCreateStudentRejects(t *testing.T) {
	existing := models.Student{
		ID: "X1", StudentID: "JV 1111111111",
		Email: "taken@example.com", Username: "taken", Password: "takenpw",
	}
	simpleOwner := models.Student{
		ID: "X2", StudentID: "PY 9876543210",
		Email: "other@example.com", Username: "other", Password: "otherpw",
	}
	movedOwner := models.Student{
		ID: "PY 9876543210", StudentID: "PY 1111111111",
		Email: "moved@example.com", Username: "moved", Password: "movedpw",
	}

	tests := []struct {
		name     string
		verified bool
		mutate   func(r *models.StudentRequest)
		students []models.Student
		wantErr  error
	}{
		{
			name:     "otp not verified",
			verified: false,
			mutate:   func(*models.StudentRequest) {},
			wantErr:  ErrOTPNotVerified,
		},
		{
			name:     "invalid custom initials",
			verified: true,
			mutate: func(r *models.StudentRequest) {
				r.CourseInitials = models.CustomCourseOption
				r.CustomInitials = "TOOLONG"
			},
			wantErr: studentid.ErrInvalidCustomInitials,
		},
		{
			name:     "duplicate student id",
			verified: true,
			mutate:   func(r *models.StudentRequest) { r.StudentID = "JV 1111111111" },
			students: []models.Student{existing},
			wantErr:  ErrStudentIDExists,
		},
		{
			name:     "duplicate email",
			verified: true,
			mutate:   func(r *models.StudentRequest) { r.Email = "taken@example.com" },
			students: []models.Student{existing},
			wantErr:  ErrStudentEmailExists,
		},
		{
			name:     "duplicate username",
			verified: true,
			mutate:   func(r *models.StudentRequest) { r.Username = "taken" },
			students: []models.Student{existing},
			wantErr:  ErrUsernameExists,
		},
		{
			name:     "duplicate password",
			verified: true,
			mutate:   func(r *models.StudentRequest) { r.Password = "takenpw" },
			students: []models.Student{existing},
			wantErr:  ErrPasswordExists,
		},
		{
			name:     "email reported before username",
			verified: true,
			mutate: func(r *models.StudentRequest) {
				r.Email = "taken@example.com"
				r.Username = "taken"
			},
			students: []models.Student{existing},
			wantErr:  ErrStudentEmailExists,
		},
		{
			name:     "simple id taken",
			verified: true,
			mutate:   func(*models.StudentRequest) {},
			students: []models.Student{simpleOwner},
			wantErr:  ErrSimpleIDTaken,
		},
		{
			name:     "simple id still used as record key",
			verified: true,
			mutate:   func(*models.StudentRequest) {},
			students: []models.Student{movedOwner},
			wantErr:  ErrSimpleIDTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestStudentService(tt.verified, tt.students...)
			req := newStudentRequest()
			tt.mutate(req)

			_, err := svc.CreateStudent(context.Background(), "sess", req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateStudentAfterUpdateMovedStudentID(t *testing.T) {
	svc, repo, _ := newTestStudentService(true, enrolled())

	req := newStudentRequest()
	req.StudentNumber = "1111111111"
	req.BatchTime = javaBatch.Label()
	updated, err := svc.UpdateStudent(context.Background(), "PY 9876543210", req)
	require.NoError(t, err)
	require.Equal(t, "PY 9876543210", updated.ID)
	require.Equal(t, "PY 1111111111", updated.StudentID)

	second := newStudentRequest()
	second.Email = "second@example.com"
	second.Username = "second"
	second.Password = "secondpw"
	_, err = svc.CreateStudent(context.Background(), "sess", second)
	assert.ErrorIs(t, err, ErrSimpleIDTaken)

	stored, _ := repo.GetByKey(context.Background(), "PY 9876543210")
	require.NotNil(t, stored)
	assert.Equal(t, "asha@example.com", stored.Email)
}

func TestCreateStudentInvalidInitialsIsValidationError(t *testing.T) {
	svc, _, _ := newTestStudentService(true)
	req := newStudentRequest()
	req.CourseInitials = models.CustomCourseOption
	req.CustomInitials = "A"

	_, err := svc.CreateStudent(context.Background(), "sess", req)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "custom_initials", verr.Fields[0].Field)
}

func enrolled() models.Student {
	return models.Student{
		ID:             "PY 9876543210",
		StudentID:      "PY 9876543210",
		CourseInitials: "PY",
		StudentName:    "Asha",
		StudentNumber:  "9876543210",
		Email:          "asha@example.com",
		BatchTime:      pythonBatch.Label(),
		BatchID:        "b1",
		Username:       "asha",
		Password:       "secret1",
		CreatedAt:      time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestUpdateStudentKeepsIDWhenBatchUnchanged(t *testing.T) {
	svc, _, _ := newTestStudentService(true, enrolled())

	req := newStudentRequest()
	req.CourseInitials = "JV"
	req.StudentName = "Asha K"

	updated, err := svc.UpdateStudent(context.Background(), "PY 9876543210", req)
	require.NoError(t, err)

	assert.Equal(t, "PY 9876543210", updated.StudentID)
	assert.Equal(t, "Asha K", updated.StudentName)
	assert.Equal(t, "b1", updated.BatchID)
	require.NotNil(t, updated.UpdatedAt)
}

func TestUpdateStudentRegeneratesID(t *testing.T) {
	other := models.Student{
		ID: "JV 9876543210", StudentID: "JV 9876543210",
		Email: "o@example.com", Username: "o", Password: "opw",
	}

	tests := []struct {
		name     string
		students []models.Student
		initials string
		wantID   string
	}{
		{
			name:     "simple id unchanged",
			students: []models.Student{enrolled()},
			initials: "PY",
			wantID:   "PY 9876543210",
		},
		{
			name:     "simple id free",
			students: []models.Student{enrolled()},
			initials: "JV",
			wantID:   "JV 9876543210",
		},
		{
			name:     "simple id taken falls back to sequence",
			students: []models.Student{enrolled(), other},
			initials: "JV",
			wantID:   "JV001 (14:00)-(15:00) (01-SEP-2025)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestStudentService(true, tt.students...)

			req := newStudentRequest()
			req.CourseInitials = tt.initials
			req.BatchTime = javaBatch.Label()

			updated, err := svc.UpdateStudent(context.Background(), "PY 9876543210", req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantID, updated.StudentID)
			assert.Equal(t, "PY 9876543210", updated.ID)
			assert.Equal(t, "b2", updated.BatchID)

			stored, _ := repo.GetByKey(context.Background(), "PY 9876543210")
			require.NotNil(t, stored)
			assert.Equal(t, tt.wantID, stored.StudentID)
		})
	}
}

func TestUpdateStudentUniquenessExcludesSelf(t *testing.T) {
	other := models.Student{ID: "X1", StudentID: "X1", Email: "o@example.com", Username: "o", Password: "opw"}
	svc, _, _ := newTestStudentService(true, enrolled(), other)

	_, err := svc.UpdateStudent(context.Background(), "PY 9876543210", newStudentRequest())
	require.NoError(t, err)

	req := newStudentRequest()
	req.Username = "o"
	_, err = svc.UpdateStudent(context.Background(), "PY 9876543210", req)
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUpdateStudentNotFound(t *testing.T) {
	svc, _, _ := newTestStudentService(true)
	_, err := svc.UpdateStudent(context.Background(), "missing", newStudentRequest())
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestDeleteAndGetStudent(t *testing.T) {
	svc, _, _ := newTestStudentService(true, enrolled())
	ctx := context.Background()

	got, err := svc.GetStudent(ctx, "PY 9876543210")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.StudentName)

	require.NoError(t, svc.DeleteStudent(ctx, "PY 9876543210"))
	assert.ErrorIs(t, svc.DeleteStudent(ctx, "PY 9876543210"), ErrStudentNotFound)

	_, err = svc.GetStudent(ctx, "PY 9876543210")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestListStudentsFilters(t *testing.T) {
	paid := enrolled()
	paid.ID, paid.StudentID, paid.FeesStatus = "A", "A", models.FeesStatusPaid
	pending := enrolled()
	pending.ID, pending.StudentID, pending.FeesStatus, pending.BatchTime = "B", "B", "Pending", javaBatch.Label()

	svc, _, _ := newTestStudentService(true, paid, pending)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter models.StudentFilter
		want   []string
	}{
		{"all", models.StudentFilter{}, []string{"A", "B"}},
		{"by id", models.StudentFilter{StudentID: "B"}, []string{"B"}},
		{"by batch", models.StudentFilter{BatchTime: pythonBatch.Label()}, []string{"A"}},
		{"by status", models.StudentFilter{FeesStatus: models.FeesStatusPaid}, []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students, err := svc.ListStudents(ctx, tt.filter)
			require.NoError(t, err)
			var ids []string
			for _, s := range students {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestBuildReceipt(t *testing.T) {
	s := enrolled()
	s.TotalFees, s.FeesPaid = 5000, 1500

	r := BuildReceipt(&s)
	assert.Equal(t, float64(3500), r.DueFees)
	assert.Equal(t, "2025-08-01 09:30:00", r.CreatedAtDisplay)

	s.CreatedAt = time.Time{}
	assert.Equal(t, "Not recorded", BuildReceipt(&s).CreatedAtDisplay)
}

func TestAuthenticateStudent(t *testing.T) {
	svc, _, _ := newTestStudentService(true, enrolled())
	ctx := context.Background()

	s, err := svc.Authenticate(ctx, "asha", "secret1", "b1")
	require.NoError(t, err)
	assert.Equal(t, "PY 9876543210", s.ID)

	_, err = svc.Authenticate(ctx, "asha", "secret1", "b2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
