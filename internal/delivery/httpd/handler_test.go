package httpd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/auth"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/service"
)

const testCookie = "techzone_session"

type stubAuth struct {
	service.AuthService
	tokens *auth.TokenManager
}

func (s stubAuth) Login(_ context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if req.Password != "secret" {
		return nil, service.ErrInvalidCredentials
	}
	token, session, err := s.tokens.Issue(models.Session{Username: req.Username, Role: req.Role})
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, Session: session}, nil
}

type stubStudents struct {
	service.StudentService
	students map[string]models.Student
	listErr  error
	created  string
}

func (s *stubStudents) GetStudent(_ context.Context, key string) (*models.Student, error) {
	st, ok := s.students[key]
	if !ok {
		return nil, service.ErrStudentNotFound
	}
	return &st, nil
}

func (s *stubStudents) ListStudents(_ context.Context, f models.StudentFilter) ([]models.Student, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Student
	for _, st := range s.students {
		if f.FeesStatus == "" || st.FeesStatus == f.FeesStatus {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *stubStudents) CreateStudent(_ context.Context, sessionID string, req *models.StudentRequest) (*models.Student, error) {
	s.created = sessionID
	return &models.Student{ID: "PY0001", StudentName: req.StudentName}, nil
}

type stubFiles struct {
	service.DownloadService
	content *models.FileContent
	err     error
}

func (s stubFiles) DownloadFile(context.Context, string, models.Session) (*models.FileContent, error) {
	return s.content, s.err
}

func (s stubFiles) ListByBatch(_ context.Context, batchID string) ([]models.TrainerFile, error) {
	return []models.TrainerFile{{Filename: "ravi_notes.pdf", BatchID: batchID}}, nil
}

type stubDeletes struct {
	service.DeleteService
	err error
}

func (s stubDeletes) DeleteTrainerFile(context.Context, string, string) error { return s.err }

type stubMessageRepo struct {
	repository.MessageRepository
	marked []string
}

func (r *stubMessageRepo) MarkBatchRead(_ context.Context, batchID, username string) (int64, error) {
	r.marked = append(r.marked, batchID+"/"+username)
	return 2, nil
}

type testServer struct {
	router http.Handler
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T, svc Services) *testServer {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", "test", time.Hour)
	if svc.Auth == nil {
		svc.Auth = stubAuth{tokens: tokens}
	}

	h := NewHandler(svc, CookieConfig{Name: testCookie, TTL: time.Hour}, 0, map[string]ReadinessCheck{
		"postgres": func(*http.Request) error { return nil },
	}, zerolog.Nop())

	r := chi.NewRouter()
	r.Use(Recovery(zerolog.Nop()))
	r.Use(tokens.Authenticate(testCookie))
	h.RegisterRoutes(r)

	return &testServer{router: r, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, target string, body []byte, session *models.Session) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		token, _, err := s.tokens.Issue(*session)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

var (
	adminSession   = &models.Session{Username: "meena", Role: models.RoleAdmin, SessionID: "sess-1"}
	studentSession = &models.Session{Username: "asha", Role: models.RoleStudent, StudentBatch: "b1"}
	trainerSession = &models.Session{Username: "ravi", Role: models.RoleTrainer}
)

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, Services{})

	rec := srv.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["checks"].(map[string]interface{})["postgres"])
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t, Services{})

	t.Run("sets http-only cookie", func(t *testing.T) {
		body := []byte(`{"role":"Admin","username":"meena","password":"secret"}`)
		rec := srv.do(t, http.MethodPost, "/api/v1/auth/login", body, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, testCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.NotEmpty(t, cookies[0].Value)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := []byte(`{"role":"Admin","username":"meena","password":"nope"}`)
		rec := srv.do(t, http.MethodPost, "/api/v1/auth/login", body, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("student needs batch", func(t *testing.T) {
		body := []byte(`{"role":"Student","username":"asha","password":"secret"}`)
		rec := srv.do(t, http.MethodPost, "/api/v1/auth/login", body, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		fields := decodeBody(t, rec)["error"].(map[string]interface{})["fields"].([]interface{})
		require.Len(t, fields, 1)
		assert.Equal(t, "batch_id", fields[0].(map[string]interface{})["field"])
	})

	t.Run("unknown role", func(t *testing.T) {
		body := []byte(`{"role":"Guest","username":"x","password":"secret"}`)
		rec := srv.do(t, http.MethodPost, "/api/v1/auth/login", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRoleGuards(t *testing.T) {
	students := &stubStudents{students: map[string]models.Student{"PY0001": {ID: "PY0001"}}}
	srv := newTestServer(t, Services{Students: students})

	tests := []struct {
		name    string
		session *models.Session
		want    int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"student", studentSession, http.StatusForbidden},
		{"trainer", trainerSession, http.StatusForbidden},
		{"admin", adminSession, http.StatusOK},
		{"super admin", &models.Session{Username: "root", Role: models.RoleSuperAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, "/api/v1/students", nil, tt.session)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestStudentErrorsMapToStatus(t *testing.T) {
	students := &stubStudents{students: map[string]models.Student{}}
	srv := newTestServer(t, Services{Students: students})

	rec := srv.do(t, http.MethodGet, "/api/v1/students/missing", nil, adminSession)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, service.ErrStudentNotFound.Error(), decodeBody(t, rec)["error"].(map[string]interface{})["message"])

	students.listErr = errors.New("connection refused")
	rec = srv.do(t, http.MethodGet, "/api/v1/students", nil, adminSession)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestCreateStudent(t *testing.T) {
	students := &stubStudents{}
	srv := newTestServer(t, Services{Students: students})

	t.Run("validation", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/students", []byte(`{"student_name":"Asha"}`), adminSession)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"field":"email"`)
	})

	t.Run("uses session for otp", func(t *testing.T) {
		body, err := json.Marshal(models.StudentRequest{
			CourseInitials: "PY", StudentName: "Asha", StudentNumber: "9876543210",
			Email: "asha@example.com", CourseName: "Python", BatchTime: "Python (10:00)-(11:00) (2025-08-01)",
			Username: "asha", Password: "pw",
		})
		require.NoError(t, err)

		rec := srv.do(t, http.MethodPost, "/api/v1/students", body, adminSession)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "sess-1", students.created)
	})
}

func TestDownloadFile(t *testing.T) {
	files := stubFiles{content: &models.FileContent{
		FileName: "ravi_notes.pdf", ContentType: "application/pdf", FileSize: 3, Content: []byte("pdf"),
	}}
	srv := newTestServer(t, Services{Downloads: files})

	rec := srv.do(t, http.MethodGet, "/api/v1/files/ravi_notes.pdf", nil, studentSession)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), `attachment; filename="ravi_notes.pdf"`))
	assert.Equal(t, "pdf", rec.Body.String())

	denied := newTestServer(t, Services{Downloads: stubFiles{err: service.ErrFileAccessDenied}})
	rec = denied.do(t, http.MethodGet, "/api/v1/files/ravi_notes.pdf", nil, studentSession)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBatchFilesVisibleToOwnBatchOnly(t *testing.T) {
	srv := newTestServer(t, Services{Downloads: stubFiles{}})

	rec := srv.do(t, http.MethodGet, "/api/v1/batches/b1/files", nil, studentSession)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/batches/b2/files", nil, studentSession)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/batches/b2/files", nil, trainerSession)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteFileNotOwner(t *testing.T) {
	srv := newTestServer(t, Services{Deletes: stubDeletes{err: service.ErrNotFileOwner}})

	rec := srv.do(t, http.MethodDelete, "/api/v1/files/someone_notes.pdf", nil, trainerSession)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You can only delete files you uploaded!")
}

func TestUploadRequiresFileAndBatch(t *testing.T) {
	srv := newTestServer(t, Services{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("batch_id", "b1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	token, _, err := srv.tokens.Issue(*trainerSession)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: token})

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), service.ErrNoFilePart.Error())
}

func TestMarkMessagesRead(t *testing.T) {
	repo := &stubMessageRepo{}
	srv := newTestServer(t, Services{Messages: service.NewMessageService(repo, zerolog.Nop())})

	rec := srv.do(t, http.MethodPost, "/api/v1/messages/read", nil, studentSession)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeBody(t, rec)["data"].(map[string]interface{})["marked"])
	assert.Equal(t, []string{"b1/asha"}, repo.marked)

	noBatch := &models.Session{Username: "kiran", Role: models.RoleStudent}
	rec = srv.do(t, http.MethodPost, "/api/v1/messages/read", nil, noBatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), service.ErrNoBatch.Error())
	assert.Len(t, repo.marked, 1)
}
