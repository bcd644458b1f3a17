package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/mailer"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
)

var errBoom = errors.New("boom")

type fakeStudentRepo struct {
	students map[string]models.Student
	order    []string
}

func newFakeStudentRepo(students ...models.Student) *fakeStudentRepo {
	r := &fakeStudentRepo{students: map[string]models.Student{}}
	for _, s := range students {
		r.students[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r
}

func (r *fakeStudentRepo) Create(_ context.Context, s *models.Student) error {
	if _, ok := r.students[s.ID]; ok {
		return repository.ErrDuplicateKey
	}
	r.students[s.ID] = *s
	r.order = append(r.order, s.ID)
	return nil
}

func (r *fakeStudentRepo) GetByKey(_ context.Context, key string) (*models.Student, error) {
	s, ok := r.students[key]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeStudentRepo) GetByCredentials(_ context.Context, username, password, batchID string) (*models.Student, error) {
	for _, key := range r.order {
		s := r.students[key]
		if s.Username == username && s.Password == password && s.BatchID == batchID {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *fakeStudentRepo) ExistsByStudentID(_ context.Context, id string) (bool, error) {
	for _, s := range r.students {
		if s.StudentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStudentRepo) List(_ context.Context, f models.StudentFilter) ([]models.Student, error) {
	var out []models.Student
	for _, key := range r.order {
		s, ok := r.students[key]
		if !ok {
			continue
		}
		if f.StudentID != "" && s.StudentID != f.StudentID {
			continue
		}
		if f.BatchTime != "" && s.BatchTime != f.BatchTime {
			continue
		}
		if f.FeesStatus != "" && s.FeesStatus != f.FeesStatus {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStudentRepo) ListByBatch(ctx context.Context, batchID string) ([]models.Student, error) {
	all, _ := r.List(ctx, models.StudentFilter{})
	var out []models.Student
	for _, s := range all {
		if s.BatchID == batchID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, s *models.Student) error {
	if _, ok := r.students[s.ID]; !ok {
		return repository.ErrNotFound
	}
	r.students[s.ID] = *s
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, key string) error {
	if _, ok := r.students[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.students, key)
	return nil
}

type fakeBatchRepo struct {
	batches []models.Batch
}

func (r *fakeBatchRepo) Create(_ context.Context, b *models.Batch) error {
	r.batches = append(r.batches, *b)
	return nil
}

func (r *fakeBatchRepo) GetByID(_ context.Context, id string) (*models.Batch, error) {
	for i := range r.batches {
		if r.batches[i].ID == id {
			b := r.batches[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (r *fakeBatchRepo) GetAll(_ context.Context) ([]models.Batch, error) {
	return append([]models.Batch(nil), r.batches...), nil
}

func (r *fakeBatchRepo) Update(_ context.Context, b *models.Batch) error {
	for i := range r.batches {
		if r.batches[i].ID == b.ID {
			r.batches[i] = *b
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeBatchRepo) Delete(_ context.Context, id string) error {
	for i := range r.batches {
		if r.batches[i].ID == id {
			r.batches = append(r.batches[:i], r.batches[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeOTPRepo struct {
	states map[string]models.OTPState
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{states: map[string]models.OTPState{}}
}

func (r *fakeOTPRepo) Save(_ context.Context, sessionID string, state *models.OTPState, _ time.Duration) error {
	r.states[sessionID] = *state
	return nil
}

func (r *fakeOTPRepo) Get(_ context.Context, sessionID string) (*models.OTPState, error) {
	s, ok := r.states[sessionID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeOTPRepo) Delete(_ context.Context, sessionID string) error {
	delete(r.states, sessionID)
	return nil
}

// stubVerifier answers ConsumeVerified with a fixed result.
type stubVerifier struct {
	verified bool
	calls    int
}

func (v *stubVerifier) ConsumeVerified(context.Context, string, string) (bool, error) {
	v.calls++
	return v.verified, nil
}

type failingSender struct{}

func (failingSender) Send(context.Context, *mailer.Message) error { return errBoom }

type fakeFileRepo struct {
	files map[string]models.TrainerFile
}

func newFakeFileRepo(files ...models.TrainerFile) *fakeFileRepo {
	r := &fakeFileRepo{files: map[string]models.TrainerFile{}}
	for _, f := range files {
		r.files[f.Filename] = f
	}
	return r
}

func (r *fakeFileRepo) Upsert(_ context.Context, f *models.TrainerFile) error {
	if existing, ok := r.files[f.Filename]; ok {
		f.ID = existing.ID
	}
	r.files[f.Filename] = *f
	return nil
}

func (r *fakeFileRepo) GetByFilename(_ context.Context, name string) (*models.TrainerFile, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *fakeFileRepo) sorted(keep func(models.TrainerFile) bool) []models.TrainerFile {
	var out []models.TrainerFile
	for _, f := range r.files {
		if keep(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out
}

func (r *fakeFileRepo) ListByBatch(_ context.Context, batchID string) ([]models.TrainerFile, error) {
	return r.sorted(func(f models.TrainerFile) bool { return f.BatchID == batchID }), nil
}

func (r *fakeFileRepo) ListByUploader(_ context.Context, username string) ([]models.TrainerFile, error) {
	return r.sorted(func(f models.TrainerFile) bool { return f.UploadedBy == username }), nil
}

func (r *fakeFileRepo) ListAll(_ context.Context) ([]models.TrainerFile, error) {
	return r.sorted(func(models.TrainerFile) bool { return true }), nil
}

func (r *fakeFileRepo) DeleteByFilenameAndUploader(_ context.Context, name, uploadedBy string) (int64, error) {
	f, ok := r.files[name]
	if !ok || f.UploadedBy != uploadedBy {
		return 0, nil
	}
	delete(r.files, name)
	return 1, nil
}

func (r *fakeFileRepo) DeleteByID(_ context.Context, id string) error {
	for name, f := range r.files {
		if f.ID == id {
			delete(r.files, name)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeStorage struct {
	objects   map[string][]byte
	modified  map[string]time.Time
	existsErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) UploadFile(_ context.Context, name string, file io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	s.objects[name] = b
	return nil
}

func (s *fakeStorage) DownloadFile(_ context.Context, name string) (io.ReadCloser, int64, error) {
	b, ok := s.objects[name]
	if !ok {
		return nil, 0, repository.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), int64(len(b)), nil
}

func (s *fakeStorage) DeleteFile(_ context.Context, name string) error {
	delete(s.objects, name)
	return nil
}

func (s *fakeStorage) FileExists(_ context.Context, name string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.objects[name]
	return ok, nil
}

func (s *fakeStorage) GetPresignedURL(_ context.Context, name string, _ time.Duration) (string, error) {
	return "http://minio.local/" + name, nil
}

func (s *fakeStorage) ListFiles(_ context.Context, prefix string) ([]repository.StoredObject, error) {
	var out []repository.StoredObject
	for name, b := range s.objects {
		if strings.HasPrefix(name, prefix) {
			out = append(out, repository.StoredObject{
				Key:          name,
				Size:         int64(len(b)),
				LastModified: s.modified[name],
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

type fakeMessageRepo struct {
	messages []models.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, m *models.Message) error {
	r.messages = append(r.messages, *m)
	return nil
}

func (r *fakeMessageRepo) ListByBatch(_ context.Context, batchID string) ([]models.Message, error) {
	var out []models.Message
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].BatchID == batchID {
			out = append(out, r.messages[i])
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkBatchRead(_ context.Context, batchID, username string) (int64, error) {
	var n int64
	for i := range r.messages {
		m := &r.messages[i]
		if m.BatchID == batchID && !m.IsReadBy(username) {
			m.ReadBy = append(m.ReadBy, username)
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) CountUnread(_ context.Context, batchID, username string) (int, error) {
	n := 0
	for i := range r.messages {
		if r.messages[i].BatchID == batchID && !r.messages[i].IsReadBy(username) {
			n++
		}
	}
	return n, nil
}

type fakeFeedbackRepo struct {
	items []models.Feedback
}

func (r *fakeFeedbackRepo) Create(_ context.Context, f *models.Feedback) error {
	r.items = append(r.items, *f)
	return nil
}

func (r *fakeFeedbackRepo) GetAll(_ context.Context) ([]models.Feedback, error) {
	out := make([]models.Feedback, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		out = append(out, r.items[i])
	}
	return out, nil
}

func (r *fakeFeedbackRepo) Delete(_ context.Context, id string) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeFeedbackRepo) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(r.items))
	r.items = nil
	return n, nil
}

type fakeCredentialRepo struct {
	creds []models.RoleCredential
}

func (r *fakeCredentialRepo) Create(_ context.Context, c *models.RoleCredential) error {
	r.creds = append(r.creds, *c)
	return nil
}

func (r *fakeCredentialRepo) GetByID(_ context.Context, id string) (*models.RoleCredential, error) {
	for i := range r.creds {
		if r.creds[i].ID == id {
			c := r.creds[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCredentialRepo) GetByUsernameAndRole(_ context.Context, username, role string) (*models.RoleCredential, error) {
	for i := range r.creds {
		if r.creds[i].Username == username && r.creds[i].Role == role {
			c := r.creds[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCredentialRepo) ListByRole(_ context.Context, role string) ([]models.RoleCredential, error) {
	var out []models.RoleCredential
	for _, c := range r.creds {
		if c.Role == role {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCredentialRepo) Update(_ context.Context, c *models.RoleCredential) error {
	for i := range r.creds {
		if r.creds[i].ID == c.ID {
			r.creds[i] = *c
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeCredentialRepo) Delete(_ context.Context, id string) error {
	for i := range r.creds {
		if r.creds[i].ID == id {
			r.creds = append(r.creds[:i], r.creds[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeCourseRepo struct {
	records []models.CourseRecord
}

func (r *fakeCourseRepo) Create(_ context.Context, c *models.CourseRecord) error {
	r.records = append(r.records, *c)
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id string) (*models.CourseRecord, error) {
	for i := range r.records {
		if r.records[i].ID == id {
			c := r.records[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCourseRepo) GetAll(_ context.Context) ([]models.CourseRecord, error) {
	return append([]models.CourseRecord(nil), r.records...), nil
}

func (r *fakeCourseRepo) Update(_ context.Context, c *models.CourseRecord) error {
	for i := range r.records {
		if r.records[i].ID == c.ID {
			r.records[i] = *c
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeCourseRepo) Delete(_ context.Context, id string) error {
	for i := range r.records {
		if r.records[i].ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakePublisher struct {
	events []models.ReceiptRequestedEvent
	err    error
}

func (p *fakePublisher) PublishReceiptRequested(_ context.Context, e *models.ReceiptRequestedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *e)
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(s models.Session) (string, models.Session, error) {
	s.SessionID = "sess-1"
	return "token-" + s.Username, s, nil
}
