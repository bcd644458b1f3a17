package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

func newTestCredentialService(repo *fakeCredentialRepo) CredentialService {
	svc := NewCredentialService(repo, zerolog.Nop()).(*credentialService)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestAddAdmin(t *testing.T) {
	ctx := context.Background()
	repo := &fakeCredentialRepo{}
	svc := newTestCredentialService(repo)

	admin, err := svc.AddAdmin(ctx, &models.AdminRequest{Username: " meena ", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "meena", admin.Username)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, models.StatusActive, admin.Status)
	assert.Equal(t, "pw1", admin.OriginalPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("pw1")))

	_, err = svc.AddAdmin(ctx, &models.AdminRequest{Username: "meena", Password: "pw2"})
	assert.ErrorIs(t, err, ErrAdminExists)

	_, err = svc.AddAdmin(ctx, &models.AdminRequest{Username: "x"})
	assert.ErrorIs(t, err, ErrCredentialsRequired)

	// Same username under another role is allowed.
	_, err = svc.CreateUser(ctx, "meena", "pw3", models.RoleTrainer)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "joe", "pw", models.RoleStudent)
	assert.ErrorIs(t, err, ErrInvalidRole)

	admins, err := svc.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

func TestUpdateAndDeleteAdmin(t *testing.T) {
	ctx := context.Background()
	repo := &fakeCredentialRepo{}
	svc := newTestCredentialService(repo)

	a, err := svc.AddAdmin(ctx, &models.AdminRequest{Username: "a", Password: "pw-a"})
	require.NoError(t, err)
	_, err = svc.AddAdmin(ctx, &models.AdminRequest{Username: "b", Password: "pw-b"})
	require.NoError(t, err)
	trainer, err := svc.CreateUser(ctx, "t", "pw-t", models.RoleTrainer)
	require.NoError(t, err)

	updated, err := svc.UpdateAdmin(ctx, a.ID, &models.AdminRequest{Username: "a2"})
	require.NoError(t, err)
	assert.Equal(t, "a2", updated.Username)
	assert.Equal(t, a.PasswordHash, updated.PasswordHash, "password unchanged when omitted")

	updated, err = svc.UpdateAdmin(ctx, a.ID, &models.AdminRequest{Username: "a2", Password: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.OriginalPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new")))

	_, err = svc.UpdateAdmin(ctx, a.ID, &models.AdminRequest{Username: "b"})
	assert.ErrorIs(t, err, ErrAdminExists)

	_, err = svc.UpdateAdmin(ctx, trainer.ID, &models.AdminRequest{Username: "t2"})
	assert.ErrorIs(t, err, ErrAdminNotFound)

	require.NoError(t, svc.DeleteAdmin(ctx, a.ID))
	assert.ErrorIs(t, svc.DeleteAdmin(ctx, a.ID), ErrAdminNotFound)
	assert.ErrorIs(t, svc.DeleteAdmin(ctx, trainer.ID), ErrAdminNotFound)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	creds := newTestCredentialService(&fakeCredentialRepo{})
	_, err := creds.CreateUser(ctx, "boss", "top", models.RoleSuperAdmin)
	require.NoError(t, err)

	students, _, _ := newTestStudentService(true, enrolled())
	svc := NewAuthService(creds, students, fakeTokens{}, zerolog.Nop())

	tests := []struct {
		name    string
		req     models.LoginRequest
		wantErr error
		check   func(t *testing.T, resp *models.LoginResponse)
	}{
		{
			name: "staff",
			req:  models.LoginRequest{Role: models.RoleSuperAdmin, Username: "boss", Password: "top"},
			check: func(t *testing.T, resp *models.LoginResponse) {
				assert.Equal(t, "token-boss", resp.Token)
				assert.Equal(t, "sess-1", resp.Session.SessionID)
				assert.Empty(t, resp.Session.StudentKey)
			},
		},
		{
			name:    "staff wrong role",
			req:     models.LoginRequest{Role: models.RoleAdmin, Username: "boss", Password: "top"},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "staff wrong password",
			req:     models.LoginRequest{Role: models.RoleSuperAdmin, Username: "boss", Password: "nope"},
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "student",
			req:  models.LoginRequest{Role: models.RoleStudent, Username: "asha", Password: "secret1", BatchID: "b1"},
			check: func(t *testing.T, resp *models.LoginResponse) {
				assert.Equal(t, "b1", resp.Session.StudentBatch)
				assert.Equal(t, "PY 9876543210", resp.Session.StudentKey)
				assert.Equal(t, models.RoleStudent, resp.Session.Role)
			},
		},
		{
			name:    "student wrong batch",
			req:     models.LoginRequest{Role: models.RoleStudent, Username: "asha", Password: "secret1", BatchID: "b2"},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "unknown role",
			req:     models.LoginRequest{Role: "Guest", Username: "x", Password: "y"},
			wantErr: ErrInvalidRole,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(ctx, &tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, resp)
		})
	}
}
