package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

type CredentialRepository interface {
	Create(ctx context.Context, cred *models.RoleCredential) error
	GetByID(ctx context.Context, id string) (*models.RoleCredential, error)
	GetByUsernameAndRole(ctx context.Context, username, role string) (*models.RoleCredential, error)
	ListByRole(ctx context.Context, role string) ([]models.RoleCredential, error)
	Update(ctx context.Context, cred *models.RoleCredential) error
	Delete(ctx context.Context, id string) error
}

type credentialRepository struct {
	*PostgresRepository
}

func NewCredentialRepository(db *sql.DB, logger zerolog.Logger) CredentialRepository {
	return &credentialRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const credentialColumns = `id, username, password, original_password, name, email, role, status, created_at, updated_at`

func scanCredential(row rowScanner) (*models.RoleCredential, error) {
	c := &models.RoleCredential{}
	var updatedAt sql.NullTime
	if err := row.Scan(
		&c.ID, &c.Username, &c.PasswordHash, &c.OriginalPassword, &c.Name, &c.Email,
		&c.Role, &c.Status, &c.CreatedAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	c.UpdatedAt = timePtr(updatedAt)
	return c, nil
}

func (r *credentialRepository) Create(ctx context.Context, c *models.RoleCredential) error {
	query := `
		INSERT INTO role_credentials (` + credentialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Username, c.PasswordHash, c.OriginalPassword, c.Name, c.Email,
		c.Role, c.Status, c.CreatedAt, nullTime(c.UpdatedAt),
	)

	return err
}

func (r *credentialRepository) GetByID(ctx context.Context, id string) (*models.RoleCredential, error) {
	query := `SELECT ` + credentialColumns + ` FROM role_credentials WHERE id = $1`

	c, err := scanCredential(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return c, err
}

func (r *credentialRepository) GetByUsernameAndRole(ctx context.Context, username, role string) (*models.RoleCredential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM role_credentials
		WHERE username = $1 AND role = $2
		ORDER BY created_at
		LIMIT 1
	`

	c, err := scanCredential(r.db.QueryRowContext(ctx, query, username, role))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return c, err
}

func (r *credentialRepository) ListByRole(ctx context.Context, role string) ([]models.RoleCredential, error) {
	query := `SELECT ` + credentialColumns + ` FROM role_credentials WHERE role = $1 ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creds []models.RoleCredential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		creds = append(creds, *c)
	}

	return creds, rows.Err()
}

func (r *credentialRepository) Update(ctx context.Context, c *models.RoleCredential) error {
	query := `
		UPDATE role_credentials
		SET username = $1, password = $2, original_password = $3, name = $4,
			email = $5, status = $6, updated_at = $7
		WHERE id = $8
	`

	return r.execAffecting(ctx, query,
		c.Username, c.PasswordHash, c.OriginalPassword, c.Name,
		c.Email, c.Status, nullTime(c.UpdatedAt),
		c.ID,
	)
}

func (r *credentialRepository) Delete(ctx context.Context, id string) error {
	return r.execAffecting(ctx, `DELETE FROM role_credentials WHERE id = $1`, id)
}
