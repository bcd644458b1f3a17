package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/config"
)

// NewPostgres opens a pooled connection. Callers should Ping before use.
func NewPostgres(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}
