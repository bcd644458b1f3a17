package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListByBatch(ctx context.Context, batchID string) ([]models.Message, error)
	// MarkBatchRead adds username to the read set of every message in the batch.
	MarkBatchRead(ctx context.Context, batchID, username string) (int64, error)
	CountUnread(ctx context.Context, batchID, username string) (int, error)
}

type messageRepository struct {
	*PostgresRepository
}

func NewMessageRepository(db *sql.DB, logger zerolog.Logger) MessageRepository {
	return &messageRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *messageRepository) Create(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (id, batch_id, trainer_name, message_content, timestamp, read_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	readBy := m.ReadBy
	if readBy == nil {
		readBy = []string{}
	}

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.BatchID, m.TrainerName, m.MessageContent, m.Timestamp, pq.Array(readBy),
	)

	return err
}

func (r *messageRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Message, error) {
	query := `
		SELECT id, batch_id, trainer_name, message_content, timestamp, read_by
		FROM messages
		WHERE batch_id = $1
		ORDER BY timestamp DESC
	`

	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(
			&m.ID, &m.BatchID, &m.TrainerName, &m.MessageContent, &m.Timestamp, pq.Array(&m.ReadBy),
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

func (r *messageRepository) MarkBatchRead(ctx context.Context, batchID, username string) (int64, error) {
	query := `
		UPDATE messages
		SET read_by = array_append(read_by, $2)
		WHERE batch_id = $1 AND NOT ($2 = ANY(read_by))
	`

	res, err := r.db.ExecContext(ctx, query, batchID, username)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *messageRepository) CountUnread(ctx context.Context, batchID, username string) (int, error) {
	query := `SELECT COUNT(*) FROM messages WHERE batch_id = $1 AND NOT ($2 = ANY(read_by))`
	var count int
	err := r.db.QueryRowContext(ctx, query, batchID, username).Scan(&count)
	return count, err
}
