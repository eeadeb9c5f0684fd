package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"whisperlink/internal/domain"
	"whisperlink/internal/repository"
)

const createMessagesTable = `
CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	receiver_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	is_read INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
`

const createMessagesIndex = `
CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id, created_at);
`

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createMessagesTable); err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createMessagesIndex); err != nil {
		return fmt.Errorf("create messages index: %w", err)
	}
	return nil
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO messages (id, content, receiver_id, is_read, created_at)
VALUES (?, ?, ?, ?, ?)`,
		message.ID,
		message.Content,
		message.ReceiverID,
		message.IsRead,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListByReceiver returns the receiver's messages, most recent first. The
// rowid tiebreak keeps insertion order stable for equal timestamps.
func (r *MessageRepository) ListByReceiver(ctx context.Context, receiverID string) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, content, receiver_id, is_read, created_at
FROM messages
WHERE receiver_id = ?
ORDER BY created_at DESC, rowid DESC`,
		receiverID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Content, &m.ReceiverID, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// FindOwned resolves a message only when it belongs to the given receiver.
// A foreign message and a missing one both come back as ErrNotFound.
func (r *MessageRepository) FindOwned(ctx context.Context, id, receiverID string) (*domain.Message, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, content, receiver_id, is_read, created_at
FROM messages
WHERE id = ? AND receiver_id = ?`,
		id, receiverID,
	)

	var m domain.Message
	if err := row.Scan(&m.ID, &m.Content, &m.ReceiverID, &m.IsRead, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan message: %w", err)
	}
	return &m, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
