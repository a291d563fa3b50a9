package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

// CreateMessage writes a message and the receiver's notification in one
// transaction. An unknown receiver yields ErrNotFound.
func (r *PostgresRepository) CreateMessage(ctx context.Context, m *model.Message, n *model.Notification) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, m.ReceiverID); err != nil {
			if isInvalidInput(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to check receiver: %w", err)
		}
		if !exists {
			return ErrNotFound
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO messages (id, sender_id, receiver_id, listing_id, content, read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			m.ID, m.SenderID, m.ReceiverID, m.ListingID, m.Content, m.Read, m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		return insertNotification(ctx, tx, n)
	})
}

// Thread returns the messages between two users, oldest first, after marking
// the ones addressed to userID read.
func (r *PostgresRepository) Thread(ctx context.Context, userID, otherID string) ([]model.Message, error) {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read = TRUE WHERE receiver_id = $1 AND sender_id = $2 AND read = FALSE`, userID, otherID); err != nil {
		if isInvalidInput(err) {
			return []model.Message{}, nil
		}
		return nil, fmt.Errorf("failed to mark messages read: %w", err)
	}

	query := `
		SELECT id, sender_id, receiver_id, listing_id, content, read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at
	`
	messages := []model.Message{}
	if err := r.db.SelectContext(ctx, &messages, query, userID, otherID); err != nil {
		return nil, fmt.Errorf("failed to load thread: %w", err)
	}
	return messages, nil
}

// Conversations returns one summary per counterpart, latest first
func (r *PostgresRepository) Conversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	query := `
		WITH mine AS (
			SELECT m.*,
			       CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS counterpart_id
			FROM messages m
			WHERE m.sender_id = $1 OR m.receiver_id = $1
		), latest AS (
			SELECT DISTINCT ON (counterpart_id) counterpart_id, content, created_at
			FROM mine
			ORDER BY counterpart_id, created_at DESC
		)
		SELECT latest.counterpart_id,
		       u.name AS counterpart_name,
		       u.avatar_url AS counterpart_avatar,
		       latest.content AS last_message,
		       latest.created_at AS last_message_at,
		       (SELECT COUNT(*) FROM mine
		         WHERE mine.counterpart_id = latest.counterpart_id
		           AND mine.receiver_id = $1 AND mine.read = FALSE) AS unread_count
		FROM latest
		JOIN users u ON u.id = latest.counterpart_id
		ORDER BY latest.created_at DESC
	`
	conversations := []model.Conversation{}
	if err := r.db.SelectContext(ctx, &conversations, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}
