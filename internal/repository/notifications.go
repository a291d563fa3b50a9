package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

const insertNotificationSQL = `
	INSERT INTO notifications (id, user_id, type, title, body, link, read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func insertNotification(ctx context.Context, ex sqlx.ExecerContext, n *model.Notification) error {
	_, err := ex.ExecContext(ctx, insertNotificationSQL,
		n.ID, n.UserID, string(n.Type), n.Title, n.Body, n.Link, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// CreateNotification inserts a standalone notification
func (r *PostgresRepository) CreateNotification(ctx context.Context, n *model.Notification) error {
	return insertNotification(ctx, r.db, n)
}

// ListNotifications returns a user's latest notifications
func (r *PostgresRepository) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]model.Notification, error) {
	query := `SELECT id, user_id, type, title, body, link, read, created_at FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	items := []model.Notification{}
	if err := r.db.SelectContext(ctx, &items, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

// MarkNotificationRead marks one of the user's notifications read
func (r *PostgresRepository) MarkNotificationRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if isInvalidInput(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return expectAffected(res)
}

// MarkAllNotificationsRead marks every unread notification of the user read
func (r *PostgresRepository) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
