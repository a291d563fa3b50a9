package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

const moderationColumns = `id, target_type, target_id, reason, reporter_id, status, resolver_id, resolution_note, created_at, resolved_at`

// CreateReport files a moderation item
func (r *PostgresRepository) CreateReport(ctx context.Context, item *model.ModerationItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO moderation_items (id, target_type, target_id, reason, reporter_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, string(item.TargetType), item.TargetID, item.Reason, item.ReporterID, string(item.Status), item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// ListModeration returns moderation items with the given status, oldest first
func (r *PostgresRepository) ListModeration(ctx context.Context, status model.ModerationStatus) ([]model.ModerationItem, error) {
	items := []model.ModerationItem{}
	query := "SELECT " + moderationColumns + " FROM moderation_items WHERE status = $1 ORDER BY created_at"
	if err := r.db.SelectContext(ctx, &items, query, string(status)); err != nil {
		return nil, fmt.Errorf("failed to list moderation items: %w", err)
	}
	return items, nil
}

// CountPendingModeration counts items awaiting review
func (r *PostgresRepository) CountPendingModeration(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM moderation_items WHERE status = $1`, string(model.ModerationPending))
	if err != nil {
		return 0, fmt.Errorf("failed to count moderation items: %w", err)
	}
	return n, nil
}

// Resolution describes how a moderator closes an item
type Resolution struct {
	ResolverID string
	Block      bool
	Note       string
	// Authorize, when set, vets a block against the locked item before any
	// write. Its error aborts the transaction and is returned unchanged.
	Authorize func(item *model.ModerationItem) error
}

// ModerationNotifier builds the reporter's notification for a resolved item.
type ModerationNotifier func(item *model.ModerationItem) *model.Notification

// ResolveModeration closes a pending item. Blocking a LISTING sets it BLOCKED
// and blocking a USER suspends the account; blocking a MESSAGE only resolves
// the item. All writes share one transaction.
func (r *PostgresRepository) ResolveModeration(ctx context.Context, id string, res Resolution, notify ModerationNotifier) (*model.ModerationItem, *model.Notification, error) {
	var item model.ModerationItem
	var notification *model.Notification

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		query := "SELECT " + moderationColumns + " FROM moderation_items WHERE id = $1 FOR UPDATE"
		if err := tx.GetContext(ctx, &item, query, id); err != nil {
			if isMissing(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock moderation item: %w", err)
		}
		if item.Status != model.ModerationPending {
			return ErrAlreadyResolved
		}

		ts := now()
		if res.Block {
			if res.Authorize != nil {
				if err := res.Authorize(&item); err != nil {
					return err
				}
			}
			if err := blockTarget(ctx, tx, item.TargetType, item.TargetID); err != nil {
				return err
			}
			item.Status = model.ModerationResolved
		} else {
			item.Status = model.ModerationDismissed
		}
		resolver, note := res.ResolverID, res.Note
		item.ResolverID = &resolver
		item.ResolutionNote = &note
		item.ResolvedAt = &ts

		if _, err := tx.ExecContext(ctx, `
			UPDATE moderation_items SET status = $2, resolver_id = $3, resolution_note = $4, resolved_at = $5
			WHERE id = $1`,
			item.ID, string(item.Status), resolver, note, ts); err != nil {
			return fmt.Errorf("failed to resolve moderation item: %w", err)
		}

		notification = notify(&item)
		return insertNotification(ctx, tx, notification)
	})
	if err != nil {
		return nil, nil, err
	}
	return &item, notification, nil
}

func blockTarget(ctx context.Context, tx *sqlx.Tx, target model.ModerationTarget, id string) error {
	var query string
	var status string
	switch target {
	case model.TargetListing:
		query, status = `UPDATE listings SET status = $2, updated_at = $3 WHERE id = $1`, string(model.ListingBlocked)
	case model.TargetUser:
		query, status = `UPDATE users SET status = $2, updated_at = $3 WHERE id = $1`, string(model.UserSuspended)
	default:
		return nil
	}
	if _, err := tx.ExecContext(ctx, query, id, status, now()); err != nil {
		return fmt.Errorf("failed to block %s: %w", target, err)
	}
	return nil
}
