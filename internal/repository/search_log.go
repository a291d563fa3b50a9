package repository

import (
	"context"
	"fmt"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

// LogSearch logs a search query
func (r *PostgresRepository) LogSearch(ctx context.Context, entry *model.SearchLog) error {
	query := `
		INSERT INTO search_logs (id, query, intent_category, keywords, result_count, returned_listing_ids, response_time_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Query, entry.IntentCategory, textArray(entry.Keywords), entry.ResultCount,
		textArray(entry.ReturnedListingIDs), entry.ResponseTimeMs, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// LogFeedback records the user's action on a logged search
func (r *PostgresRepository) LogFeedback(ctx context.Context, searchID, listingID, action string) error {
	query := `
		UPDATE search_logs
		SET clicked_listing_id = $2, action = $3
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, searchID, listingID, action)
	if err != nil {
		if isInvalidInput(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return expectAffected(res)
}
