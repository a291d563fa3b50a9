package repository

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

// UpdateEmbedding updates the embedding vector for a listing
func (r *PostgresRepository) UpdateEmbedding(ctx context.Context, listingID string, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET embedding = $1, updated_at = $3 WHERE id = $2`, vec, listingID, now())
	if err != nil {
		return fmt.Errorf("failed to update embedding: %w", err)
	}
	return expectAffected(res)
}

// BatchUpdateEmbeddings updates embeddings for multiple listings. Each item
// is written on its own so one bad row does not discard the others.
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	stmt, err := r.db.PreparexContext(ctx, `UPDATE listings SET embedding = $1, updated_at = $3 WHERE id = $2`)
	if err != nil {
		return 0, []string{fmt.Sprintf("failed to prepare statement: %v", err)}
	}
	defer stmt.Close()

	success := 0
	var errs []string
	ts := now()
	for _, item := range items {
		res, err := stmt.ExecContext(ctx, pgvector.NewVector(item.Embedding), item.ListingID, ts)
		if err != nil {
			errs = append(errs, fmt.Sprintf("listing %s: %v", item.ListingID, err))
			continue
		}
		if n, _ := res.RowsAffected(); n == 0 {
			errs = append(errs, fmt.Sprintf("listing %s: not found", item.ListingID))
			continue
		}
		success++
	}
	return success, errs
}

// ListingsMissingEmbedding returns up to limit ACTIVE listings that have no embedding yet
func (r *PostgresRepository) ListingsMissingEmbedding(ctx context.Context, limit int) ([]model.Listing, error) {
	listings := []model.Listing{}
	query := fmt.Sprintf(`SELECT %s %s
		WHERE l.status = $1 AND l.embedding IS NULL
		ORDER BY l.created_at
		LIMIT $2`, listingColumns, listingFrom)
	if err := r.db.SelectContext(ctx, &listings, query, string(model.ListingActive), limit); err != nil {
		return nil, fmt.Errorf("failed to list listings without embedding: %w", err)
	}
	return listings, nil
}
