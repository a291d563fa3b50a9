package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/apperr"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

// EmbeddingService stores listing vectors used by similar-listing lookups
type EmbeddingService struct {
	store      EmbeddingStore
	embedder   Embedder
	dimensions int
	logger     *zap.Logger
}

// NewEmbeddingService creates an embedding service. embedder may be nil when only
// precomputed vectors are accepted.
func NewEmbeddingService(store EmbeddingStore, embedder Embedder, dimensions int, logger *zap.Logger) *EmbeddingService {
	return &EmbeddingService{
		store:      store,
		embedder:   embedder,
		dimensions: dimensions,
		logger:     logger,
	}
}

// UpdateEmbeddings stores precomputed vectors. Every vector must have the
// configured dimension; per-item storage failures are reported, not returned.
func (s *EmbeddingService) UpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (*model.EmbeddingBatchResponse, error) {
	if len(items) == 0 {
		return nil, apperr.BadRequest("No embeddings provided")
	}
	for i, item := range items {
		if item.ListingID == "" {
			return nil, apperr.BadRequest("Missing listingId at index %d", i)
		}
		if len(item.Embedding) != s.dimensions {
			return nil, apperr.BadRequest("Invalid embedding dimension at index %d, expected %d", i, s.dimensions)
		}
	}

	success, errs := s.store.BatchUpdateEmbeddings(ctx, items)
	return &model.EmbeddingBatchResponse{
		Success: success,
		Failed:  len(items) - success,
		Errors:  errs,
	}, nil
}

// ReindexResult summarizes one reindex run
type ReindexResult struct {
	Embedded int
	Failed   int
	Batches  int
}

// Reindex embeds ACTIVE listings that have no vector yet, batchSize at a
// time, until none are left or a batch makes no progress.
func (s *EmbeddingService) Reindex(ctx context.Context, batchSize int) (*ReindexResult, error) {
	if s.embedder == nil || !s.embedder.Enabled() {
		return nil, fmt.Errorf("reindex: %w", ErrModelDisabled)
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	result := &ReindexResult{}
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		listings, err := s.store.ListingsMissingEmbedding(ctx, batchSize)
		if err != nil {
			return result, fmt.Errorf("reindex: %w", err)
		}
		if len(listings) == 0 {
			return result, nil
		}

		texts := make([]string, len(listings))
		for i, l := range listings {
			texts[i] = ListingEmbeddingText(l)
		}
		vectors, err := s.embedder.Embed(ctx, texts)
		if err != nil {
			return result, fmt.Errorf("reindex batch %d: %w", result.Batches+1, err)
		}

		items := make([]model.EmbeddingItem, len(listings))
		for i, l := range listings {
			items[i] = model.EmbeddingItem{ListingID: l.ID, Embedding: vectors[i]}
		}
		success, errs := s.store.BatchUpdateEmbeddings(ctx, items)
		result.Batches++
		result.Embedded += success
		result.Failed += len(items) - success

		s.logger.Info("reindex batch stored",
			zap.Int("batch", result.Batches),
			zap.Int("stored", success),
			zap.Strings("errors", errs))

		if success == 0 {
			// The same rows would come back again.
			return result, fmt.Errorf("reindex batch %d stored nothing", result.Batches)
		}
	}
}

// ListingEmbeddingText is the text embedded for a listing.
func ListingEmbeddingText(l model.Listing) string {
	parts := []string{l.Title, l.Category, l.Description}
	if len(l.Tags) > 0 {
		parts = append(parts, strings.Join(l.Tags, ", "))
	}
	return strings.Join(parts, "\n")
}
