package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/apperr"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

// memoryVectors is an in-memory EmbeddingStore.
type memoryVectors struct {
	pending []model.Listing
	stored  map[string][]float32
	reject  map[string]bool
}

func (m *memoryVectors) BatchUpdateEmbeddings(_ context.Context, items []model.EmbeddingItem) (int, []string) {
	if m.stored == nil {
		m.stored = map[string][]float32{}
	}
	success := 0
	var errs []string
	for _, item := range items {
		if m.reject[item.ListingID] {
			errs = append(errs, item.ListingID+": rejected")
			continue
		}
		m.stored[item.ListingID] = item.Embedding
		success++
	}
	return success, errs
}

func (m *memoryVectors) ListingsMissingEmbedding(_ context.Context, limit int) ([]model.Listing, error) {
	var out []model.Listing
	for _, l := range m.pending {
		if _, done := m.stored[l.ID]; done || m.reject[l.ID] {
			continue
		}
		out = append(out, l)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeEmbedder struct {
	enabled bool
	err     error
	texts   [][]string
}

func (f *fakeEmbedder) Enabled() bool { return f.enabled }

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.texts = append(f.texts, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 0, 0}
	}
	return out, nil
}

func TestEmbeddingService_UpdateEmbeddings(t *testing.T) {
	store := &memoryVectors{reject: map[string]bool{"bad": true}}
	svc := NewEmbeddingService(store, nil, 3, zap.NewNop())

	resp, err := svc.UpdateEmbeddings(context.Background(), []model.EmbeddingItem{
		{ListingID: "a", Embedding: []float32{1, 2, 3}},
		{ListingID: "bad", Embedding: []float32{1, 2, 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Success)
	assert.Equal(t, 1, resp.Failed)
	assert.Len(t, resp.Errors, 1)
	assert.Contains(t, store.stored, "a")
}

func TestEmbeddingService_UpdateEmbeddingsValidation(t *testing.T) {
	svc := NewEmbeddingService(&memoryVectors{}, nil, 3, zap.NewNop())

	tests := []struct {
		name  string
		items []model.EmbeddingItem
	}{
		{name: "empty", items: nil},
		{name: "wrong dimension", items: []model.EmbeddingItem{{ListingID: "a", Embedding: []float32{1}}}},
		{name: "missing id", items: []model.EmbeddingItem{{Embedding: []float32{1, 2, 3}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateEmbeddings(context.Background(), tt.items)
			assert.Equal(t, 400, apperr.StatusOf(err))
		})
	}
}

func TestEmbeddingService_Reindex(t *testing.T) {
	var pending []model.Listing
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		pending = append(pending, listing(id, "Item "+id))
	}
	store := &memoryVectors{pending: pending}
	embedder := &fakeEmbedder{enabled: true}
	svc := NewEmbeddingService(store, embedder, 3, zap.NewNop())

	result, err := svc.Reindex(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, &ReindexResult{Embedded: 5, Failed: 0, Batches: 3}, result)
	assert.Len(t, store.stored, 5)
	require.Len(t, embedder.texts, 3)
	assert.Len(t, embedder.texts[2], 1)
}

func TestEmbeddingService_ReindexFailures(t *testing.T) {
	t.Run("embedder disabled", func(t *testing.T) {
		_, err := NewEmbeddingService(&memoryVectors{}, &fakeEmbedder{}, 3, zap.NewNop()).Reindex(context.Background(), 10)
		assert.ErrorIs(t, err, ErrModelDisabled)
	})

	t.Run("embed error", func(t *testing.T) {
		store := &memoryVectors{pending: []model.Listing{listing("a", "A")}}
		_, err := NewEmbeddingService(store, &fakeEmbedder{enabled: true, err: errors.New("quota")}, 3, zap.NewNop()).
			Reindex(context.Background(), 10)
		assert.ErrorContains(t, err, "quota")
	})

	t.Run("no progress", func(t *testing.T) {
		store := &memoryVectors{pending: []model.Listing{listing("a", "A")}}
		store.reject = map[string]bool{}
		embedder := &fakeEmbedder{enabled: true}
		svc := NewEmbeddingService(&stuckVectors{store}, embedder, 3, zap.NewNop())

		result, err := svc.Reindex(context.Background(), 10)
		require.Error(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Len(t, embedder.texts, 1)
	})
}

// stuckVectors keeps returning rows it refuses to store.
type stuckVectors struct{ *memoryVectors }

func (s *stuckVectors) BatchUpdateEmbeddings(_ context.Context, items []model.EmbeddingItem) (int, []string) {
	return 0, []string{"constraint violation"}
}

func TestListingEmbeddingText(t *testing.T) {
	l := listing("a", "Drill")
	l.Tags = pq.StringArray{"diy", "power"}
	assert.Equal(t, "Drill\nTools\nDrill for rent\ndiy, power", ListingEmbeddingText(l))
}
