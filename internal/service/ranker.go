package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/metrics"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/utils"
)

const rankingPrompt = `You rank rental marketplace listings by relevance to a user's search.
You receive the query and a JSON array of candidate listings.
Respond with a JSON object {"rankedIds": [...]} listing candidate ids from most to least relevant.
Use only ids from the candidates.`

// Ranker reorders search candidates with the chat model
type Ranker struct {
	llm              ChatClient
	descriptionLimit int
	logger           *zap.Logger
}

// NewRanker creates a new ranker. Descriptions sent to the model are cut to descriptionLimit characters.
func NewRanker(llm ChatClient, descriptionLimit int, logger *zap.Logger) *Ranker {
	return &Ranker{
		llm:              llm,
		descriptionLimit: descriptionLimit,
		logger:           logger,
	}
}

type rankCandidate struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type rankingReply struct {
	RankedIDs []string `json:"rankedIds"`
}

// Rank returns listings ordered by model relevance. The output is always a
// permutation of the input; on any failure the input order is kept.
func (r *Ranker) Rank(ctx context.Context, query string, listings []model.Listing) []model.Listing {
	if r.llm == nil || !r.llm.Enabled() || len(listings) <= 1 {
		return listings
	}

	ids, err := r.rankWithModel(ctx, query, listings)
	if err != nil {
		r.logger.Warn("ranking failed, keeping database order",
			zap.String("query", query),
			zap.Int("candidates", len(listings)),
			zap.Error(err))
		return listings
	}
	return MergeRanking(listings, ids)
}

func (r *Ranker) rankWithModel(ctx context.Context, query string, listings []model.Listing) ([]string, error) {
	candidates := make([]rankCandidate, len(listings))
	for i, l := range listings {
		candidates[i] = rankCandidate{
			ID:          l.ID,
			Title:       l.Title,
			Description: truncateRunes(l.Description, r.descriptionLimit),
			Category:    l.Category,
		}
	}
	payload, err := json.Marshal(candidates)
	if err != nil {
		return nil, fmt.Errorf("marshal candidates: %w", err)
	}

	user := fmt.Sprintf("Query: %s\nCandidates: %s", query, payload)
	content, err := r.llm.ChatJSON(ctx, "ranking", rankingPrompt, user)
	if err != nil {
		metrics.FallbacksTotal.WithLabelValues("ranking", "model_error").Inc()
		return nil, err
	}

	var doc map[string]any
	if err := utils.ParseModelJSON(content, &doc); err != nil {
		metrics.FallbacksTotal.WithLabelValues("ranking", "invalid_output").Inc()
		return nil, fmt.Errorf("parse ranking: %w", err)
	}
	if err := validateModelOutput(rankingSchema, doc); err != nil {
		metrics.FallbacksTotal.WithLabelValues("ranking", "invalid_output").Inc()
		return nil, err
	}

	var reply rankingReply
	if err := decodeModelDoc(doc, &reply); err != nil {
		metrics.FallbacksTotal.WithLabelValues("ranking", "invalid_output").Inc()
		return nil, fmt.Errorf("decode ranking: %w", err)
	}
	return reply.RankedIDs, nil
}

// MergeRanking orders listings by rankedIDs. Unknown and repeated ids are
// skipped; listings the ranking omits follow in their original order.
func MergeRanking(listings []model.Listing, rankedIDs []string) []model.Listing {
	index := make(map[string]int, len(listings))
	for i, l := range listings {
		if _, dup := index[l.ID]; !dup {
			index[l.ID] = i
		}
	}

	out := make([]model.Listing, 0, len(listings))
	used := make([]bool, len(listings))
	for _, id := range rankedIDs {
		i, ok := index[id]
		if !ok || used[i] {
			continue
		}
		used[i] = true
		out = append(out, listings[i])
	}
	for i, l := range listings {
		if !used[i] {
			out = append(out, l)
		}
	}
	return out
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
