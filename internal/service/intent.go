package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/metrics"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/utils"
)

// Explanations reported by the fallback intents.
const (
	ExplanationNoModel = "Searching using basic filters"
	ExplanationFailed  = "Searching across all items"
)

// IntentExtractor turns a free-text query into a SearchIntent using the chat model
type IntentExtractor struct {
	llm      ChatClient
	taxonomy *Taxonomy
	cache    *IntentCache
	logger   *zap.Logger
}

// NewIntentExtractor creates a new intent extractor. cache may be nil.
func NewIntentExtractor(llm ChatClient, taxonomy *Taxonomy, cache *IntentCache, logger *zap.Logger) *IntentExtractor {
	return &IntentExtractor{
		llm:      llm,
		taxonomy: taxonomy,
		cache:    cache,
		logger:   logger,
	}
}

// modelIntent is the shape requested from the model before sanitizing
type modelIntent struct {
	Category      *string  `json:"category"`
	MinPrice      *float64 `json:"minPrice"`
	MaxPrice      *float64 `json:"maxPrice"`
	Keywords      []string `json:"keywords"`
	SemanticQuery string   `json:"semanticQuery"`
	Explanation   string   `json:"explanation"`
}

// Extract never fails: without a model, or when the model call or its
// output is unusable, a fallback intent built from the query is returned.
// The query is used exactly as given; SearchService trims it beforehand.
func (e *IntentExtractor) Extract(ctx context.Context, query string, categories []string) *model.SearchIntent {
	if e.llm == nil || !e.llm.Enabled() {
		metrics.FallbacksTotal.WithLabelValues("intent", "disabled").Inc()
		return fallbackIntent(query, ExplanationNoModel)
	}

	if cached, ok := e.cache.Get(ctx, query, categories); ok {
		return cached
	}

	intent, err := e.extractWithModel(ctx, query, categories)
	if err != nil {
		e.logger.Warn("intent extraction failed, using fallback",
			zap.String("query", query),
			zap.Error(err))
		return fallbackIntent(query, ExplanationFailed)
	}

	e.cache.Set(ctx, query, categories, intent)
	return intent
}

func (e *IntentExtractor) extractWithModel(ctx context.Context, query string, categories []string) (*model.SearchIntent, error) {
	content, err := e.llm.ChatJSON(ctx, "intent", e.taxonomy.IntentPrompt(categories), query)
	if err != nil {
		metrics.FallbacksTotal.WithLabelValues("intent", "model_error").Inc()
		return nil, err
	}

	var doc map[string]any
	if err := utils.ParseModelJSON(content, &doc); err != nil {
		metrics.FallbacksTotal.WithLabelValues("intent", "invalid_output").Inc()
		return nil, fmt.Errorf("parse intent: %w", err)
	}
	if err := validateModelOutput(intentSchema, doc); err != nil {
		metrics.FallbacksTotal.WithLabelValues("intent", "invalid_output").Inc()
		return nil, err
	}

	var mi modelIntent
	if err := decodeModelDoc(doc, &mi); err != nil {
		metrics.FallbacksTotal.WithLabelValues("intent", "invalid_output").Inc()
		return nil, fmt.Errorf("decode intent: %w", err)
	}

	return e.sanitize(mi, query, categories), nil
}

// sanitize enforces the intent invariants on model output.
func (e *IntentExtractor) sanitize(mi modelIntent, query string, categories []string) *model.SearchIntent {
	intent := &model.SearchIntent{
		MinPrice:      nonNegative(mi.MinPrice),
		MaxPrice:      nonNegative(mi.MaxPrice),
		SemanticQuery: strings.TrimSpace(mi.SemanticQuery),
		Explanation:   strings.TrimSpace(mi.Explanation),
	}

	if mi.Category != nil {
		intent.Category = e.taxonomy.ResolveCategory(*mi.Category, categories)
	}

	if intent.MinPrice != nil && intent.MaxPrice != nil && *intent.MinPrice > *intent.MaxPrice {
		intent.MinPrice, intent.MaxPrice = intent.MaxPrice, intent.MinPrice
	}

	keywords := make([]string, 0, len(mi.Keywords))
	seen := make(map[string]bool)
	add := func(k string) {
		k = strings.TrimSpace(k)
		if k == "" || seen[strings.ToLower(k)] {
			return
		}
		seen[strings.ToLower(k)] = true
		keywords = append(keywords, k)
	}
	for _, k := range mi.Keywords {
		add(k)
	}
	if len(keywords) > 0 {
		for _, k := range e.taxonomy.NeedKeywords(query) {
			add(k)
		}
	}
	if len(keywords) == 0 {
		keywords = []string{query}
	}
	intent.Keywords = keywords

	if intent.SemanticQuery == "" {
		intent.SemanticQuery = query
	}
	if intent.Explanation == "" {
		intent.Explanation = "Searching for " + query
	}
	return intent
}

func fallbackIntent(query, explanation string) *model.SearchIntent {
	return &model.SearchIntent{
		Keywords:      []string{query},
		SemanticQuery: query,
		Explanation:   explanation,
	}
}

func nonNegative(v *float64) *float64 {
	if v == nil || *v < 0 {
		return nil
	}
	return v
}
