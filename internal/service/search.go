package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/apperr"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/metrics"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/repository"
)

const searchLogTimeout = 5 * time.Second

// FeedbackActions lists the accepted search feedback actions
var FeedbackActions = map[string]bool{
	"click":   true,
	"contact": true,
	"book":    true,
}

// SearchService handles search business logic
type SearchService struct {
	store       SearchStore
	intent      *IntentExtractor
	ranker      *Ranker
	categories  []string
	resultLimit int
	logger      *zap.Logger

	logs sync.WaitGroup
}

// NewSearchService creates a new search service
func NewSearchService(
	store SearchStore,
	intent *IntentExtractor,
	ranker *Ranker,
	resultLimit int,
	logger *zap.Logger,
) *SearchService {
	return &SearchService{
		store:       store,
		intent:      intent,
		ranker:      ranker,
		categories:  model.Categories,
		resultLimit: resultLimit,
		logger:      logger,
	}
}

// SearchEventCallback is called for streaming search events
type SearchEventCallback func(event string, data any) error

// Search runs intent extraction, filtering and ranking for one query
func (s *SearchService) Search(ctx context.Context, query string) (*model.SearchResponse, error) {
	return s.SearchStream(ctx, query, nil)
}

// SearchStream runs the search pipeline and reports the intent as soon as it
// is known. callback may be nil.
func (s *SearchService) SearchStream(ctx context.Context, query string, callback SearchEventCallback) (*model.SearchResponse, error) {
	startTime := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		metrics.SearchRequestsTotal.WithLabelValues("empty_query").Inc()
		return &model.SearchResponse{Results: []model.Listing{}, Query: "", Intent: nil}, nil
	}

	intent := s.intent.Extract(ctx, query, s.categories)
	summary := intent.Summary()
	if callback != nil {
		if err := callback("intent", summary); err != nil {
			return nil, err
		}
	}

	filter := model.SearchFilter{
		Terms:    BuildSearchTerms(query, intent.Keywords),
		Category: intent.Category,
		MinPrice: intent.MinPrice,
		MaxPrice: intent.MaxPrice,
		Limit:    s.resultLimit,
	}
	listings, err := s.store.SearchListings(ctx, filter)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("search listings: %w", err)
	}

	if len(listings) > 1 {
		listings = s.ranker.Rank(ctx, query, listings)
	}

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchResults.Observe(float64(len(listings)))

	searchID := uuid.NewString()
	took := time.Since(startTime).Milliseconds()
	s.logSearch(searchID, query, intent, listings, took)

	s.logger.Info("search completed",
		zap.String("search_id", searchID),
		zap.Int("results", len(listings)),
		zap.Int64("took_ms", took))

	return &model.SearchResponse{
		Results:  listings,
		Query:    query,
		Intent:   summary,
		SearchID: searchID,
	}, nil
}

// logSearch writes the search log in the background with its own timeout.
func (s *SearchService) logSearch(searchID, query string, intent *model.SearchIntent, listings []model.Listing, took int64) {
	ids := make(pq.StringArray, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	entry := &model.SearchLog{
		ID:                 searchID,
		Query:              query,
		IntentCategory:     intent.Category,
		Keywords:           pq.StringArray(intent.Keywords),
		ResultCount:        len(listings),
		ReturnedListingIDs: ids,
		ResponseTimeMs:     took,
		CreatedAt:          time.Now().UTC(),
	}

	s.logs.Add(1)
	go func() {
		defer s.logs.Done()
		ctx, cancel := context.WithTimeout(context.Background(), searchLogTimeout)
		defer cancel()
		if err := s.store.LogSearch(ctx, entry); err != nil {
			s.logger.Warn("failed to log search", zap.String("search_id", searchID), zap.Error(err))
		}
	}()
}

// Wait blocks until pending search logs are written
func (s *SearchService) Wait() {
	s.logs.Wait()
}

// LogFeedback logs user feedback/action
func (s *SearchService) LogFeedback(ctx context.Context, req model.FeedbackRequest) error {
	if !FeedbackActions[req.Action] {
		return apperr.BadRequest("Invalid action. Must be one of: click, contact, book")
	}
	if req.SearchID == "" || req.ListingID == "" {
		return apperr.BadRequest("searchId and listingId are required")
	}

	err := s.store.LogFeedback(ctx, req.SearchID, req.ListingID, req.Action)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("search %s not found", req.SearchID)
	}
	return err
}

// BuildSearchTerms derives the lower-cased, de-duplicated term set from the
// intent keywords and the raw query. Terms of one character are dropped and
// first appearance decides order: split keywords, whole keywords, then query words.
func BuildSearchTerms(query string, keywords []string) []string {
	terms := []string{}
	seen := make(map[string]bool)
	add := func(t string) {
		t = strings.ToLower(strings.TrimSpace(t))
		if len([]rune(t)) <= 1 || seen[t] {
			return
		}
		seen[t] = true
		terms = append(terms, t)
	}

	for _, k := range keywords {
		for _, w := range strings.Fields(k) {
			add(w)
		}
	}
	for _, k := range keywords {
		add(strings.Join(strings.Fields(k), " "))
	}
	for _, w := range strings.Fields(query) {
		add(w)
	}
	return terms
}
