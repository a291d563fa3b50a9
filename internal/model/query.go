package model

import (
	"time"

	"github.com/lib/pq"
)

// SearchFilter is the listing filter built from an intent
type SearchFilter struct {
	Terms    []string
	Category *string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
}

// BrowseFilter selects a page of ACTIVE listings
type BrowseFilter struct {
	Category string
	Page     int
	PageSize int
}

// SearchResponse is the body of GET /api/search
type SearchResponse struct {
	Results  []Listing      `json:"results"`
	Query    string         `json:"query"`
	Intent   *IntentSummary `json:"intent"`
	SearchID string         `json:"searchId,omitempty"`
}

// SearchLog is one row of search_logs
type SearchLog struct {
	ID                 string         `db:"id"`
	Query              string         `db:"query"`
	IntentCategory     *string        `db:"intent_category"`
	Keywords           pq.StringArray `db:"keywords"`
	ResultCount        int            `db:"result_count"`
	ReturnedListingIDs pq.StringArray `db:"returned_listing_ids"`
	ResponseTimeMs     int64          `db:"response_time_ms"`
	CreatedAt          time.Time      `db:"created_at"`
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem is a precomputed vector for one listing
type EmbeddingItem struct {
	ListingID string    `json:"listingId" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// FeedbackRequest represents user feedback on a logged search
type FeedbackRequest struct {
	SearchID  string `json:"searchId" binding:"required"`
	ListingID string `json:"listingId" binding:"required"`
	Action    string `json:"action" binding:"required"` // click, contact, book
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
