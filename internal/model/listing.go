package model

import (
	"time"

	"github.com/lib/pq"
)

// ListingStatus is the lifecycle state of a listing
type ListingStatus string

const (
	ListingActive   ListingStatus = "ACTIVE"
	ListingDraft    ListingStatus = "DRAFT"
	ListingArchived ListingStatus = "ARCHIVED"
	ListingBlocked  ListingStatus = "BLOCKED"
)

// Valid reports whether s is a known listing status.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingActive, ListingDraft, ListingArchived, ListingBlocked:
		return true
	}
	return false
}

// Categories is the fixed category list used by search and listing creation.
var Categories = []string{"Tech", "Vehicles", "Rooms", "Equipment", "Fashion", "Studios", "Tools", "Digital"}

// Listing represents an item offered for rent
type Listing struct {
	ID          string         `json:"id" db:"id"`
	OwnerID     string         `json:"ownerId" db:"owner_id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Category    string         `json:"category" db:"category"`
	Price       float64        `json:"price" db:"price"` // per day
	Tags        pq.StringArray `json:"tags" db:"tags"`
	Location    *string        `json:"location,omitempty" db:"location"`
	Images      pq.StringArray `json:"images" db:"images"`
	Status      ListingStatus  `json:"status" db:"status"`
	Available   bool           `json:"available" db:"available"`
	OwnerName   *string        `json:"ownerName,omitempty" db:"owner_name"`
	OwnerAvatar *string        `json:"ownerAvatar,omitempty" db:"owner_avatar"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}

// ListingInput is the body of POST /api/listings
type ListingInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Price       *float64 `json:"price" binding:"required"`
	Tags        []string `json:"tags"`
	Location    *string  `json:"location"`
	Images      []string `json:"images"`
	Status      string   `json:"status"`
	Available   *bool    `json:"available"`
}

// ListingPatch is the body of PATCH /api/listings/:id; nil fields are left unchanged
type ListingPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Price       *float64  `json:"price"`
	Tags        *[]string `json:"tags"`
	Location    *string   `json:"location"`
	Images      *[]string `json:"images"`
	Status      *string   `json:"status"`
	Available   *bool     `json:"available"`
}

// ListingPage is one page of browse results
type ListingPage struct {
	Items    []Listing `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	HasMore  bool      `json:"hasMore"`
}
