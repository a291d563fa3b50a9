package model

import "time"

// ModerationTarget is the kind of content a report points at
type ModerationTarget string

const (
	TargetListing ModerationTarget = "LISTING"
	TargetUser    ModerationTarget = "USER"
	TargetMessage ModerationTarget = "MESSAGE"
)

// Valid reports whether t is a known target type.
func (t ModerationTarget) Valid() bool {
	switch t {
	case TargetListing, TargetUser, TargetMessage:
		return true
	}
	return false
}

// ModerationStatus is the state of a moderation item
type ModerationStatus string

const (
	ModerationPending   ModerationStatus = "PENDING"
	ModerationResolved  ModerationStatus = "RESOLVED"
	ModerationDismissed ModerationStatus = "DISMISSED"
)

// ModerationItem is a user report awaiting or past review
type ModerationItem struct {
	ID             string           `json:"id" db:"id"`
	TargetType     ModerationTarget `json:"targetType" db:"target_type"`
	TargetID       string           `json:"targetId" db:"target_id"`
	Reason         string           `json:"reason" db:"reason"`
	ReporterID     string           `json:"reporterId" db:"reporter_id"`
	Status         ModerationStatus `json:"status" db:"status"`
	ResolverID     *string          `json:"resolverId,omitempty" db:"resolver_id"`
	ResolutionNote *string          `json:"resolutionNote,omitempty" db:"resolution_note"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
	ResolvedAt     *time.Time       `json:"resolvedAt,omitempty" db:"resolved_at"`
}

// ReportRequest is the body of POST /api/reports
type ReportRequest struct {
	TargetType ModerationTarget `json:"targetType" binding:"required"`
	TargetID   string           `json:"targetId" binding:"required"`
	Reason     string           `json:"reason" binding:"required"`
}

// ResolveRequest is the body of POST /api/admin/moderation/:id/resolve
type ResolveRequest struct {
	Action string `json:"action" binding:"required"` // block, dismiss
	Note   string `json:"note"`
}

// AdminStats is the dashboard summary
type AdminStats struct {
	Users             int            `json:"users"`
	ListingsByStatus  map[string]int `json:"listingsByStatus"`
	BookingsByStatus  map[string]int `json:"bookingsByStatus"`
	PendingModeration int            `json:"pendingModeration"`
}
