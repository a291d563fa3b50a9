package model

import "time"

// NotificationType classifies notifications
type NotificationType string

const (
	NotificationBookingRequest NotificationType = "BOOKING_REQUEST"
	NotificationBookingUpdate  NotificationType = "BOOKING_UPDATE"
	NotificationMessage        NotificationType = "MESSAGE"
	NotificationModeration     NotificationType = "MODERATION"
	NotificationSystem         NotificationType = "SYSTEM"
)

// Notification is an in-app notification for one user
type Notification struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"userId" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Body      string           `json:"body" db:"body"`
	Link      *string          `json:"link,omitempty" db:"link"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}
