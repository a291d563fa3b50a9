package model

import "time"

// Message is a direct message between two users
type Message struct {
	ID         string    `json:"id" db:"id"`
	SenderID   string    `json:"senderId" db:"sender_id"`
	ReceiverID string    `json:"receiverId" db:"receiver_id"`
	ListingID  *string   `json:"listingId,omitempty" db:"listing_id"`
	Content    string    `json:"content" db:"content"`
	Read       bool      `json:"read" db:"read"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// MessageRequest is the body of POST /api/messages
type MessageRequest struct {
	ReceiverID string  `json:"receiverId" binding:"required"`
	ListingID  *string `json:"listingId"`
	Content    string  `json:"content" binding:"required"`
}

// Conversation summarizes the latest message exchanged with one counterpart
type Conversation struct {
	CounterpartID     string    `json:"counterpartId" db:"counterpart_id"`
	CounterpartName   string    `json:"counterpartName" db:"counterpart_name"`
	CounterpartAvatar *string   `json:"counterpartAvatar,omitempty" db:"counterpart_avatar"`
	LastMessage       string    `json:"lastMessage" db:"last_message"`
	LastMessageAt     time.Time `json:"lastMessageAt" db:"last_message_at"`
	UnreadCount       int       `json:"unreadCount" db:"unread_count"`
}
