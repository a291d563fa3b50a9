package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/apperr"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/repository"
)

const (
	maxMessageLength  = 2000
	notificationLimit = 50
	previewLength     = 120
)

// MessageService handles direct messages between users
type MessageService struct {
	store     MessageStore
	publisher Publisher
}

// NewMessageService creates a new message service
func NewMessageService(store MessageStore, publisher Publisher) *MessageService {
	return &MessageService{store: store, publisher: publisher}
}

// Send delivers a message and notifies the receiver
func (s *MessageService) Send(ctx context.Context, senderID string, req model.MessageRequest) (*model.Message, error) {
	content := strings.TrimSpace(req.Content)
	n := utf8.RuneCountInString(content)
	if n == 0 || n > maxMessageLength {
		return nil, apperr.BadRequest("content must be between 1 and %d characters", maxMessageLength)
	}
	if req.ReceiverID == "" {
		return nil, apperr.BadRequest("receiverId is required")
	}
	if req.ReceiverID == senderID {
		return nil, apperr.BadRequest("you cannot message yourself")
	}

	ts := time.Now().UTC()
	msg := &model.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		ListingID:  req.ListingID,
		Content:    content,
		CreatedAt:  ts,
	}
	link := "/messages/" + senderID
	notification := &model.Notification{
		ID:        uuid.NewString(),
		UserID:    req.ReceiverID,
		Type:      model.NotificationMessage,
		Title:     "New message",
		Body:      truncateRunes(content, previewLength),
		Link:      &link,
		CreatedAt: ts,
	}

	if err := s.store.CreateMessage(ctx, msg, notification); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("receiver not found")
		}
		return nil, err
	}

	s.publisher.Publish(ctx, notification)
	return msg, nil
}

// Thread returns the conversation with otherID, oldest first
func (s *MessageService) Thread(ctx context.Context, userID, otherID string) ([]model.Message, error) {
	return s.store.Thread(ctx, userID, otherID)
}

// Conversations returns the caller's conversation summaries
func (s *MessageService) Conversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	return s.store.Conversations(ctx, userID)
}
