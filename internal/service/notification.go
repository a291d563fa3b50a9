package service

import (
	"context"
	"errors"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/apperr"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/repository"
)

// NotificationService serves the in-app notification inbox
type NotificationService struct {
	store NotificationStore
}

// NewNotificationService creates a new notification service
func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// List returns the latest notifications of userID
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	return s.store.ListNotifications(ctx, userID, unreadOnly, notificationLimit)
}

// MarkRead marks one of the user's notifications read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	err := s.store.MarkNotificationRead(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("notification not found")
	}
	return err
}

// MarkAllRead marks every notification of the user read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}
