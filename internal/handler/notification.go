package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/logger"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/realtime"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/service"
)

const keepAliveInterval = 25 * time.Second

// Subscriber opens a user's realtime notification feed
type Subscriber interface {
	Subscribe(ctx context.Context, userID string) (*realtime.Subscription, error)
}

var _ Subscriber = (*realtime.Hub)(nil)

// NotificationHandler serves the notification inbox and its live stream
type NotificationHandler struct {
	notificationService *service.NotificationService
	subscriber          Subscriber
	keepAlive           time.Duration
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService, subscriber Subscriber) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		subscriber:          subscriber,
		keepAlive:           keepAliveInterval,
	}
}

// List handles GET /api/notifications?unread=true
func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.notificationService.List(c.Request.Context(), currentUserID(c), c.Query("unread") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": notifications})
}

// MarkRead handles POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notificationService.MarkRead(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.notificationService.MarkAllRead(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// Stream handles GET /api/notifications/stream. Each published notification
// is relayed as a "notification" event until the client disconnects.
func (h *NotificationHandler) Stream(c *gin.Context) {
	if h.subscriber == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Realtime notifications are unavailable"})
		return
	}

	ctx := c.Request.Context()
	sub, err := h.subscriber.Subscribe(ctx, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	defer sub.Close()

	flusher, ok := startSSE(c)
	if !ok {
		return
	}
	sendSSE(c, "ready", nil)
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		case payload, ok := <-sub.Events():
			if !ok {
				logger.FromContext(ctx, nil).Debug("notification feed closed", zap.String("user_id", currentUserID(c)))
				return
			}
			fmt.Fprintf(c.Writer, "event: notification\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
