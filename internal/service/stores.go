package service

import (
	"context"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/repository"
)

// Persistence surfaces used by the services. *repository.PostgresRepository implements all of them.

// SearchStore is used by search
type SearchStore interface {
	SearchListings(ctx context.Context, f model.SearchFilter) ([]model.Listing, error)
	LogSearch(ctx context.Context, entry *model.SearchLog) error
	LogFeedback(ctx context.Context, searchID, listingID, action string) error
}

// EmbeddingStore is used by embedding ingestion and reindexing
type EmbeddingStore interface {
	BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
	ListingsMissingEmbedding(ctx context.Context, limit int) ([]model.Listing, error)
}

// ListingStore is used by the listing service
type ListingStore interface {
	BrowseListings(ctx context.Context, f model.BrowseFilter) ([]model.Listing, int, error)
	GetListing(ctx context.Context, id string) (*model.Listing, error)
	ListOwnerListings(ctx context.Context, ownerID string) ([]model.Listing, error)
	CountOwnerListings(ctx context.Context, ownerID string) (int, error)
	CreateListing(ctx context.Context, l *model.Listing) error
	UpdateListing(ctx context.Context, l *model.Listing) error
	SetListingStatus(ctx context.Context, id string, status model.ListingStatus) error
	SimilarListings(ctx context.Context, id string, limit int) ([]model.Listing, error)
}

// BookingStore is used by the booking flow
type BookingStore interface {
	CreateBooking(ctx context.Context, nb model.NewBooking, notify repository.BookingNotifier) (*model.Booking, *model.Notification, error)
	UpdateBookingStatus(ctx context.Context, id string, apply repository.BookingTransition) (*model.Booking, *model.Notification, error)
	ListRenterBookings(ctx context.Context, renterID string) ([]model.Booking, error)
	ListOwnerBookings(ctx context.Context, ownerID string) ([]model.Booking, error)
}

// UserStore is used by authentication
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// MessageStore is used by messaging
type MessageStore interface {
	CreateMessage(ctx context.Context, m *model.Message, n *model.Notification) error
	Thread(ctx context.Context, userID, otherID string) ([]model.Message, error)
	Conversations(ctx context.Context, userID string) ([]model.Conversation, error)
}

// NotificationStore is used by the notification inbox
type NotificationStore interface {
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)
}

// SettingStore reads and writes platform settings
type SettingStore interface {
	ListSettings(ctx context.Context) ([]model.Setting, error)
	UpsertSetting(ctx context.Context, s *model.Setting) error
}

// AdminStore is used by the admin console
type AdminStore interface {
	SettingStore
	CountUsers(ctx context.Context) (int, error)
	CountListingsByStatus(ctx context.Context) (map[string]int, error)
	CountBookingsByStatus(ctx context.Context) (map[string]int, error)
	CountPendingModeration(ctx context.Context) (int, error)
	ListUsers(ctx context.Context, q string, page, pageSize int) ([]model.User, int, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUserAccess(ctx context.Context, id string, role model.Role, status model.UserStatus) error
	SetListingStatus(ctx context.Context, id string, status model.ListingStatus) error
	CreateReport(ctx context.Context, item *model.ModerationItem) error
	ListModeration(ctx context.Context, status model.ModerationStatus) ([]model.ModerationItem, error)
	ResolveModeration(ctx context.Context, id string, res repository.Resolution, notify repository.ModerationNotifier) (*model.ModerationItem, *model.Notification, error)
}

// Publisher delivers committed notifications to connected clients
type Publisher interface {
	Publish(ctx context.Context, n *model.Notification)
}

var (
	_ SearchStore       = (*repository.PostgresRepository)(nil)
	_ EmbeddingStore    = (*repository.PostgresRepository)(nil)
	_ ListingStore      = (*repository.PostgresRepository)(nil)
	_ BookingStore      = (*repository.PostgresRepository)(nil)
	_ UserStore         = (*repository.PostgresRepository)(nil)
	_ MessageStore      = (*repository.PostgresRepository)(nil)
	_ NotificationStore = (*repository.PostgresRepository)(nil)
	_ AdminStore        = (*repository.PostgresRepository)(nil)
)
