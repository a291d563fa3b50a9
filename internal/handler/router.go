package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/permission"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/service"
)

// Services are the dependencies of the API routes
type Services struct {
	Auth          *service.AuthService
	Search        *service.SearchService
	Listings      *service.ListingService
	Bookings      *service.BookingService
	Messages      *service.MessageService
	Notifications *service.NotificationService
	Admin         *service.AdminService
	Embeddings    *service.EmbeddingService
	Realtime      Subscriber
}

// Register mounts every API route on api (normally the /api group).
func Register(api *gin.RouterGroup, svc Services) {
	searchHandler := NewSearchHandler(svc.Search)
	feedbackHandler := NewFeedbackHandler(svc.Search)
	listingHandler := NewListingHandler(svc.Listings)
	bookingHandler := NewBookingHandler(svc.Bookings)
	authHandler := NewAuthHandler(svc.Auth)
	messageHandler := NewMessageHandler(svc.Messages)
	notificationHandler := NewNotificationHandler(svc.Notifications, svc.Realtime)
	adminHandler := NewAdminHandler(svc.Admin)
	embeddingHandler := NewEmbeddingHandler(svc.Embeddings)

	requireAuth := RequireAuth(svc.Auth)

	// Search endpoints
	api.GET("/search", searchHandler.Search)
	api.GET("/search/stream", searchHandler.SearchStream)
	api.POST("/search/feedback", feedbackHandler.Submit)

	// Auth endpoints
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", requireAuth, authHandler.Logout)
	api.GET("/auth/me", requireAuth, authHandler.Me)

	// Listing endpoints
	api.GET("/listings", listingHandler.Browse)
	api.GET("/listings/:id", OptionalAuth(svc.Auth), listingHandler.Get)
	api.GET("/listings/:id/similar", OptionalAuth(svc.Auth), listingHandler.Similar)
	api.POST("/listings", requireAuth, listingHandler.Create)
	api.PATCH("/listings/:id", requireAuth, listingHandler.Update)
	api.DELETE("/listings/:id", requireAuth, listingHandler.Archive)
	api.GET("/me/listings", requireAuth, listingHandler.Mine)

	authed := api.Group("", requireAuth)
	{
		authed.POST("/bookings", bookingHandler.Create)
		authed.GET("/bookings", bookingHandler.ListMine)
		authed.GET("/bookings/incoming", bookingHandler.ListIncoming)
		authed.PATCH("/bookings/:id/status", bookingHandler.UpdateStatus)

		authed.POST("/messages", messageHandler.Send)
		authed.GET("/messages", messageHandler.Conversations)
		authed.GET("/messages/:userId", messageHandler.Thread)

		authed.GET("/notifications", notificationHandler.List)
		authed.GET("/notifications/stream", notificationHandler.Stream)
		authed.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		authed.POST("/notifications/:id/read", notificationHandler.MarkRead)

		authed.POST("/reports", adminHandler.Report)
	}

	admin := api.Group("/admin", requireAuth)
	{
		admin.GET("/permissions", adminHandler.Permissions)
		admin.GET("/stats", RequirePermission(permission.ViewDashboard), adminHandler.Stats)

		admin.GET("/users", RequirePermission(permission.ManageUsers), adminHandler.ListUsers)
		admin.PATCH("/users/:id", RequirePermission(permission.ManageUsers), adminHandler.UpdateUser)

		admin.PATCH("/listings/:id/status", RequirePermission(permission.ManageListings), adminHandler.SetListingStatus)
		admin.POST("/embeddings/batch", RequirePermission(permission.ManageListings), embeddingHandler.BatchUpdate)

		admin.GET("/moderation", RequirePermission(permission.ModerateContent), adminHandler.ListModeration)
		admin.POST("/moderation/:id/resolve", RequirePermission(permission.ModerateContent), adminHandler.Resolve)

		admin.GET("/settings", RequirePermission(permission.ManageSettings), adminHandler.Settings)
		admin.PUT("/settings/:key", RequirePermission(permission.ManageSettings), adminHandler.UpdateSetting)
	}
}
