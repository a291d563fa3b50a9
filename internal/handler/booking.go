package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/service"
)

// BookingHandler handles booking requests
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req model.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// ListMine handles GET /api/bookings
func (h *BookingHandler) ListMine(c *gin.Context) {
	bookings, err := h.bookingService.ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": bookings})
}

// ListIncoming handles GET /api/bookings/incoming
func (h *BookingHandler) ListIncoming(c *gin.Context) {
	bookings, err := h.bookingService.ListIncoming(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": bookings})
}

// UpdateStatus handles PATCH /api/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req model.BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	status := model.BookingStatus(strings.ToUpper(string(req.Status)))
	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), currentUserID(c), c.Param("id"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
