package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/service"
)

// ListingHandler serves the listing catalogue
type ListingHandler struct {
	listingService *service.ListingService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listingService *service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// Browse handles GET /api/listings?category=&page=&pageSize=
func (h *ListingHandler) Browse(c *gin.Context) {
	page, err := h.listingService.Browse(c.Request.Context(),
		c.Query("category"),
		queryInt(c, "page", 1),
		queryInt(c, "pageSize", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/listings/:id
func (h *ListingHandler) Get(c *gin.Context) {
	listing, err := h.listingService.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Create handles POST /api/listings
func (h *ListingHandler) Create(c *gin.Context) {
	var in model.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	listing, err := h.listingService.Create(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// Update handles PATCH /api/listings/:id
func (h *ListingHandler) Update(c *gin.Context) {
	var patch model.ListingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	listing, err := h.listingService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Archive handles DELETE /api/listings/:id
func (h *ListingHandler) Archive(c *gin.Context) {
	if err := h.listingService.Archive(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Similar handles GET /api/listings/:id/similar
func (h *ListingHandler) Similar(c *gin.Context) {
	listings, err := h.listingService.Similar(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": listings})
}

// Mine handles GET /api/me/listings
func (h *ListingHandler) Mine(c *gin.Context) {
	listings, err := h.listingService.Mine(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": listings})
}
