package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/service"
)

// FeedbackHandler handles feedback on logged searches
type FeedbackHandler struct {
	searchService *service.SearchService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(searchService *service.SearchService) *FeedbackHandler {
	return &FeedbackHandler{searchService: searchService}
}

// Submit handles POST /api/search/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.searchService.LogFeedback(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{
		Success: true,
		Message: "Feedback logged successfully",
	})
}
