package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/logger"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/service"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles GET /api/search?q=
func (h *SearchHandler) Search(c *gin.Context) {
	response, err := h.searchService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// SearchStream handles GET /api/search/stream?q= - SSE streaming search
func (h *SearchHandler) SearchStream(c *gin.Context) {
	flusher, ok := startSSE(c)
	if !ok {
		return
	}

	response, err := h.searchService.SearchStream(c.Request.Context(), c.Query("q"), func(event string, data any) error {
		sendSSE(c, event, data)
		flusher.Flush()
		return c.Request.Context().Err()
	})
	if err != nil {
		logger.FromContext(c.Request.Context(), nil).Error("streaming search failed", zap.Error(err))
		sendSSE(c, "error", gin.H{"error": internalErrorMessage})
		flusher.Flush()
		return
	}

	sendSSE(c, "results", response)
	flusher.Flush()

	sendSSE(c, "done", nil)
	flusher.Flush()
}

// startSSE sets the event-stream headers. It fails only when the writer cannot flush.
func startSSE(c *gin.Context) (http.Flusher, bool) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return nil, false
	}

	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	flusher.Flush()
	return flusher, true
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data == nil {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
		return
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, jsonData)
}
