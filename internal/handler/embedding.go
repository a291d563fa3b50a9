package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/service"
)

// EmbeddingHandler handles embedding-related HTTP requests
type EmbeddingHandler struct {
	embeddingService *service.EmbeddingService
}

// NewEmbeddingHandler creates a new embedding handler
func NewEmbeddingHandler(embeddingService *service.EmbeddingService) *EmbeddingHandler {
	return &EmbeddingHandler{embeddingService: embeddingService}
}

// BatchUpdate handles POST /api/admin/embeddings/batch
func (h *EmbeddingHandler) BatchUpdate(c *gin.Context) {
	var req model.EmbeddingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	response, err := h.embeddingService.UpdateEmbeddings(c.Request.Context(), req.Embeddings)
	if err != nil {
		respondError(c, err)
		return
	}

	if response.Failed > 0 {
		c.JSON(http.StatusPartialContent, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
