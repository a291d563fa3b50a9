package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/apperr"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/logger"
)

const internalErrorMessage = "Internal server error"

// respondError writes err as a JSON error body. Client-facing errors keep
// their status and message; anything else is logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		c.AbortWithStatusJSON(e.Status, gin.H{"error": e.Message})
		return
	}

	logger.FromContext(c.Request.Context(), nil).Error("request failed",
		zap.String("route", c.FullPath()),
		zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

// queryInt reads an integer query parameter, returning def when absent or malformed.
func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
