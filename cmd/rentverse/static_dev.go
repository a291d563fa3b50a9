//go:build !embed

package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// setupStaticFiles answers non-API paths while the frontend runs on its own dev server.
func setupStaticFiles(router *gin.Engine, log *zap.Logger) {
	log.Info("frontend not embedded, serve it separately",
		zap.String("hint", "cd web && npm run dev"))

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Frontend is running separately",
			"dev_url": "http://localhost:3000",
		})
	})
}
