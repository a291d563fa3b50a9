//go:build embed

package main

import (
	"embed"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed web/dist
var webDist embed.FS

var contentTypes = map[string]string{
	".js":   "application/javascript; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// setupStaticFiles serves the embedded single-page app. Unknown paths get
// index.html so client-side routes resolve.
func setupStaticFiles(router *gin.Engine, log *zap.Logger) {
	log.Info("serving embedded frontend assets")

	distFS, err := fs.Sub(webDist, "web/dist")
	if err != nil {
		log.Fatal("embedded frontend is missing web/dist", zap.Error(err))
	}

	router.NoRoute(func(c *gin.Context) {
		urlPath := c.Request.URL.Path
		if strings.HasPrefix(urlPath, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}

		cleanPath := path.Clean(urlPath)
		if cleanPath == "/" {
			cleanPath = "index.html"
		} else {
			cleanPath = cleanPath[1:]
		}

		if content, ok := readAsset(distFS, cleanPath); ok {
			contentType, known := contentTypes[path.Ext(cleanPath)]
			if !known {
				contentType = "text/html; charset=utf-8"
			}
			c.Data(http.StatusOK, contentType, content)
			return
		}

		index, ok := readAsset(distFS, "index.html")
		if !ok {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
}

func readAsset(fsys fs.FS, name string) ([]byte, bool) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil || stat.IsDir() {
		return nil, false
	}
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, false
	}
	return content, true
}
