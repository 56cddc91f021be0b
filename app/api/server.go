package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the HTTP server with all routes configured. publicDir
// is served as the dashboard root when it exists.
func NewServer(handler *Handler, publicDir string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}))

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, publicDir)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, publicDir string) {
	r.GET("/healthz", handler.GetHealth)

	api := r.Group("/api")
	{
		api.GET("/news", handler.GetNews)
		api.GET("/stocks", handler.GetStocks)
		api.GET("/article-meta", handler.GetArticleMeta)
		api.GET("/changelog", handler.GetChangelog)
	}

	// Dashboard static files, when the public directory is present.
	if stat, err := os.Stat(publicDir); err == nil && stat.IsDir() {
		index := filepath.Join(publicDir, "index.html")
		r.GET("/", func(c *gin.Context) {
			c.File(index)
		})
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(publicDir))))
		return
	}

	// Without a dashboard, the root answers with basic service info.
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "alohomora",
			"description": "Security news aggregation with classification, geolocation, and market quotes",
			"endpoints": map[string]string{
				"news":         "/api/news?limit=<n>",
				"stocks":       "/api/stocks?refresh=1",
				"article-meta": "/api/article-meta?url=<encoded URL>",
				"changelog":    "/api/changelog?limit=<n>",
				"health":       "/healthz",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}
