package api

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rmhservices05-prog/alohomora/app/articlemeta"
	"github.com/rmhservices05-prog/alohomora/app/changelog"
	"github.com/rmhservices05-prog/alohomora/app/feed"
	"github.com/rmhservices05-prog/alohomora/app/quotes"
)

const defaultNewsLimit = 80

type Handler struct {
	aggregator  *feed.Aggregator
	quotes      *quotes.Service
	articleMeta *articlemeta.Service
	changelog   *changelog.Service
}

func NewHandler(aggregator *feed.Aggregator, quoteService *quotes.Service,
	articleMeta *articlemeta.Service, changelogService *changelog.Service) *Handler {
	return &Handler{
		aggregator:  aggregator,
		quotes:      quoteService,
		articleMeta: articleMeta,
		changelog:   changelogService,
	}
}

func (h *Handler) GetNews(c *gin.Context) {
	limit := queryInt(c, "limit", defaultNewsLimit)

	items := h.aggregator.LoadAll(c.Request.Context())
	if limit < len(items) {
		items = items[:limit]
	}

	c.JSON(http.StatusOK, NewsResponse{
		GeneratedAt: time.Now().UTC(),
		Count:       len(items),
		Items:       items,
	})
}

func (h *Handler) GetStocks(c *gin.Context) {
	force := c.Query("refresh") == "1"

	snapshot := h.quotes.Fetch(c.Request.Context(), force)

	var warning *string
	if snapshot.Warning != "" {
		warning = &snapshot.Warning
	}

	c.JSON(http.StatusOK, StocksResponse{
		GeneratedAt: snapshot.GeneratedAt,
		Count:       len(snapshot.Items),
		Warning:     warning,
		Items:       snapshot.Items,
	})
}

func (h *Handler) GetArticleMeta(c *gin.Context) {
	raw := c.Query("url")

	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url must be an absolute http(s) URL"})
		return
	}

	meta := h.articleMeta.Fetch(c.Request.Context(), parsed.String())
	c.JSON(http.StatusOK, meta)
}

func (h *Handler) GetChangelog(c *gin.Context) {
	limit := queryInt(c, "limit", 20)

	entries := h.changelog.Entries(c.Request.Context(), limit)

	c.JSON(http.StatusOK, ChangelogResponse{
		GeneratedAt: time.Now().UTC(),
		Count:       len(entries),
		Items:       entries,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "alohomora",
	})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
