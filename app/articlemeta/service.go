package articlemeta

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const fetchTimeout = 9 * time.Second

// Meta is the scraped page metadata for one article URL. Failed fetches
// degrade to a payload carrying only the URL.
type Meta struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

type cacheEntry struct {
	value     Meta
	expiresAt time.Time
}

// Service caches per-URL page metadata. Failures are cached too, so dead
// or blocked URLs do not trigger repeated upstream fetches. The cache has
// no eviction beyond the TTL re-check on read, so it grows with the set of
// distinct URLs requested over the process lifetime.
type Service struct {
	httpClient *http.Client
	userAgent  string
	ttl        time.Duration
	limiter    *rate.Limiter

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewService(httpClient *http.Client, userAgent string, ttl time.Duration) *Service {
	return &Service{
		httpClient: httpClient,
		userAgent:  userAgent,
		ttl:        ttl,
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		entries:    make(map[string]cacheEntry),
	}
}

// Fetch returns cached metadata for the URL, scraping the page on a miss.
// It never returns an error: any failure is cached and served as a minimal
// payload.
func (s *Service) Fetch(ctx context.Context, articleURL string) Meta {
	s.mu.Lock()
	if entry, ok := s.entries[articleURL]; ok {
		if time.Now().Before(entry.expiresAt) {
			s.mu.Unlock()
			return entry.value
		}
		delete(s.entries, articleURL)
	}
	s.mu.Unlock()

	meta, err := s.scrape(ctx, articleURL)
	if err != nil {
		slog.Warn("Article metadata fetch failed", "url", articleURL, "error", err)
		meta = Meta{URL: articleURL}
	}

	s.mu.Lock()
	s.entries[articleURL] = cacheEntry{value: meta, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return meta
}

func (s *Service) scrape(ctx context.Context, articleURL string) (Meta, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Meta{}, fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, articleURL, nil)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Meta{}, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to parse page: %w", err)
	}

	// The redirect target, not the requested URL, is the base for
	// resolving relative image references.
	base := articleURL
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL.String()
	}

	return Meta{
		URL:         articleURL,
		Title:       extractTitle(doc),
		Description: extractDescription(doc),
		Image:       extractImage(doc, base),
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	if content := metaContent(doc, `meta[property="og:title"]`); content != "" {
		return content
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractDescription(doc *goquery.Document) string {
	selectors := []string{
		`meta[property="og:description"]`,
		`meta[name="twitter:description"]`,
		`meta[name="description"]`,
	}
	for _, sel := range selectors {
		if content := metaContent(doc, sel); content != "" {
			return content
		}
	}
	return ""
}

func extractImage(doc *goquery.Document, base string) string {
	selectors := []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
	}
	for _, sel := range selectors {
		if content := metaContent(doc, sel); content != "" {
			if resolved := resolveURL(content, base); resolved != "" {
				return resolved
			}
		}
	}

	if src, ok := doc.Find("img[src]").First().Attr("src"); ok {
		return resolveURL(src, base)
	}
	return ""
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// resolveURL resolves raw against base and keeps only http(s) results.
func resolveURL(raw, base string) string {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}

	resolved := ref
	if baseURL, err := url.Parse(base); err == nil {
		resolved = baseURL.ResolveReference(ref)
	}

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Host == "" {
		return ""
	}

	return resolved.String()
}
