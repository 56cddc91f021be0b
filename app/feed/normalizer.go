package feed

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/rmhservices05-prog/alohomora/app/config"
)

const summaryLimit = 360

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	imgTagRe     = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
	metaImageRe  = regexp.MustCompile(`(?i)<meta[^>]+(?:property|name)=["'](?:og:image|twitter:image)["'][^>]+content=["']([^"']+)["']`)
)

// Normalize maps a parsed feed entry into the canonical item shape. The
// derived id is a pure function of the source name and entry identity, so
// repeated fetches of the same entry produce the same id.
func Normalize(entry *gofeed.Item, source config.Source) Item {
	title := entry.Title
	if title == "" {
		title = "Untitled"
	}

	summary := entry.Description
	if summary == "" {
		summary = entry.Content
	}
	summary = truncate(summary, summaryLimit)

	categories := entry.Categories
	if categories == nil {
		categories = []string{}
	}

	category, severity := Classify(title, summary, categories)
	location := InferLocation(title, summary, categories)

	return Item{
		ID:          buildID(source.Name, entry),
		Title:       title,
		Link:        entry.Link,
		Source:      source.Name,
		PublishedAt: publishedAt(entry),
		Summary:     summary,
		Categories:  categories,
		Category:    category,
		Severity:    severity,
		Location:    location,
		Image:       extractImage(entry, source),
	}
}

// buildID derives a stable id from the source name and the first available
// identity field, with whitespace runs collapsed to underscores.
func buildID(sourceName string, entry *gofeed.Item) string {
	key := entry.GUID
	if key == "" {
		key = entry.Link
	}
	if key == "" {
		key = entry.Title
		if key == "" {
			key = "Untitled"
		}
	}
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(sourceName+":"+key), "_")
}

// publishedAt tries the parsed date fields first and falls back to lenient
// parsing of the raw strings. Unparsable dates become nil and are dropped
// later when recency filtering applies.
func publishedAt(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		t := entry.PublishedParsed.UTC()
		return &t
	}
	if entry.UpdatedParsed != nil {
		t := entry.UpdatedParsed.UTC()
		return &t
	}

	for _, raw := range []string{entry.Published, entry.Updated} {
		if raw == "" {
			continue
		}
		if t, err := dateparse.ParseAny(raw); err == nil {
			t = t.UTC()
			return &t
		}
	}

	return nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// extractImage tries the explicit enclosure, then media:content and
// media:thumbnail extensions, then scans the raw HTML content for an image
// reference. The result is resolved against the item link (or the feed URL)
// and must be http(s).
func extractImage(entry *gofeed.Item, source config.Source) string {
	candidates := []func() string{
		func() string { return enclosureURL(entry) },
		func() string { return mediaExtensionURL(entry, "content") },
		func() string { return mediaExtensionURL(entry, "thumbnail") },
		func() string { return htmlImageURL(entry) },
	}

	base := entry.Link
	if base == "" {
		base = source.URL
	}

	for _, candidate := range candidates {
		if raw := candidate(); raw != "" {
			if resolved := resolveImageURL(raw, base); resolved != "" {
				return resolved
			}
		}
	}

	return ""
}

func enclosureURL(entry *gofeed.Item) string {
	for _, enc := range entry.Enclosures {
		if enc != nil && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}

func mediaExtensionURL(entry *gofeed.Item, element string) string {
	media, ok := entry.Extensions["media"]
	if !ok {
		return ""
	}
	for _, ext := range media[element] {
		if u := ext.Attrs["url"]; u != "" {
			return u
		}
	}
	return ""
}

func htmlImageURL(entry *gofeed.Item) string {
	html := entry.Content
	if html == "" {
		html = entry.Description
	}
	if html == "" {
		return ""
	}

	if m := metaImageRe.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	if m := imgTagRe.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	return ""
}

// resolveImageURL resolves raw against base and keeps only http(s) results.
// Data URIs and malformed references yield "".
func resolveImageURL(raw, base string) string {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}

	resolved := ref
	if baseURL, err := url.Parse(base); err == nil && base != "" {
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
