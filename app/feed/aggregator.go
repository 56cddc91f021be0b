package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/rmhservices05-prog/alohomora/app/config"
)

// techSignalWords gates the optional topical filter: items classified as
// the generic default category survive only when their text mentions at
// least one of these. Heuristic policy, not a hard contract.
var techSignalWords = []string{
	"software", "hardware", "cyber", "security", "hack", "breach",
	"artificial intelligence", "machine learning", "chip", "semiconductor",
	"cloud", "startup", "internet", "network", "computer", "crypto",
	"blockchain", "quantum", "robot", "vulnerability",
}

// Aggregator fetches every configured source concurrently and produces the
// merged, deduplicated, recency-filtered item list.
type Aggregator struct {
	sources      []config.Source
	httpClient   *http.Client
	gofeedParser *gofeed.Parser
	userAgent    string
	timeout      time.Duration
	retention    time.Duration
	techFilter   bool
}

func NewAggregator(sources []config.Source, httpClient *http.Client, userAgent string,
	timeout, retention time.Duration, techFilter bool) *Aggregator {
	return &Aggregator{
		sources:      sources,
		httpClient:   httpClient,
		gofeedParser: gofeed.NewParser(),
		userAgent:    userAgent,
		timeout:      timeout,
		retention:    retention,
		techFilter:   techFilter,
	}
}

// LoadAll runs one aggregation pass. A failing or timed-out source
// contributes zero items and never fails the pass as a whole.
func (a *Aggregator) LoadAll(ctx context.Context) []Item {
	results := make([][]Item, len(a.sources))

	var wg sync.WaitGroup
	for i, source := range a.sources {
		wg.Add(1)
		go func(i int, source config.Source) {
			defer wg.Done()
			results[i] = a.loadSource(ctx, source)
		}(i, source)
	}
	wg.Wait()

	merged := make([]Item, 0, 64)
	for _, items := range results {
		merged = append(merged, items...)
	}

	if a.techFilter {
		merged = filterTechRelevant(merged)
	}

	merged = dedupe(merged)

	if a.retention > 0 {
		merged = filterRecent(merged, time.Now().UTC().Add(-a.retention))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return itemTime(merged[i]).After(itemTime(merged[j]))
	})

	return merged
}

func (a *Aggregator) loadSource(ctx context.Context, source config.Source) []Item {
	parsed, err := a.fetchFeed(ctx, source)
	if err != nil {
		slog.Warn("Feed fetch failed, skipping source", "source", source.Name, "error", err)
		return nil
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if entry == nil {
			continue
		}
		items = append(items, Normalize(entry, source))
	}

	slog.Debug("Feed loaded", "source", source.Name, "items", len(items))
	return items
}

func (a *Aggregator) fetchFeed(ctx context.Context, source config.Source) (*gofeed.Feed, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	parsed, err := a.gofeedParser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return parsed, nil
}

// filterTechRelevant drops items that fell through to the default category
// and carry no technology-signal keyword.
func filterTechRelevant(items []Item) []Item {
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Category != DefaultCategory {
			kept = append(kept, item)
			continue
		}
		blob := classifyBlob(item.Title, item.Summary, item.Categories)
		for _, word := range techSignalWords {
			if strings.Contains(blob, word) {
				kept = append(kept, item)
				break
			}
		}
	}
	return kept
}

// dedupe keeps the first occurrence per link, falling back to the derived
// id for entries without a link.
func dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	kept := make([]Item, 0, len(items))

	for _, item := range items {
		key := item.Link
		if key == "" {
			key = item.ID
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, item)
	}

	return kept
}

// filterRecent drops items without a parsable publish date and items older
// than the cutoff.
func filterRecent(items []Item, cutoff time.Time) []Item {
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if item.PublishedAt == nil {
			continue
		}
		if item.PublishedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

func itemTime(item Item) time.Time {
	if item.PublishedAt == nil {
		return time.Time{}
	}
	return *item.PublishedAt
}
