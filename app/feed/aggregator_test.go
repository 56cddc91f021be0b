package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rmhservices05-prog/alohomora/app/config"
)

func rssBody(entries ...string) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Test</title>`
	for _, e := range entries {
		body += e
	}
	return body + `</channel></rss>`
}

func rssEntry(title, link string, published time.Time) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><guid>%s</guid><pubDate>%s</pubDate></item>`,
		title, link, link, published.Format(time.RFC1123Z))
}

func newTestAggregator(sources []config.Source, retention time.Duration, techFilter bool) *Aggregator {
	return NewAggregator(sources, &http.Client{}, "alohomora-test/1.0",
		5*time.Second, retention, techFilter)
}

func TestAggregator_MergesAndSorts(t *testing.T) {
	now := time.Now().UTC()
	older := now.Add(-2 * time.Hour)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody(
			rssEntry("Older story", "https://example.com/a", older),
			rssEntry("Newer story", "https://example.com/b", now),
		))
	}))
	defer srv.Close()

	agg := newTestAggregator([]config.Source{{Name: "One", URL: srv.URL}}, 14*24*time.Hour, false)
	items := agg.LoadAll(context.Background())

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Newer story" {
		t.Errorf("Expected newest first, got %q", items[0].Title)
	}
}

func TestAggregator_PartialFailureTolerance(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody(rssEntry("Only story", "https://example.com/x", time.Now().UTC())))
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer bad.Close()

	sources := []config.Source{
		{Name: "Broken", URL: bad.URL},
		{Name: "Good", URL: good.URL},
		{Name: "Unreachable", URL: "http://127.0.0.1:1/feed"},
	}

	agg := newTestAggregator(sources, 0, false)
	items := agg.LoadAll(context.Background())

	if len(items) != 1 {
		t.Fatalf("Expected the failing sources to contribute zero items, got %d", len(items))
	}
	if items[0].Source != "Good" {
		t.Errorf("Expected item from the healthy source, got %q", items[0].Source)
	}
}

func TestAggregator_DedupByLink(t *testing.T) {
	now := time.Now().UTC()
	shared := "https://example.com/shared"

	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody(rssEntry("From first source", shared, now)))
	}))
	defer first.Close()

	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody(rssEntry("From second source", shared, now)))
	}))
	defer second.Close()

	sources := []config.Source{
		{Name: "First", URL: first.URL},
		{Name: "Second", URL: second.URL},
	}

	agg := newTestAggregator(sources, 0, false)
	items := agg.LoadAll(context.Background())

	if len(items) != 1 {
		t.Fatalf("Expected duplicates collapsed to 1 item, got %d", len(items))
	}
	if items[0].Source != "First" {
		t.Errorf("Expected first occurrence kept, got %q", items[0].Source)
	}
}

func TestAggregator_RecencyFilter(t *testing.T) {
	now := time.Now().UTC()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody(
			rssEntry("Fresh", "https://example.com/fresh", now.Add(-time.Hour)),
			rssEntry("Ancient", "https://example.com/ancient", now.Add(-30*24*time.Hour)),
			`<item><title>No date</title><link>https://example.com/nodate</link></item>`,
		))
	}))
	defer srv.Close()

	agg := newTestAggregator([]config.Source{{Name: "One", URL: srv.URL}}, 14*24*time.Hour, false)
	items := agg.LoadAll(context.Background())

	if len(items) != 1 {
		t.Fatalf("Expected only the fresh item, got %d", len(items))
	}
	if items[0].Title != "Fresh" {
		t.Errorf("Expected Fresh, got %q", items[0].Title)
	}

	// With retention disabled the dateless and ancient items survive.
	agg = newTestAggregator([]config.Source{{Name: "One", URL: srv.URL}}, 0, false)
	items = agg.LoadAll(context.Background())
	if len(items) != 3 {
		t.Errorf("Expected all 3 items with retention disabled, got %d", len(items))
	}
}

func TestAggregator_TechFilter(t *testing.T) {
	now := time.Now().UTC()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody(
			rssEntry("Ransomware hits hospital", "https://example.com/1", now),
			rssEntry("New quantum computer milestone", "https://example.com/2", now),
			rssEntry("Local bakery wins award", "https://example.com/3", now),
		))
	}))
	defer srv.Close()

	agg := newTestAggregator([]config.Source{{Name: "One", URL: srv.URL}}, 0, true)
	items := agg.LoadAll(context.Background())

	if len(items) != 2 {
		t.Fatalf("Expected the off-topic item dropped, got %d items", len(items))
	}
	for _, item := range items {
		if item.Title == "Local bakery wins award" {
			t.Error("Off-topic General item should have been filtered out")
		}
	}
}

func TestAggregator_Idempotence(t *testing.T) {
	now := time.Now().UTC()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody(
			rssEntry("Critical zero-day in London datacenter", "https://example.com/z", now),
		))
	}))
	defer srv.Close()

	agg := newTestAggregator([]config.Source{{Name: "One", URL: srv.URL}}, 0, false)

	first := agg.LoadAll(context.Background())
	second := agg.LoadAll(context.Background())

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("Expected 1 item per pass, got %d and %d", len(first), len(second))
	}

	a, b := first[0], second[0]
	if a.ID != b.ID || a.Category != b.Category || a.Severity != b.Severity {
		t.Errorf("Expected identical derivation across passes: %+v vs %+v", a, b)
	}
	if (a.Location == nil) != (b.Location == nil) ||
		(a.Location != nil && a.Location.Label != b.Location.Label) {
		t.Errorf("Expected identical location across passes: %+v vs %+v", a.Location, b.Location)
	}
}
