package feed

import (
	"time"
)

// Location is the single best inferred place for an item.
type Location struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Type  string  `json:"type,omitempty"`
}

// Item is the canonical normalized feed entry served to the dashboard.
// Items are created fresh on every aggregation pass and never mutated
// after creation.
type Item struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"publishedAt"`
	Summary     string     `json:"summary"`
	Categories  []string   `json:"categories"`
	Category    string     `json:"category"`
	Severity    string     `json:"severity"`
	Location    *Location  `json:"location"`
	Image       string     `json:"image,omitempty"`
}
