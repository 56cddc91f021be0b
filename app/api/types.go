package api

import (
	"time"

	"github.com/rmhservices05-prog/alohomora/app/changelog"
	"github.com/rmhservices05-prog/alohomora/app/feed"
	"github.com/rmhservices05-prog/alohomora/app/quotes"
)

type NewsResponse struct {
	GeneratedAt time.Time   `json:"generatedAt"`
	Count       int         `json:"count"`
	Items       []feed.Item `json:"items"`
}

type StocksResponse struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Count       int            `json:"count"`
	Warning     *string        `json:"warning"`
	Items       []quotes.Quote `json:"items"`
}

type ChangelogResponse struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Count       int               `json:"count"`
	Items       []changelog.Entry `json:"items"`
}
