package quotes

import (
	"context"
	"time"

	"github.com/rmhservices05-prog/alohomora/app/config"
)

// Quote is one symbol's latest price data. Price and ChangePercent are nil
// when the upstream provider had no data for the symbol.
type Quote struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Price         *float64 `json:"price"`
	ChangePercent *float64 `json:"changePercent"`
}

// Snapshot is the cached quote set served to the dashboard. Warning is
// non-empty when the data is degraded (delayed provider or stale cache).
type Snapshot struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Items       []Quote   `json:"items"`
	Warning     string    `json:"warning,omitempty"`
}

// Provider is one tier of the fallback chain. Fetch returns a soft error
// for network failures and non-2xx responses; the chain treats any error,
// and any result without a single non-nil price, as a miss and moves on.
type Provider struct {
	Name    string
	Warning string
	Fetch   func(ctx context.Context, symbols []config.Symbol) ([]Quote, error)
}
