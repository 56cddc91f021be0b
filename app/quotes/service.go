package quotes

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rmhservices05-prog/alohomora/app/config"
)

// Service caches one quote snapshot per process and refreshes it through
// the provider fallback chain. Concurrent callers during a refresh may each
// trigger a redundant upstream fetch; all paths converge on idempotent
// cache writes, so this is accepted rather than single-flighted.
type Service struct {
	providers []Provider
	symbols   []config.Symbol
	ttl       time.Duration

	mu        sync.Mutex
	cached    *Snapshot
	expiresAt time.Time
}

func NewService(providers []Provider, symbols []config.Symbol, ttl time.Duration) *Service {
	return &Service{
		providers: providers,
		symbols:   symbols,
		ttl:       ttl,
	}
}

// Fetch returns the current snapshot, refreshing through the fallback
// chain when the cache is stale or force is set. It never returns an
// error: total provider exhaustion degrades to a stale snapshot or an
// all-null placeholder with a warning.
func (s *Service) Fetch(ctx context.Context, force bool) Snapshot {
	s.mu.Lock()
	if !force && s.cached != nil && time.Now().Before(s.expiresAt) {
		snapshot := *s.cached
		s.mu.Unlock()
		return snapshot
	}
	s.mu.Unlock()

	for _, provider := range s.providers {
		items, err := provider.Fetch(ctx, s.symbols)
		if err != nil {
			slog.Warn("Quote provider failed", "provider", provider.Name, "error", err)
			continue
		}
		if !hasAnyPrice(items) {
			slog.Warn("Quote provider returned no usable prices", "provider", provider.Name)
			continue
		}

		snapshot := Snapshot{
			GeneratedAt: time.Now().UTC(),
			Items:       items,
			Warning:     provider.Warning,
		}
		s.store(snapshot)
		return snapshot
	}

	// Every tier failed. Prefer serving the previous snapshot stale.
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		stale := *s.cached
		stale.Warning = "Live quote providers are unavailable; showing cached data."
		return stale
	}

	placeholder := make([]Quote, 0, len(s.symbols))
	for _, symbol := range s.symbols {
		placeholder = append(placeholder, Quote{Symbol: symbol.Code, Name: symbol.Name})
	}

	return Snapshot{
		GeneratedAt: time.Now().UTC(),
		Items:       placeholder,
		Warning:     "Quote data is currently unavailable.",
	}
}

func (s *Service) store(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = &snapshot
	s.expiresAt = time.Now().Add(s.ttl)
}

// hasAnyPrice is the per-tier success criterion: at least one symbol with
// a non-nil price.
func hasAnyPrice(items []Quote) bool {
	for _, q := range items {
		if q.Price != nil {
			return true
		}
	}
	return false
}
