package changelog

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	cacheTTL   = 5 * time.Minute
	maxEntries = 50
	fieldSep   = "\x1f"
)

// Entry is one version-control log line served on the changelog endpoint.
type Entry struct {
	Hash    string `json:"hash"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
}

// Service reads the process working directory's git log and caches the
// parsed entries briefly. A missing git binary or a non-repository
// directory degrades to an empty list rather than an error.
type Service struct {
	repoDir string

	mu        sync.Mutex
	cached    []Entry
	expiresAt time.Time
}

func NewService(repoDir string) *Service {
	return &Service{repoDir: repoDir}
}

// Entries returns up to limit changelog entries, newest first.
func (s *Service) Entries(ctx context.Context, limit int) []Entry {
	if limit <= 0 || limit > maxEntries {
		limit = maxEntries
	}

	s.mu.Lock()
	if s.cached != nil && time.Now().Before(s.expiresAt) {
		entries := s.cached
		s.mu.Unlock()
		return clip(entries, limit)
	}
	s.mu.Unlock()

	entries := s.load(ctx)

	s.mu.Lock()
	s.cached = entries
	s.expiresAt = time.Now().Add(cacheTTL)
	s.mu.Unlock()

	return clip(entries, limit)
}

func (s *Service) load(ctx context.Context) []Entry {
	cmd := exec.CommandContext(ctx, "git", "log",
		"--max-count", "50",
		"--date=short",
		"--pretty=format:%h"+fieldSep+"%ad"+fieldSep+"%s")
	cmd.Dir = s.repoDir

	out, err := cmd.Output()
	if err != nil {
		slog.Debug("Changelog unavailable", "error", err)
		return []Entry{}
	}

	return parseLog(string(out))
}

// parseLog splits git log output produced with the unit-separator pretty
// format into entries, skipping malformed lines.
func parseLog(out string) []Entry {
	entries := []Entry{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, fieldSep, 3)
		if len(fields) != 3 {
			continue
		}
		entries = append(entries, Entry{
			Hash:    fields[0],
			Date:    fields[1],
			Subject: fields[2],
		})
	}
	return entries
}

func clip(entries []Entry, limit int) []Entry {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
