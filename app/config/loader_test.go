package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Sources) != len(DefaultSources) {
		t.Errorf("Expected %d default sources, got %d", len(DefaultSources), len(cfg.Sources))
	}
	if len(cfg.Symbols) != len(DefaultSymbols) {
		t.Errorf("Expected %d default symbols, got %d", len(DefaultSymbols), len(cfg.Symbols))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	if err != nil {
		t.Fatalf("Load should keep defaults for a missing file, got: %v", err)
	}
	if len(cfg.Sources) == 0 {
		t.Error("Expected default sources for a missing file")
	}
}

func TestLoad_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	content := `
sources:
  - name: Example Security
    url: https://example.com/feed.xml
symbols:
  - code: IBM
    name: IBM
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Sources) != 1 || cfg.Sources[0].Name != "Example Security" {
		t.Errorf("Expected overridden source list, got %+v", cfg.Sources)
	}
	if len(cfg.Symbols) != 1 || cfg.Symbols[0].Code != "IBM" {
		t.Errorf("Expected overridden symbol list, got %+v", cfg.Symbols)
	}
}

func TestLoad_PartialOverrideKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	content := `
sources:
  - name: Only Feed
    url: https://example.com/rss
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Sources) != 1 {
		t.Errorf("Expected 1 source, got %d", len(cfg.Sources))
	}
	if len(cfg.Symbols) != len(DefaultSymbols) {
		t.Errorf("Expected default symbols to be kept, got %d", len(cfg.Symbols))
	}
}

func TestLoad_InvalidEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	content := `
sources:
  - name: Missing URL
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected an error for a source without a url")
	}
}
