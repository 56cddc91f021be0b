package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSources is the compiled-in feed source list.
var DefaultSources = []Source{
	{Name: "The Hacker News", URL: "https://feeds.feedburner.com/TheHackersNews"},
	{Name: "BleepingComputer", URL: "https://www.bleepingcomputer.com/feed/"},
	{Name: "Krebs on Security", URL: "https://krebsonsecurity.com/feed/"},
	{Name: "SecurityWeek", URL: "https://www.securityweek.com/feed/"},
	{Name: "Dark Reading", URL: "https://www.darkreading.com/rss.xml"},
	{Name: "CISA Alerts", URL: "https://www.cisa.gov/cybersecurity-advisories/all.xml"},
}

// DefaultSymbols is the compiled-in quote symbol list.
var DefaultSymbols = []Symbol{
	{Code: "AAPL", Name: "Apple"},
	{Code: "MSFT", Name: "Microsoft"},
	{Code: "GOOGL", Name: "Alphabet"},
	{Code: "AMZN", Name: "Amazon"},
	{Code: "NVDA", Name: "NVIDIA"},
	{Code: "META", Name: "Meta"},
	{Code: "TSLA", Name: "Tesla"},
}

// Load returns the built-in configuration, optionally overridden by a YAML
// file. An empty path or a missing file keeps the defaults; a file that
// exists but fails to parse or validate is an error.
func Load(path string) (*File, error) {
	cfg := &File{
		Sources: DefaultSources,
		Symbols: DefaultSymbols,
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	if len(file.Sources) > 0 {
		for _, s := range file.Sources {
			if s.Name == "" || s.URL == "" {
				return nil, fmt.Errorf("invalid source entry in %s: name and url are required", path)
			}
		}
		cfg.Sources = file.Sources
	}

	if len(file.Symbols) > 0 {
		for _, s := range file.Symbols {
			if s.Code == "" {
				return nil, fmt.Errorf("invalid symbol entry in %s: code is required", path)
			}
		}
		cfg.Symbols = file.Symbols
	}

	return cfg, nil
}
