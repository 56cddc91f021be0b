package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	Port        string `long:"port" env:"PORT" default:"3000" description:"HTTP server port"`
	SourcesFile string `long:"sources-file" env:"SOURCES_FILE" description:"Optional YAML file overriding the built-in feed sources and quote symbols"`
	PublicDir   string `long:"public-dir" env:"PUBLIC_DIR" default:"./public" description:"Directory with the dashboard static files"`

	// Aggregation tuning
	FeedTimeout   int  `long:"feed-timeout" env:"FEED_TIMEOUT" default:"12" description:"Per-feed fetch timeout in seconds"`
	RetentionDays int  `long:"retention-days" env:"RETENTION_DAYS" default:"14" description:"Drop items older than this many days (0 disables)"`
	TechFilter    bool `long:"tech-filter" env:"TECH_FILTER" description:"Drop unclassified items without technology-signal keywords"`

	// Cache tuning
	QuoteTTL       int `long:"quote-ttl" env:"QUOTE_TTL" default:"20" description:"Quote snapshot cache TTL in seconds"`
	ArticleMetaTTL int `long:"article-meta-ttl" env:"ARTICLE_META_TTL" default:"21600" description:"Article metadata cache TTL in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"alohomora/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:           raw.Port,
		SourcesFile:    raw.SourcesFile,
		PublicDir:      raw.PublicDir,
		FeedTimeout:    raw.FeedTimeout,
		RetentionDays:  raw.RetentionDays,
		TechFilter:     raw.TechFilter,
		QuoteTTL:       raw.QuoteTTL,
		ArticleMetaTTL: raw.ArticleMetaTTL,
		UserAgent:      raw.UserAgent,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
