package cfg

type Cfg struct {
	// Application configuration
	Port        string
	SourcesFile string
	PublicDir   string

	// Aggregation tuning
	FeedTimeout   int // seconds
	RetentionDays int // 0 disables the recency filter
	TechFilter    bool

	// Cache tuning
	QuoteTTL       int // seconds
	ArticleMetaTTL int // seconds

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
