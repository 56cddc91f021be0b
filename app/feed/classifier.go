package feed

import (
	"strings"
)

// Rule pairs a label with the keywords that select it. Rules are evaluated
// in declaration order and the first rule with any matching keyword wins,
// so order encodes priority.
type Rule struct {
	Label string
	Words []string
}

var CategoryRules = []Rule{
	{Label: "Ransomware", Words: []string{"ransomware", "extortion", "locker"}},
	{Label: "Vulnerability", Words: []string{"cve-", "vulnerability", "zero-day", "patch", "exploit"}},
	{Label: "Breach", Words: []string{"breach", "data leak", "stolen data", "database exposed"}},
	{Label: "Malware", Words: []string{"malware", "trojan", "botnet", "spyware", "wiper"}},
	{Label: "Nation-State", Words: []string{"apt", "nation-state", "espionage"}},
	{Label: "Cloud", Words: []string{"aws", "azure", "gcp", "cloud"}},
	{Label: "AI Security", Words: []string{"llm", "ai model", "prompt injection", "ai security"}},
}

var SeverityRules = []Rule{
	{Label: "Critical", Words: []string{"critical", "zero-day", "actively exploited", "wormable"}},
	{Label: "High", Words: []string{"ransomware", "breach", "botnet", "exploit"}},
	{Label: "Medium", Words: []string{"vulnerability", "patch", "phishing", "malware"}},
}

const (
	DefaultCategory = "General"
	DefaultSeverity = "Low"
)

// Classify assigns a category and severity to the given item text via
// first-match-wins keyword rules. It always returns labels from the fixed
// taxonomies.
func Classify(title, summary string, categories []string) (category, severity string) {
	blob := classifyBlob(title, summary, categories)

	category = matchRule(blob, CategoryRules, DefaultCategory)
	severity = matchRule(blob, SeverityRules, DefaultSeverity)

	return category, severity
}

func classifyBlob(title, summary string, categories []string) string {
	return strings.ToLower(title + " " + summary + " " + strings.Join(categories, " "))
}

func matchRule(blob string, rules []Rule, fallback string) string {
	for _, rule := range rules {
		for _, word := range rule.Words {
			if strings.Contains(blob, word) {
				return rule.Label
			}
		}
	}
	return fallback
}
