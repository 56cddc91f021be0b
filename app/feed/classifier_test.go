package feed

import (
	"testing"
)

func TestClassify_Defaults(t *testing.T) {
	category, severity := Classify("Quarterly earnings roundup", "Nothing notable here", nil)

	if category != DefaultCategory {
		t.Errorf("Expected default category %q, got %q", DefaultCategory, category)
	}
	if severity != DefaultSeverity {
		t.Errorf("Expected default severity %q, got %q", DefaultSeverity, severity)
	}
}

func TestClassify_RuleOrderDeterminesPrecedence(t *testing.T) {
	// Text matching both the Ransomware and the Vulnerability rules must
	// resolve to Ransomware, which is declared first.
	category, _ := Classify("Ransomware gang abuses new vulnerability", "", nil)
	if category != "Ransomware" {
		t.Errorf("Expected Ransomware (first matching rule), got %q", category)
	}

	// Same text for severity: Critical is declared before High.
	_, severity := Classify("Critical zero-day under ransomware attack", "", nil)
	if severity != "Critical" {
		t.Errorf("Expected Critical (first matching rule), got %q", severity)
	}
}

func TestClassify_MatchesSummaryAndCategories(t *testing.T) {
	category, _ := Classify("Daily digest", "New trojan spotted in the wild", nil)
	if category != "Malware" {
		t.Errorf("Expected Malware from summary text, got %q", category)
	}

	category, _ = Classify("Daily digest", "", []string{"cloud", "infrastructure"})
	if category != "Cloud" {
		t.Errorf("Expected Cloud from raw feed categories, got %q", category)
	}
}

func TestClassify_AlwaysReturnsTaxonomyLabels(t *testing.T) {
	validCategories := map[string]bool{DefaultCategory: true}
	for _, rule := range CategoryRules {
		validCategories[rule.Label] = true
	}
	validSeverities := map[string]bool{DefaultSeverity: true}
	for _, rule := range SeverityRules {
		validSeverities[rule.Label] = true
	}

	inputs := []struct {
		title, summary string
		categories     []string
	}{
		{"", "", nil},
		{"CVE-2024-12345 actively exploited", "patch now", []string{"advisory"}},
		{"massive data leak at cloud provider", "aws credentials exposed", nil},
		{"\x00\xff weird bytes", "\t\n", []string{""}},
	}

	for _, in := range inputs {
		category, severity := Classify(in.title, in.summary, in.categories)
		if !validCategories[category] {
			t.Errorf("Classify(%q) returned category outside taxonomy: %q", in.title, category)
		}
		if !validSeverities[severity] {
			t.Errorf("Classify(%q) returned severity outside taxonomy: %q", in.title, severity)
		}
	}
}

func TestClassify_SeverityIndependentOfCategory(t *testing.T) {
	// An item can hit a category rule without hitting any severity rule.
	category, severity := Classify("APT group expands espionage operations", "", nil)
	if category != "Nation-State" {
		t.Errorf("Expected Nation-State, got %q", category)
	}
	if severity != DefaultSeverity {
		t.Errorf("Expected default severity, got %q", severity)
	}
}
