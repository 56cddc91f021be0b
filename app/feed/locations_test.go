package feed

import (
	"testing"
)

func TestInferLocation_CityOutranksCountry(t *testing.T) {
	loc := InferLocation("Cyberattack hits London banks", "", nil)
	if loc == nil {
		t.Fatal("Expected a location match")
	}
	if loc.Label != "London" {
		t.Errorf("Expected London (city tier), got %q", loc.Label)
	}
	if loc.Type != "city" {
		t.Errorf("Expected city type, got %q", loc.Type)
	}
}

func TestInferLocation_TierBeatsLaterMatch(t *testing.T) {
	// Both the UK country entry and the London city entry match; the city
	// must win regardless of gazetteer declaration order.
	loc := InferLocation("UK regulator fines London exchange", "", nil)
	if loc == nil {
		t.Fatal("Expected a location match")
	}
	if loc.Label != "London" {
		t.Errorf("Expected London over United Kingdom, got %q", loc.Label)
	}
}

func TestInferLocation_WordBoundary(t *testing.T) {
	// "Washingtonian" alone must not match the Washington city entry.
	if loc := InferLocation("The Washingtonian lifestyle", "", nil); loc != nil {
		t.Errorf("Expected no match for embedded word, got %q", loc.Label)
	}

	// "busan" must not match the "usa" alias embedded inside it. The word
	// "korea" is what should resolve here.
	loc := InferLocation("Port of Busan reopens", "korea trade resumes", nil)
	if loc == nil || loc.Label != "South Korea" {
		t.Errorf("Expected South Korea, got %+v", loc)
	}

	// A clean word match still works.
	loc = InferLocation("Report from Washington", "", nil)
	if loc == nil || loc.Label != "Washington" {
		t.Errorf("Expected Washington, got %+v", loc)
	}
}

func TestInferLocation_LongestAliasWins(t *testing.T) {
	// "new york city" and "new york" both match the NYC entry; within the
	// same tier the longest matched alias is preferred, and the city entry
	// beats the New York State entry.
	loc := InferLocation("Outage hits New York City subway systems", "", nil)
	if loc == nil {
		t.Fatal("Expected a location match")
	}
	if loc.Label != "New York City" {
		t.Errorf("Expected New York City, got %q", loc.Label)
	}
	if loc.Type != "city" {
		t.Errorf("Expected city type, got %q", loc.Type)
	}
}

func TestInferLocation_NoMatch(t *testing.T) {
	if loc := InferLocation("Generic security advisory", "patch your systems", nil); loc != nil {
		t.Errorf("Expected nil for text without place names, got %q", loc.Label)
	}
}

func TestInferLocation_CountryOnly(t *testing.T) {
	loc := InferLocation("New data protection law in Germany", "", nil)
	if loc == nil {
		t.Fatal("Expected a location match")
	}
	if loc.Label != "Germany" || loc.Type != "country" {
		t.Errorf("Expected Germany country entry, got %+v", loc)
	}
}

func TestInferLocation_Deterministic(t *testing.T) {
	title := "Attack spreads from Moscow to London and Paris"
	first := InferLocation(title, "", nil)
	for i := 0; i < 5; i++ {
		got := InferLocation(title, "", nil)
		if got == nil || first == nil || got.Label != first.Label {
			t.Fatalf("Expected deterministic result, got %+v then %+v", first, got)
		}
	}
}
