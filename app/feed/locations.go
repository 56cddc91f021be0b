package feed

import (
	"strings"
	"unicode"
)

// Gazetteer tiers. Cities outrank states, states outrank countries when
// multiple place names appear in the same item.
const (
	tierCountry = 1
	tierState   = 2
	tierCity    = 3
)

// GazetteerEntry is a place with its coordinates and the aliases that
// refer to it in article text.
type GazetteerEntry struct {
	Label   string
	Lat     float64
	Lng     float64
	Type    string
	Tier    int
	Aliases []string
}

var Gazetteer = []GazetteerEntry{
	// Cities
	{Label: "Washington", Lat: 38.9072, Lng: -77.0369, Type: "city", Tier: tierCity, Aliases: []string{"washington", "washington dc", "d.c."}},
	{Label: "New York City", Lat: 40.7128, Lng: -74.0060, Type: "city", Tier: tierCity, Aliases: []string{"new york city", "new york", "nyc", "manhattan"}},
	{Label: "San Francisco", Lat: 37.7749, Lng: -122.4194, Type: "city", Tier: tierCity, Aliases: []string{"san francisco", "silicon valley"}},
	{Label: "London", Lat: 51.5072, Lng: -0.1276, Type: "city", Tier: tierCity, Aliases: []string{"london"}},
	{Label: "Paris", Lat: 48.8566, Lng: 2.3522, Type: "city", Tier: tierCity, Aliases: []string{"paris"}},
	{Label: "Berlin", Lat: 52.52, Lng: 13.405, Type: "city", Tier: tierCity, Aliases: []string{"berlin"}},
	{Label: "Amsterdam", Lat: 52.3676, Lng: 4.9041, Type: "city", Tier: tierCity, Aliases: []string{"amsterdam"}},
	{Label: "Brussels", Lat: 50.8503, Lng: 4.3517, Type: "city", Tier: tierCity, Aliases: []string{"brussels"}},
	{Label: "Kyiv", Lat: 50.4501, Lng: 30.5234, Type: "city", Tier: tierCity, Aliases: []string{"kyiv", "kiev"}},
	{Label: "Moscow", Lat: 55.7558, Lng: 37.6173, Type: "city", Tier: tierCity, Aliases: []string{"moscow", "kremlin"}},
	{Label: "Tel Aviv", Lat: 32.0853, Lng: 34.7818, Type: "city", Tier: tierCity, Aliases: []string{"tel aviv"}},
	{Label: "Istanbul", Lat: 41.0082, Lng: 28.9784, Type: "city", Tier: tierCity, Aliases: []string{"istanbul", "ankara"}},
	{Label: "Tehran", Lat: 35.6892, Lng: 51.389, Type: "city", Tier: tierCity, Aliases: []string{"tehran"}},
	{Label: "Dubai", Lat: 25.2048, Lng: 55.2708, Type: "city", Tier: tierCity, Aliases: []string{"dubai", "abu dhabi"}},
	{Label: "Riyadh", Lat: 24.7136, Lng: 46.6753, Type: "city", Tier: tierCity, Aliases: []string{"riyadh"}},
	{Label: "Delhi", Lat: 28.6139, Lng: 77.209, Type: "city", Tier: tierCity, Aliases: []string{"delhi", "new delhi"}},
	{Label: "Mumbai", Lat: 19.076, Lng: 72.8777, Type: "city", Tier: tierCity, Aliases: []string{"mumbai", "bengaluru", "bangalore"}},
	{Label: "Beijing", Lat: 39.9042, Lng: 116.4074, Type: "city", Tier: tierCity, Aliases: []string{"beijing"}},
	{Label: "Shanghai", Lat: 31.2304, Lng: 121.4737, Type: "city", Tier: tierCity, Aliases: []string{"shanghai"}},
	{Label: "Taipei", Lat: 25.033, Lng: 121.5654, Type: "city", Tier: tierCity, Aliases: []string{"taipei"}},
	{Label: "Tokyo", Lat: 35.6762, Lng: 139.6503, Type: "city", Tier: tierCity, Aliases: []string{"tokyo"}},
	{Label: "Seoul", Lat: 37.5665, Lng: 126.978, Type: "city", Tier: tierCity, Aliases: []string{"seoul"}},
	{Label: "Sydney", Lat: -33.8688, Lng: 151.2093, Type: "city", Tier: tierCity, Aliases: []string{"sydney", "melbourne"}},
	{Label: "Sao Paulo", Lat: -23.5505, Lng: -46.6333, Type: "city", Tier: tierCity, Aliases: []string{"sao paulo", "rio de janeiro"}},
	{Label: "Mexico City", Lat: 19.4326, Lng: -99.1332, Type: "city", Tier: tierCity, Aliases: []string{"mexico city"}},
	{Label: "Toronto", Lat: 43.6532, Lng: -79.3832, Type: "city", Tier: tierCity, Aliases: []string{"toronto", "ottawa", "vancouver"}},
	{Label: "Johannesburg", Lat: -26.2041, Lng: 28.0473, Type: "city", Tier: tierCity, Aliases: []string{"johannesburg", "cape town"}},

	// US states
	{Label: "California", Lat: 36.7783, Lng: -119.4179, Type: "state", Tier: tierState, Aliases: []string{"california"}},
	{Label: "Texas", Lat: 31.9686, Lng: -99.9018, Type: "state", Tier: tierState, Aliases: []string{"texas"}},
	{Label: "Florida", Lat: 27.6648, Lng: -81.5158, Type: "state", Tier: tierState, Aliases: []string{"florida"}},
	{Label: "Virginia", Lat: 37.4316, Lng: -78.6569, Type: "state", Tier: tierState, Aliases: []string{"virginia"}},
	{Label: "New York State", Lat: 42.1657, Lng: -74.9481, Type: "state", Tier: tierState, Aliases: []string{"new york state"}},

	// Countries
	{Label: "United States", Lat: 38.9072, Lng: -77.0369, Type: "country", Tier: tierCountry, Aliases: []string{"united states", "u.s.", "usa", "america"}},
	{Label: "United Kingdom", Lat: 51.5072, Lng: -0.1276, Type: "country", Tier: tierCountry, Aliases: []string{"united kingdom", "uk", "britain"}},
	{Label: "France", Lat: 48.8566, Lng: 2.3522, Type: "country", Tier: tierCountry, Aliases: []string{"france"}},
	{Label: "Germany", Lat: 52.52, Lng: 13.405, Type: "country", Tier: tierCountry, Aliases: []string{"germany"}},
	{Label: "Netherlands", Lat: 52.3676, Lng: 4.9041, Type: "country", Tier: tierCountry, Aliases: []string{"netherlands", "dutch"}},
	{Label: "Belgium", Lat: 50.8503, Lng: 4.3517, Type: "country", Tier: tierCountry, Aliases: []string{"belgium"}},
	{Label: "Ukraine", Lat: 50.4501, Lng: 30.5234, Type: "country", Tier: tierCountry, Aliases: []string{"ukraine"}},
	{Label: "Russia", Lat: 55.7558, Lng: 37.6173, Type: "country", Tier: tierCountry, Aliases: []string{"russia"}},
	{Label: "Israel", Lat: 32.0853, Lng: 34.7818, Type: "country", Tier: tierCountry, Aliases: []string{"israel"}},
	{Label: "Turkey", Lat: 41.0082, Lng: 28.9784, Type: "country", Tier: tierCountry, Aliases: []string{"turkey"}},
	{Label: "Iran", Lat: 35.6892, Lng: 51.389, Type: "country", Tier: tierCountry, Aliases: []string{"iran"}},
	{Label: "India", Lat: 28.6139, Lng: 77.209, Type: "country", Tier: tierCountry, Aliases: []string{"india"}},
	{Label: "China", Lat: 39.9042, Lng: 116.4074, Type: "country", Tier: tierCountry, Aliases: []string{"china"}},
	{Label: "Taiwan", Lat: 25.033, Lng: 121.5654, Type: "country", Tier: tierCountry, Aliases: []string{"taiwan"}},
	{Label: "Japan", Lat: 35.6762, Lng: 139.6503, Type: "country", Tier: tierCountry, Aliases: []string{"japan"}},
	{Label: "South Korea", Lat: 37.5665, Lng: 126.978, Type: "country", Tier: tierCountry, Aliases: []string{"south korea", "korea"}},
	{Label: "Singapore", Lat: 1.3521, Lng: 103.8198, Type: "country", Tier: tierCountry, Aliases: []string{"singapore"}},
	{Label: "Australia", Lat: -33.8688, Lng: 151.2093, Type: "country", Tier: tierCountry, Aliases: []string{"australia"}},
	{Label: "Brazil", Lat: -23.5505, Lng: -46.6333, Type: "country", Tier: tierCountry, Aliases: []string{"brazil"}},
	{Label: "Mexico", Lat: 19.4326, Lng: -99.1332, Type: "country", Tier: tierCountry, Aliases: []string{"mexico"}},
	{Label: "Canada", Lat: 45.4215, Lng: -75.6972, Type: "country", Tier: tierCountry, Aliases: []string{"canada"}},
	{Label: "UAE", Lat: 25.2048, Lng: 55.2708, Type: "country", Tier: tierCountry, Aliases: []string{"uae", "united arab emirates"}},
	{Label: "Saudi Arabia", Lat: 24.7136, Lng: 46.6753, Type: "country", Tier: tierCountry, Aliases: []string{"saudi arabia"}},
	{Label: "South Africa", Lat: -26.2041, Lng: 28.0473, Type: "country", Tier: tierCountry, Aliases: []string{"south africa"}},
}

// InferLocation picks at most one place for the given item text. Aliases
// must match on word boundaries; among the entries that match, a higher
// tier wins, then the longest matched alias. The result is independent of
// gazetteer declaration order.
func InferLocation(title, summary string, categories []string) *Location {
	blob := classifyBlob(title, summary, categories)

	var best *GazetteerEntry
	bestAliasLen := 0

	for i := range Gazetteer {
		entry := &Gazetteer[i]
		for _, alias := range entry.Aliases {
			if !matchesWord(blob, alias) {
				continue
			}
			if best == nil || entry.Tier > best.Tier ||
				(entry.Tier == best.Tier && len(alias) > bestAliasLen) {
				best = entry
				bestAliasLen = len(alias)
			}
		}
	}

	if best == nil {
		return nil
	}

	return &Location{
		Label: best.Label,
		Lat:   best.Lat,
		Lng:   best.Lng,
		Type:  best.Type,
	}
}

// matchesWord reports whether alias occurs in text delimited by word
// boundaries, so "washington" does not match inside "washingtonian".
func matchesWord(text, alias string) bool {
	if alias == "" {
		return false
	}

	for start := 0; start+len(alias) <= len(text); {
		idx := strings.Index(text[start:], alias)
		if idx < 0 {
			return false
		}
		idx += start

		if isBoundary(text, idx-1) && isBoundary(text, idx+len(alias)) {
			return true
		}
		start = idx + 1
	}

	return false
}

// isBoundary reports whether the byte at pos (or the text edge) does not
// continue a word.
func isBoundary(text string, pos int) bool {
	if pos < 0 || pos >= len(text) {
		return true
	}
	r := rune(text[pos])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
