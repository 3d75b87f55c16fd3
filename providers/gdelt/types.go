package gdelt

import (
	"strings"
	"time"
)

// SearchResponse ist die Top-Level-Struktur der GDELT artlist-Antwort.
type SearchResponse struct {
	Articles []Article `json:"articles"`
}

// Article repräsentiert einen einzelnen Artikel in der API-Antwort.
type Article struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Domain        string `json:"domain"`
	Language      string `json:"language"`
	SourceCountry string `json:"sourcecountry"`
	SeenDate      string `json:"seendate"`
}

// parseSeenDate parst das kompakte GDELT-Datumsformat.
func parseSeenDate(dateStr string) *time.Time {
	layouts := []string{"20060102T150405Z", "20060102150405"}
	for _, layout := range layouts {
		t, err := time.Parse(layout, dateStr)
		if err == nil {
			return &t
		}
	}
	return nil
}

// normalizeLanguage bildet GDELT-Sprachnamen auf ISO 639-1-Codes ab.
func normalizeLanguage(lang string) string {
	switch strings.ToLower(lang) {
	case "english", "en":
		return "en"
	case "hindi", "hi":
		return "hi"
	case "telugu", "te":
		return "te"
	case "tamil", "ta":
		return "ta"
	case "marathi", "mr":
		return "mr"
	case "gujarati", "gu":
		return "gu"
	case "kannada", "kn":
		return "kn"
	case "malayalam", "ml":
		return "ml"
	case "bengali", "bn":
		return "bn"
	case "punjabi", "pa":
		return "pa"
	default:
		return ""
	}
}
