package bingnews

import "time"

// SearchResponse ist die Top-Level-Struktur der Bing News v7-Antwort.
type SearchResponse struct {
	TotalEstimatedMatches int           `json:"totalEstimatedMatches"`
	Value                 []NewsArticle `json:"value"`
}

// NewsArticle repräsentiert einen einzelnen Artikel in der API-Antwort.
type NewsArticle struct {
	Name          string         `json:"name"`
	URL           string         `json:"url"`
	Description   string         `json:"description"`
	DatePublished string         `json:"datePublished"`
	Provider      []NewsProvider `json:"provider"`
	Category      string         `json:"category"`
}

// NewsProvider ist die Quellenangabe eines Bing-Artikels.
type NewsProvider struct {
	Type string `json:"_type"`
	Name string `json:"name"`
}

// parsePublishedDate parst die ISO-8601-Daten von Bing.
func parsePublishedDate(dateStr string) *time.Time {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05.0000000Z", "2006-01-02T15:04:05"}
	for _, layout := range layouts {
		t, err := time.Parse(layout, dateStr)
		if err == nil {
			return &t
		}
	}
	return nil
}
