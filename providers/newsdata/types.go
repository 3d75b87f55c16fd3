package newsdata

import "time"

// SearchResponse ist die Top-Level-Struktur der NewsData.io-Antwort.
type SearchResponse struct {
	Status       string   `json:"status"`
	TotalResults int      `json:"totalResults"`
	Results      []Result `json:"results"`
	NextPage     string   `json:"nextPage"`
}

// Result repräsentiert einen einzelnen Artikel in der API-Antwort.
type Result struct {
	ArticleID   string   `json:"article_id"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	SourceID    string   `json:"source_id"`
	SourceURL   string   `json:"source_url"`
	Description string   `json:"description"`
	PubDate     string   `json:"pubDate"`
	Language    string   `json:"language"`
	Country     []string `json:"country"`
	Category    []string `json:"category"`
}

// parsePubDate parst das NewsData-Datumsformat.
func parsePubDate(dateStr string) *time.Time {
	layouts := []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339}
	for _, layout := range layouts {
		t, err := time.Parse(layout, dateStr)
		if err == nil {
			return &t
		}
	}
	return nil
}
