package serpapi

import "time"

// SearchResponse ist die Top-Level-Struktur der SerpAPI-Antwort.
type SearchResponse struct {
	NewsResults []NewsResult `json:"news_results"`
}

// NewsResult repräsentiert einen einzelnen Artikel in der API-Antwort.
type NewsResult struct {
	Position int        `json:"position"`
	Title    string     `json:"title"`
	Link     string     `json:"link"`
	Snippet  string     `json:"snippet"`
	Date     string     `json:"date"`
	Source   NewsSource `json:"source"`
}

// NewsSource ist die Quellenangabe eines SerpAPI-Artikels.
type NewsSource struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// parseResultDate parst die SerpAPI-Datumsangaben.
func parseResultDate(dateStr string) *time.Time {
	layouts := []string{"01/02/2006, 03:04 PM, -0700 MST", time.RFC3339, "2006-01-02"}
	for _, layout := range layouts {
		t, err := time.Parse(layout, dateStr)
		if err == nil {
			return &t
		}
	}
	return nil
}
