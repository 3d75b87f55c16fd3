package bingnews

import (
	"context"
	"director-watch/config"
	"director-watch/india"
	"director-watch/models"
	"director-watch/providers"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const baseURL = "https://api.bing.microsoft.com/v7.0/news/search"

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Fetcher implementiert das Provider-Interface für Bing News Search v7.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen Bing News Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "bingnews"
}

// IsAvailable prüft, ob ein API-Key konfiguriert ist.
func (f *Fetcher) IsAvailable() bool {
	return f.Config.BingNewsKey != ""
}

// Search führt die Suche auf Bing News aus.
func (f *Fetcher) Search(ctx context.Context, spec providers.QuerySpec) []models.Candidate {
	log := f.Logger.With(zap.String("provider", f.Name()), zap.String("query", spec.Query))
	log.Info("Starte Suche auf Bing News.")

	// Bing erlaubt maximal 100 Ergebnisse pro Aufruf.
	count := spec.MaxResults
	if count > 100 {
		count = 100
	}

	params := url.Values{}
	params.Set("q", spec.Query)
	params.Set("mkt", "en-IN")
	params.Set("count", fmt.Sprintf("%d", count))
	params.Set("sortBy", "Date")
	params.Set("freshness", "Month")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Error("Bing Request konnte nicht erstellt werden", zap.Error(err))
		providers.SearchErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", f.Config.BingNewsKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		log.Error("Bing Aufruf fehlgeschlagen", zap.Error(err))
		providers.SearchErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("Bing antwortete mit Fehlerstatus", zap.Int("status", resp.StatusCode))
		providers.SearchErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}

	var searchResponse SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResponse); err != nil {
		log.Error("Bing Antwort konnte nicht dekodiert werden", zap.Error(err))
		providers.SearchErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}

	var candidates []models.Candidate
	for _, article := range searchResponse.Value {
		candidates = append(candidates, mapArticleToCandidate(&article, spec))
		if spec.DateFrom != nil {
			// Bing filtert nur grob nach Freshness, daher hier nachfiltern.
			last := len(candidates) - 1
			if p := candidates[last].PublishedAt; p != nil && p.Before(*spec.DateFrom) {
				candidates = candidates[:last]
			}
		}
	}

	log.Info("Suche auf Bing News abgeschlossen", zap.Int("found_articles", len(candidates)))
	return candidates
}

// mapArticleToCandidate konvertiert ein Bing NewsArticle-Objekt in unser
// internes Candidate-Modell.
func mapArticleToCandidate(article *NewsArticle, spec providers.QuerySpec) models.Candidate {
	source := ""
	if len(article.Provider) > 0 {
		source = article.Provider[0].Name
	}
	sourceType, trust := india.ClassifySource(article.URL)
	return models.Candidate{
		Title:            article.Name,
		URL:              article.URL,
		Source:           source,
		PublishedAt:      parsePublishedDate(article.DatePublished),
		Snippet:          article.Description,
		Provider:         "bingnews",
		Language:         spec.Language,
		Country:          spec.Country,
		SourceType:       sourceType,
		SourceTrustScore: trust,
	}
}
