package serpapi

import (
	"context"
	"director-watch/config"
	"director-watch/india"
	"director-watch/models"
	"director-watch/providers"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const baseURL = "https://serpapi.com/search.json"

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Fetcher implementiert das Provider-Interface für SerpAPI (Google News Engine).
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen SerpAPI Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "serpapi"
}

// IsAvailable prüft, ob ein API-Key konfiguriert ist.
func (f *Fetcher) IsAvailable() bool {
	return f.Config.SerpAPIKey != ""
}

// Search führt die Suche über die SerpAPI Google-News-Engine aus.
func (f *Fetcher) Search(ctx context.Context, spec providers.QuerySpec) []models.Candidate {
	log := f.Logger.With(zap.String("provider", f.Name()), zap.String("query", spec.Query))
	log.Info("Starte Suche auf SerpAPI.")

	params := url.Values{}
	params.Set("engine", "google_news")
	params.Set("q", spec.Query)
	params.Set("gl", "in")
	params.Set("hl", "en")
	params.Set("api_key", f.Config.SerpAPIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Error("SerpAPI Request konnte nicht erstellt werden", zap.Error(err))
		providers.SearchErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		log.Error("SerpAPI Aufruf fehlgeschlagen", zap.Error(err))
		providers.SearchErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("SerpAPI antwortete mit Fehlerstatus", zap.Int("status", resp.StatusCode))
		providers.SearchErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}

	var searchResponse SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResponse); err != nil {
		log.Error("SerpAPI Antwort konnte nicht dekodiert werden", zap.Error(err))
		providers.SearchErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}

	var candidates []models.Candidate
	for _, result := range searchResponse.NewsResults {
		published := parseResultDate(result.Date)
		if spec.DateFrom != nil && published != nil && published.Before(*spec.DateFrom) {
			continue
		}
		candidates = append(candidates, mapResultToCandidate(&result, spec))
		if len(candidates) >= spec.MaxResults {
			break
		}
	}

	log.Info("Suche auf SerpAPI abgeschlossen", zap.Int("found_articles", len(candidates)))
	return candidates
}

// mapResultToCandidate konvertiert ein SerpAPI NewsResult-Objekt in unser
// internes Candidate-Modell.
func mapResultToCandidate(result *NewsResult, spec providers.QuerySpec) models.Candidate {
	sourceType, trust := india.ClassifySource(result.Link)
	return models.Candidate{
		Title:            result.Title,
		URL:              result.Link,
		Source:           result.Source.Name,
		PublishedAt:      parseResultDate(result.Date),
		Snippet:          result.Snippet,
		Provider:         "serpapi",
		Language:         spec.Language,
		Country:          spec.Country,
		SourceType:       sourceType,
		SourceTrustScore: trust,
	}
}
