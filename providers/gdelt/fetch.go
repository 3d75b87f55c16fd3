package gdelt

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

const baseURL = "https://api.gdeltproject.org/api/v2/doc/doc"

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Fetcher implementiert das Provider-Interface für GDELT DOC 2.0.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen GDELT Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "gdelt"
}

// IsAvailable ist immer wahr, GDELT braucht keinen API-Key.
func (f *Fetcher) IsAvailable() bool {
	return true
}

// Search führt die Suche auf GDELT aus. Fehler werden geloggt, nicht
// zurückgegeben, damit ein Provider-Ausfall den Lauf nicht abbricht.
func (f *Fetcher) Search(ctx context.Context, spec providers.QuerySpec) []models.Candidate {
	log := f.Logger.With(zap.String("provider", f.Name()), zap.String("query", spec.Query))
	log.Info("Starte Suche auf GDELT.")

	params := url.Values{}
	params.Set("query", spec.Query+" sourcecountry:india")
	params.Set("mode", "artlist")
	params.Set("format", "json")
	params.Set("maxrecords", fmt.Sprintf("%d", spec.MaxResults))
	params.Set("sort", "datedesc")
	if spec.DateFrom != nil {
		params.Set("startdatetime", spec.DateFrom.UTC().Format("20060102150405"))
	}
	if spec.DateTo != nil {
		params.Set("enddatetime", spec.DateTo.UTC().Format("20060102150405"))
	}

	searchURL := baseURL + "?" + params.Encode()
	log.Debug("Rufe GDELT API auf", zap.String("url", searchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		log.Error("GDELT Request konnte nicht erstellt werden", zap.Error(err))
		providers.SearchErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		log.Error("GDELT Aufruf fehlgeschlagen", zap.Error(err))
		providers.SearchErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("GDELT antwortete mit Fehlerstatus", zap.Int("status", resp.StatusCode))
		providers.SearchErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}

	var searchResponse SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResponse); err != nil {
		log.Error("GDELT Antwort konnte nicht dekodiert werden", zap.Error(err))
		providers.SearchErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}

	var candidates []models.Candidate
	for _, article := range searchResponse.Articles {
		candidates = append(candidates, mapArticleToCandidate(&article))
	}

	log.Info("Suche auf GDELT abgeschlossen", zap.Int("found_articles", len(candidates)))
	return candidates
}

// mapArticleToCandidate konvertiert ein GDELT Article-Objekt in unser
// internes Candidate-Modell.
func mapArticleToCandidate(article *Article) models.Candidate {
	sourceType, trust := india.ClassifySource(article.Domain)
	return models.Candidate{
		Title:            article.Title,
		URL:              article.URL,
		Source:           article.Domain,
		PublishedAt:      parseSeenDate(article.SeenDate),
		Provider:         "gdelt",
		Language:         normalizeLanguage(article.Language),
		Country:          article.SourceCountry,
		SourceType:       sourceType,
		SourceTrustScore: trust,
	}
}
