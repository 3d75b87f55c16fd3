package newsdata

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

const baseURL = "https://newsdata.io/api/1/news"

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Fetcher implementiert das Provider-Interface für NewsData.io.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen NewsData Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "newsdata"
}

// IsAvailable prüft, ob ein API-Key konfiguriert ist.
func (f *Fetcher) IsAvailable() bool {
	return f.Config.NewsDataKey != ""
}

// Search führt die Suche auf NewsData.io aus. Die API paginiert über
// einen Cursor, wir folgen ihm bis MaxResults erreicht ist.
func (f *Fetcher) Search(ctx context.Context, spec providers.QuerySpec) []models.Candidate {
	log := f.Logger.With(zap.String("provider", f.Name()), zap.String("query", spec.Query))
	log.Info("Starte Suche auf NewsData.")

	var candidates []models.Candidate
	page := ""

	for len(candidates) < spec.MaxResults {
		params := url.Values{}
		params.Set("apikey", f.Config.NewsDataKey)
		params.Set("q", spec.Query)
		params.Set("country", "in")
		if spec.Language != "" {
			params.Set("language", spec.Language)
		}
		if page != "" {
			params.Set("page", page)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
		if err != nil {
			log.Error("NewsData Request konnte nicht erstellt werden", zap.Error(err))
			providers.SearchErrors.WithLabelValues(f.Name()).Inc()
			return candidates
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			log.Error("NewsData Aufruf fehlgeschlagen", zap.Error(err))
			providers.SearchErrors.WithLabelValues(f.Name()).Inc()
			return candidates
		}

		var searchResponse SearchResponse
		err = json.NewDecoder(resp.Body).Decode(&searchResponse)
		resp.Body.Close()
		if err != nil {
			log.Error("NewsData Antwort konnte nicht dekodiert werden", zap.Error(err))
			providers.SearchErrors.WithLabelValues(f.Name()).Inc()
			return candidates
		}
		if searchResponse.Status != "success" {
			log.Error("NewsData meldete Fehlerstatus", zap.String("status", searchResponse.Status))
			providers.SearchErrors.WithLabelValues(f.Name()).Inc()
			return candidates
		}

		for _, article := range searchResponse.Results {
			published := parsePubDate(article.PubDate)
			if spec.DateFrom != nil && published != nil && published.Before(*spec.DateFrom) {
				continue
			}
			candidates = append(candidates, mapArticleToCandidate(&article))
			if len(candidates) >= spec.MaxResults {
				break
			}
		}

		page = searchResponse.NextPage
		if page == "" {
			break
		}
	}

	log.Info("Suche auf NewsData abgeschlossen", zap.Int("found_articles", len(candidates)))
	return candidates
}

// mapArticleToCandidate konvertiert ein NewsData Result-Objekt in unser
// internes Candidate-Modell.
func mapArticleToCandidate(article *Result) models.Candidate {
	sourceType, trust := india.ClassifySource(article.SourceURL)
	if article.SourceURL == "" {
		sourceType, trust = india.ClassifySource(article.Link)
	}
	country := ""
	if len(article.Country) > 0 {
		country = article.Country[0]
	}
	return models.Candidate{
		Title:            article.Title,
		URL:              article.Link,
		Source:           article.SourceID,
		PublishedAt:      parsePubDate(article.PubDate),
		Snippet:          article.Description,
		Provider:         "newsdata",
		Language:         article.Language,
		Country:          country,
		SourceType:       sourceType,
		SourceTrustScore: trust,
	}
}
