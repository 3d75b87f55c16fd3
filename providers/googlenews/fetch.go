package googlenews

import (
	"context"
	"director-watch/config"
	"director-watch/india"
	"director-watch/models"
	"director-watch/providers"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

const baseURL = "https://news.google.com/rss/search"

// Fetcher implementiert das Provider-Interface für den Google News RSS-Feed.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	parser *gofeed.Parser
}

// NewFetcher erstellt einen neuen Google News Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger, parser: gofeed.NewParser()}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "googlenews"
}

// IsAvailable ist immer wahr, der RSS-Feed braucht keinen API-Key.
func (f *Fetcher) IsAvailable() bool {
	return true
}

// Search liest den Google-News-Suchfeed für die Query.
func (f *Fetcher) Search(ctx context.Context, spec providers.QuerySpec) []models.Candidate {
	log := f.Logger.With(zap.String("provider", f.Name()), zap.String("query", spec.Query))
	log.Info("Starte Suche auf Google News RSS.")

	params := url.Values{}
	params.Set("q", spec.Query)
	params.Set("hl", "en-IN")
	params.Set("gl", "IN")
	params.Set("ceid", "IN:en")

	feedURL := baseURL + "?" + params.Encode()
	log.Debug("Rufe Google News Feed auf", zap.String("url", feedURL))

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		log.Error("Google News Feed konnte nicht gelesen werden", zap.Error(err))
		providers.SearchErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}

	var candidates []models.Candidate
	for _, item := range feed.Items {
		if spec.DateFrom != nil && item.PublishedParsed != nil && item.PublishedParsed.Before(*spec.DateFrom) {
			continue
		}
		candidates = append(candidates, mapItemToCandidate(item, spec))
		if len(candidates) >= spec.MaxResults {
			break
		}
	}

	log.Info("Suche auf Google News abgeschlossen", zap.Int("found_articles", len(candidates)))
	return candidates
}

// mapItemToCandidate konvertiert ein Feed-Item in unser internes
// Candidate-Modell. Google hängt die Quelle an den Titel an ("Titel - Quelle").
func mapItemToCandidate(item *gofeed.Item, spec providers.QuerySpec) models.Candidate {
	title := item.Title
	source := ""
	if idx := strings.LastIndex(title, " - "); idx > 0 {
		source = strings.TrimSpace(title[idx+3:])
		title = strings.TrimSpace(title[:idx])
	}

	var published *time.Time
	if item.PublishedParsed != nil {
		t := *item.PublishedParsed
		published = &t
	}

	sourceHost := item.Link
	sourceType, trust := india.ClassifySource(sourceHost)
	return models.Candidate{
		Title:            title,
		URL:              item.Link,
		Source:           source,
		PublishedAt:      published,
		Snippet:          strings.TrimSpace(stripTags(item.Description)),
		Provider:         "googlenews",
		Language:         spec.Language,
		Country:          spec.Country,
		SourceType:       sourceType,
		SourceTrustScore: trust,
	}
}

// stripTags entfernt die simplen HTML-Fragmente aus RSS-Beschreibungen.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
