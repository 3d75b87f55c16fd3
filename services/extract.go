package services

import (
	"bytes"
	"context"
	"director-watch/config"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	// minContentLength ist die Untergrenze, ab der extrahierter Text als
	// brauchbar gilt.
	minContentLength = 100

	fetchBodyLimit = 2 * 1024 * 1024
)

// Extraktionsmethoden, wie sie auf ExtractedContent gespeichert werden.
const (
	MethodReadability = "readability"
	MethodHeuristic   = "container_heuristic"
	MethodTagStrip    = "tag_strip"
)

// fetchClient wird für alle Artikel-Downloads verwendet.
var fetchClient = &http.Client{Timeout: 60 * time.Second}

// Extractor lädt Artikel-HTML und extrahiert den Fließtext über eine
// Strategie-Kette absteigender Präzision.
type Extractor struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewExtractor erstellt einen neuen Extractor.
func NewExtractor(cfg *config.Config, logger *zap.Logger) *Extractor {
	return &Extractor{Config: cfg, Logger: logger}
}

// Fetch lädt die Seite mit begrenzten Wiederholungen. Der Fehler des
// letzten Versuchs wird unverändert zurückgegeben; 4xx zählt wie ein
// transienter Fehler.
func (e *Extractor) Fetch(ctx context.Context, articleURL string) ([]byte, error) {
	log := e.Logger.With(zap.String("url", articleURL))

	attempts := e.Config.ArticleFetchRetries
	if attempts < 1 {
		attempts = 1
	}
	timeout := time.Duration(e.Config.ArticleFetchTimeoutSec) * time.Second

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := e.fetchOnce(ctx, articleURL, timeout)
		if err == nil {
			return body, nil
		}
		lastErr = err
		log.Warn("Artikel-Download fehlgeschlagen",
			zap.Int("attempt", attempt),
			zap.Error(err))
		if ctx.Err() != nil {
			break
		}
		if attempt < attempts {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}
	return nil, lastErr
}

func (e *Extractor) fetchOnce(ctx context.Context, articleURL string, timeout time.Duration) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, articleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request erstellen: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-IN,en;q=0.8,hi;q=0.6")

	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("url laden: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, fetchBodyLimit))
	if err != nil {
		return nil, fmt.Errorf("body lesen: %w", err)
	}
	return body, nil
}

// Extract versucht nacheinander Readability, eine Container-Heuristik
// und das Entfernen aller Tags. Die erste Strategie mit nicht-leerem
// Text gewinnt; der Methodenname wird mit zurückgegeben.
func (e *Extractor) Extract(html []byte, articleURL string) (content, method string, err error) {
	if text := e.extractReadability(html, articleURL); len(text) >= minContentLength {
		return text, MethodReadability, nil
	}
	if text := e.extractContainerHeuristic(html); len(text) >= minContentLength {
		return text, MethodHeuristic, nil
	}
	if text := e.extractTagStrip(html); len(text) >= minContentLength {
		return text, MethodTagStrip, nil
	}
	return "", "", fmt.Errorf("keine Extraktionsstrategie lieferte Text")
}

// extractReadability nutzt den Readability-Algorithmus als präziseste Stufe.
func (e *Extractor) extractReadability(html []byte, articleURL string) string {
	pageURL, err := url.Parse(articleURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err != nil {
		return ""
	}
	var rendered bytes.Buffer
	if err := article.RenderText(&rendered); err != nil {
		return ""
	}
	return cleanText(rendered.String())
}

// extractContainerHeuristic sucht typische Artikel-Container im DOM.
func (e *Extractor) extractContainerHeuristic(html []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, nav, header, footer, aside, form, noscript").Remove()

	selectors := []string{
		"article",
		"[itemprop='articleBody']",
		".article-body", ".articleBody", ".story-content", ".story_content",
		".entry-content", ".post-content", "#article-body", "main",
	}
	best := ""
	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			text := cleanText(s.Text())
			if len(text) > len(best) {
				best = text
			}
		})
		if len(best) >= minContentLength {
			break
		}
	}
	return best
}

// extractTagStrip ist die letzte Stufe: gesamtes Body-Element ohne Tags.
func (e *Extractor) extractTagStrip(html []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, nav, header, footer, aside, form, noscript").Remove()
	return cleanText(doc.Find("body").Text())
}

// cleanText normalisiert Zeilenenden und kollabiert Whitespace je Zeile.
func cleanText(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.Join(strings.Fields(strings.TrimSpace(line)), " ")
		if clean == "" {
			continue
		}
		paragraphs = append(paragraphs, clean)
	}
	return strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
}
