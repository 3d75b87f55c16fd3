package services

import (
	"director-watch/models"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deduplicator filtert bereits bekannte Kandidaten anhand von vier
// Schlüsseln: exakte URL, kanonische URL, (Titel, Quelle, Datum)-Tripel
// und Content-Hash. Die Schlüssel werden beim Filtern inkrementell
// fortgeschrieben, so dass auch Duplikate innerhalb eines Batches
// kollabieren (erstes Vorkommen gewinnt).
type Deduplicator struct {
	Logger *zap.Logger

	seenURLs      map[string]struct{}
	seenCanonical map[string]struct{}
	seenTriples   map[string]struct{}

	// seenHashes wird nach der Filter-Phase von parallelen
	// Artikel-Jobs gelesen und beschrieben.
	hashMu     sync.Mutex
	seenHashes map[string]struct{}
}

// NewDeduplicator lädt die Artikel-Historie des Fensters (in Tagen) und
// baut daraus die Schlüsselmengen auf.
func NewDeduplicator(db *gorm.DB, logger *zap.Logger, windowDays int) (*Deduplicator, error) {
	d := &Deduplicator{
		Logger:        logger,
		seenURLs:      make(map[string]struct{}),
		seenCanonical: make(map[string]struct{}),
		seenTriples:   make(map[string]struct{}),
		seenHashes:    make(map[string]struct{}),
	}

	cutoff := time.Now().AddDate(0, 0, -windowDays)
	var articles []models.Article
	if err := db.Preload("Extracted").Where("created_at > ?", cutoff).Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("dedup-historie laden: %w", err)
	}

	for _, article := range articles {
		d.seenURLs[normalizeURLKey(article.URL)] = struct{}{}
		d.seenCanonical[article.CanonicalURL] = struct{}{}
		d.seenTriples[tripleKey(article.Title, article.Source, article.PublishedAt)] = struct{}{}
		if article.Extracted != nil && article.Extracted.ContentHash != "" {
			d.seenHashes[article.Extracted.ContentHash] = struct{}{}
		}
	}

	logger.Debug("Dedup-Historie geladen",
		zap.Int("articles", len(articles)),
		zap.Int("window_days", windowDays))
	return d, nil
}

// Filter entfernt Duplikate aus der Kandidatenliste, in Reihenfolge.
func (d *Deduplicator) Filter(candidates []models.Candidate) []models.Candidate {
	var kept []models.Candidate
	for _, c := range candidates {
		if d.isDuplicate(&c) {
			continue
		}
		d.remember(&c)
		kept = append(kept, c)
	}
	if dropped := len(candidates) - len(kept); dropped > 0 {
		d.Logger.Debug("Kandidaten als Duplikat verworfen", zap.Int("dropped", dropped))
	}
	return kept
}

// SeenContentHash prüft den vierten Schlüssel nachgelagert: zwei
// verschiedene URLs, die auf denselben extrahierten Text führen.
func (d *Deduplicator) SeenContentHash(hash string) bool {
	if hash == "" {
		return false
	}
	d.hashMu.Lock()
	defer d.hashMu.Unlock()
	_, seen := d.seenHashes[hash]
	return seen
}

// RememberContentHash schreibt einen Content-Hash in die Batch-Historie.
func (d *Deduplicator) RememberContentHash(hash string) {
	if hash == "" {
		return
	}
	d.hashMu.Lock()
	defer d.hashMu.Unlock()
	d.seenHashes[hash] = struct{}{}
}

func (d *Deduplicator) isDuplicate(c *models.Candidate) bool {
	if _, seen := d.seenURLs[normalizeURLKey(c.URL)]; seen {
		return true
	}
	if _, seen := d.seenCanonical[CanonicalURL(c.URL)]; seen {
		return true
	}
	if _, seen := d.seenTriples[tripleKey(c.Title, c.Source, c.PublishedAt)]; seen {
		return true
	}
	return false
}

func (d *Deduplicator) remember(c *models.Candidate) {
	d.seenURLs[normalizeURLKey(c.URL)] = struct{}{}
	d.seenCanonical[CanonicalURL(c.URL)] = struct{}{}
	d.seenTriples[tripleKey(c.Title, c.Source, c.PublishedAt)] = struct{}{}
}

func normalizeURLKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func tripleKey(title, source string, published *time.Time) string {
	date := ""
	if published != nil {
		date = published.UTC().Format("2006-01-02")
	}
	normalize := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	return normalize(title) + "|" + normalize(source) + "|" + date
}
