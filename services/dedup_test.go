package services

import (
	"director-watch/models"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func candidateAt(url, title, source string, published time.Time) models.Candidate {
	return models.Candidate{URL: url, Title: title, Source: source, PublishedAt: &published}
}

func TestFilterCollapsesWithinBatch(t *testing.T) {
	db := openTestDB(t)
	dedup, err := NewDeduplicator(db, zap.NewNop(), 7)
	if err != nil {
		t.Fatal(err)
	}

	published := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	batch := []models.Candidate{
		candidateAt("https://x.com/a", "Story A", "X", published),
		// Gleiche URL, andere Schreibweise.
		candidateAt("HTTPS://X.COM/a", "Story A again", "X", published),
		// Andere URL, aber kanonisch identisch.
		candidateAt("https://x.com/a?utm_source=feed", "Story A syndicated", "X", published),
		// Gleiches (Titel, Quelle, Datum)-Tripel unter neuer URL.
		candidateAt("https://x.com/b", "story  a", "x", published),
		// Echt neu.
		candidateAt("https://x.com/c", "Story C", "X", published),
	}

	kept := dedup.Filter(batch)
	if len(kept) != 2 {
		t.Fatalf("expected 2 survivors, got %d: %+v", len(kept), kept)
	}
	if kept[0].URL != "https://x.com/a" || kept[1].URL != "https://x.com/c" {
		t.Errorf("first occurrence must win, got %q and %q", kept[0].URL, kept[1].URL)
	}
}

func TestFilterAgainstHistory(t *testing.T) {
	db := openTestDB(t)

	published := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	article := models.Article{
		URL:          "https://x.com/known",
		CanonicalURL: CanonicalURL("https://x.com/known"),
		Title:        "Known Story",
		Source:       "X",
		PublishedAt:  &published,
	}
	if err := db.Create(&article).Error; err != nil {
		t.Fatal(err)
	}

	dedup, err := NewDeduplicator(db, zap.NewNop(), 7)
	if err != nil {
		t.Fatal(err)
	}

	kept := dedup.Filter([]models.Candidate{
		candidateAt("https://x.com/known#top", "Fresh headline", "X", published),
		candidateAt("https://x.com/fresh", "Fresh Story", "X", published),
	})
	if len(kept) != 1 || kept[0].URL != "https://x.com/fresh" {
		t.Fatalf("known canonical URL must be dropped, got %+v", kept)
	}
}

func TestFilterIdempotent(t *testing.T) {
	db := openTestDB(t)
	published := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	batch := []models.Candidate{
		candidateAt("https://x.com/a", "Story A", "X", published),
		candidateAt("https://x.com/b", "Story B", "X", published),
	}

	first, err := NewDeduplicator(db, zap.NewNop(), 7)
	if err != nil {
		t.Fatal(err)
	}
	once := first.Filter(batch)

	second, err := NewDeduplicator(db, zap.NewNop(), 7)
	if err != nil {
		t.Fatal(err)
	}
	twice := second.Filter(once)

	if len(once) != len(twice) {
		t.Errorf("dedup(dedup(X)) differs from dedup(X): %d vs %d", len(once), len(twice))
	}
}

func TestContentHashDedup(t *testing.T) {
	db := openTestDB(t)
	dedup, err := NewDeduplicator(db, zap.NewNop(), 7)
	if err != nil {
		t.Fatal(err)
	}

	hash := ContentHash("some article body text")
	if dedup.SeenContentHash(hash) {
		t.Error("unknown hash must not be seen")
	}
	dedup.RememberContentHash(hash)
	if !dedup.SeenContentHash(hash) {
		t.Error("remembered hash must be seen")
	}
	if dedup.SeenContentHash("") {
		t.Error("empty hash must never match")
	}
}

// Nach der Filter-Phase greifen parallele Artikel-Jobs gleichzeitig auf
// die Hash-Historie zu.
func TestContentHashConcurrentAccess(t *testing.T) {
	dedup, err := NewDeduplicator(openTestDB(t), zap.NewNop(), 7)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				hash := fmt.Sprintf("hash-%d", (n+i)%20)
				dedup.SeenContentHash(hash)
				dedup.RememberContentHash(hash)
			}
		}(worker)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		if !dedup.SeenContentHash(fmt.Sprintf("hash-%d", i)) {
			t.Errorf("hash-%d must be remembered", i)
		}
	}
}
