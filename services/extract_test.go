package services

import (
	"director-watch/config"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestExtractor() *Extractor {
	return NewExtractor(&config.Config{
		ArticleFetchTimeoutSec: 5,
		ArticleFetchRetries:    2,
	}, zap.NewNop())
}

const articleHTML = `<!DOCTYPE html>
<html><head><title>T</title><style>body{}</style></head>
<body>
<nav>Home | News | Sports</nav>
<article>
<h1>Director arrested in fraud case</h1>
<p>The Enforcement Directorate arrested the company director on Friday after months of investigation into alleged money laundering through a web of shell companies registered across three states.</p>
<p>Officials said further arrests are likely as the probe widens into the company's offshore transactions.</p>
</article>
<footer>Copyright</footer>
<script>var x = 1;</script>
</body></html>`

func TestExtractFromArticleMarkup(t *testing.T) {
	e := newTestExtractor()
	content, method, err := e.Extract([]byte(articleHTML), "https://example.com/story")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if method == "" {
		t.Error("extraction method must be recorded")
	}
	if !strings.Contains(content, "Enforcement Directorate") {
		t.Errorf("body text missing from extraction: %q", content)
	}
	if strings.Contains(content, "var x = 1") {
		t.Error("script content leaked into extraction")
	}
}

func TestExtractFallsBackToTagStrip(t *testing.T) {
	// Kein <article>, keine Container-Klassen: nur die letzte Stufe greift.
	html := `<html><body><div>` + strings.Repeat("Plain text sentence without any structure. ", 10) + `</div></body></html>`
	e := newTestExtractor()
	content, _, err := e.Extract([]byte(html), "https://example.com/plain")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(content) < minContentLength {
		t.Errorf("extracted content below floor: %d chars", len(content))
	}
}

func TestExtractFailsBelowFloor(t *testing.T) {
	e := newTestExtractor()
	if _, _, err := e.Extract([]byte("<html><body><p>Too short.</p></body></html>"), "https://example.com/x"); err == nil {
		t.Error("expected failure for content below the minimum length")
	}
}

func TestFetchReturnsLastError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	e := newTestExtractor()
	_, err := e.Fetch(t.Context(), server.URL)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("final attempt's error must come back verbatim, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	e := newTestExtractor()
	body, err := e.Fetch(t.Context(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "ok") {
		t.Errorf("unexpected body: %q", body)
	}
}
