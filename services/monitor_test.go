package services

import (
	"context"
	"director-watch/config"
	"director-watch/models"
	"director-watch/providers"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		CountryProfile:         "IN",
		MaxResultsPerQuery:     50,
		MaxArticlesPerSubject:  20,
		DedupWindowDays:        7,
		ArticleFetchRetries:    1,
		ArticleFetchTimeoutSec: 5,
		JobTimeoutSec:          30,
		JobMaxAttempts:         1,
		SubjectWorkers:         2,
		ArticleWorkers:         2,
		MinConfidence:          0.3,
		AlertConfidenceFloor:   0.75,
	}
}

func newTestMonitor(t *testing.T) *MonitorService {
	t.Helper()
	return NewMonitorService(testConfig(), openTestDB(t), zap.NewNop(), nil)
}

// seedFetchedArticle legt einen Artikel samt extrahiertem Inhalt an, so
// dass processArticle ohne Netzwerkzugriff durchläuft.
func seedFetchedArticle(t *testing.T, m *MonitorService, url, title, content string) *models.Article {
	t.Helper()

	article := models.Article{
		URL:          url,
		CanonicalURL: CanonicalURL(url),
		Title:        title,
		Source:       "thehindu.com",
		FetchStatus:  models.FetchSuccess,
	}
	if err := m.DB.Create(&article).Error; err != nil {
		t.Fatal(err)
	}
	extracted := models.ExtractedContent{
		ArticleID:        article.ID,
		Content:          content,
		ContentHash:      ContentHash(content),
		Simhash:          int64(Simhash(content)),
		ExtractionMethod: MethodReadability,
	}
	if err := m.DB.Create(&extracted).Error; err != nil {
		t.Fatal(err)
	}
	article.Extracted = &extracted
	return &article
}

func TestProcessArticleIdempotent(t *testing.T) {
	m := newTestMonitor(t)

	subject := models.Subject{
		FullName:     "Rajesh Sharma",
		ContextTerms: []string{"Bharat Infra"},
		IsActive:     true,
	}
	if err := m.DB.Create(&subject).Error; err != nil {
		t.Fatal(err)
	}

	title := "Rajesh Sharma arrested by ED in fraud case"
	content := "The Enforcement Directorate arrested Rajesh Sharma of Bharat Infra in a fraud case."
	seedFetchedArticle(t, m, "https://thehindu.com/news/1", title, content)

	candidate := models.Candidate{
		URL:    "https://thehindu.com/news/1",
		Title:  title,
		Source: "thehindu.com",
	}

	for run := 0; run < 2; run++ {
		if _, err := m.processArticle(context.Background(), &subject, &candidate, nil); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
	}

	var count int64
	m.DB.Model(&models.Mention{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one mention after two runs, got %d", count)
	}

	var mention models.Mention
	if err := m.DB.First(&mention).Error; err != nil {
		t.Fatal(err)
	}
	if mention.Severity != models.SeverityHigh || mention.Sentiment != models.SentimentNegative {
		t.Errorf("classification on mention = %s/%s, want negative/high", mention.Sentiment, mention.Severity)
	}
	if mention.Confidence < 0.3 {
		t.Errorf("confidence = %.2f, want >= 0.3", mention.Confidence)
	}
}

func TestProcessArticleBelowConfidenceCreatesNoMention(t *testing.T) {
	m := newTestMonitor(t)

	subject := models.Subject{FullName: "Rajesh Sharma", IsActive: true}
	if err := m.DB.Create(&subject).Error; err != nil {
		t.Fatal(err)
	}

	seedFetchedArticle(t, m, "https://thehindu.com/news/2",
		"Market roundup for the week",
		"Stocks moved sideways this week with no major corporate news.")

	candidate := models.Candidate{URL: "https://thehindu.com/news/2", Title: "Market roundup for the week"}
	if _, err := m.processArticle(context.Background(), &subject, &candidate, nil); err != nil {
		t.Fatal(err)
	}

	var count int64
	m.DB.Model(&models.Mention{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no mention, got %d", count)
	}
}

func TestFindOrCreateArticleRace(t *testing.T) {
	m := newTestMonitor(t)

	candidate := &models.Candidate{
		URL:      "https://x.com/story?utm_source=a",
		Title:    "Story",
		Provider: "gdelt",
	}
	first, created, err := m.findOrCreateArticle(candidate)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("first writer must create")
	}

	// Gleicher Artikel über anderen Provider mit anderem Tracking-Query.
	other := &models.Candidate{
		URL:      "https://x.com/story?utm_source=b",
		Title:    "Story",
		Provider: "bingnews",
	}
	second, created, err := m.findOrCreateArticle(other)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("second writer must fall back to reading")
	}
	if first.ID != second.ID {
		t.Errorf("both writers must resolve to the same article: %d vs %d", first.ID, second.ID)
	}

	var count int64
	m.DB.Model(&models.Article{}).Count(&count)
	if count != 1 {
		t.Errorf("expected one article row, got %d", count)
	}
}

func TestAlertDispatchAtMostOnce(t *testing.T) {
	m := newTestMonitor(t)

	subject := models.Subject{FullName: "Rajesh Sharma", IsActive: true}
	if err := m.DB.Create(&subject).Error; err != nil {
		t.Fatal(err)
	}
	article := seedFetchedArticle(t, m, "https://x.com/alert", "Alert story", "body")

	mention := models.Mention{
		SubjectID:  subject.ID,
		ArticleID:  article.ID,
		Confidence: 0.9,
		Sentiment:  models.SentimentNegative,
		Severity:   models.SeverityHigh,
		Category:   models.CategoryRegulatoryEnforcement,
	}
	if err := m.DB.Create(&mention).Error; err != nil {
		t.Fatal(err)
	}

	// Kein SMTP konfiguriert: Dispatch beansprucht und loggt nur.
	if err := m.Alerts.Dispatch(&subject, article, &mention); err != nil {
		t.Fatal(err)
	}
	if !mention.AlertSent {
		t.Fatal("mention must be claimed after dispatch")
	}

	// Wiederholter Job: darf nichts mehr tun.
	replay := mention
	replay.AlertSent = false
	if err := m.Alerts.Dispatch(&subject, article, &replay); err != nil {
		t.Fatal(err)
	}

	var stored models.Mention
	if err := m.DB.First(&stored, mention.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !stored.AlertSent {
		t.Error("alert_sent flag must stay set")
	}
}

// Der Deduplicator wird nach der Filter-Phase von allen parallelen
// Artikel-Jobs geteilt; der Lauf muss unter -race sauber bleiben.
func TestRunSubjectParallelArticleJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body><article><p>Rajesh Sharma of Bharat Infra was arrested by the "+
			"Enforcement Directorate in a fraud case. The investigation into story %s continues, "+
			"with officials questioning several executives and fresh details emerging every "+
			"hour as the inquiry widens across multiple offices.</p></article></body></html>", r.URL.Path)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.ArticleWorkers = 8
	m := NewMonitorService(cfg, openTestDB(t), zap.NewNop(), nil)

	var batch []models.Candidate
	for i := 0; i < 16; i++ {
		batch = append(batch, models.Candidate{
			URL:      fmt.Sprintf("%s/story-%d", srv.URL, i),
			Title:    fmt.Sprintf("Rajesh Sharma arrested in fraud case %d", i),
			Source:   "thehindu.com",
			Provider: "gdelt",
		})
	}
	m.Providers = []providers.Provider{batchProvider{name: "gdelt", batch: batch}}

	subject := models.Subject{
		FullName:     "Rajesh Sharma",
		ContextTerms: []string{"Bharat Infra"},
		GDELTEnabled: true,
		IsActive:     true,
	}
	if err := m.DB.Create(&subject).Error; err != nil {
		t.Fatal(err)
	}

	count, err := m.RunSubject(context.Background(), &subject)
	if err != nil {
		t.Fatal(err)
	}
	if count != 16 {
		t.Errorf("expected 16 new mentions, got %d", count)
	}

	var mentions int64
	m.DB.Model(&models.Mention{}).Count(&mentions)
	if mentions != 16 {
		t.Errorf("expected 16 mention rows, got %d", mentions)
	}
}

func TestEnsureExtractedSurfacesHashLookupError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><article><p>Rajesh Sharma of Bharat Infra was questioned for "+
			"several hours on Tuesday, with officials reviewing documents seized from multiple "+
			"offices while the company declined to comment on the matter.</p></article></body></html>")
	}))
	defer srv.Close()

	m := newTestMonitor(t)
	// Spalte wegbrechen, die erst die Hash-Zwillingssuche trifft.
	if err := m.DB.Exec("ALTER TABLE extracted_contents RENAME COLUMN content_hash TO content_hash_bak").Error; err != nil {
		t.Fatal(err)
	}

	article := models.Article{
		URL:          srv.URL + "/story",
		CanonicalURL: CanonicalURL(srv.URL + "/story"),
		Title:        "Story",
		FetchStatus:  models.FetchPending,
	}
	if err := m.DB.Create(&article).Error; err != nil {
		t.Fatal(err)
	}

	_, err := m.ensureExtracted(context.Background(), &article, nil)
	if err == nil || !strings.Contains(err.Error(), "content-hash") {
		t.Fatalf("expected the failing content-hash lookup to surface, got %v", err)
	}
}

type batchProvider struct {
	name  string
	batch []models.Candidate
}

func (b batchProvider) Search(ctx context.Context, spec providers.QuerySpec) []models.Candidate {
	return b.batch
}
func (b batchProvider) IsAvailable() bool { return true }
func (b batchProvider) Name() string      { return b.name }

func TestEnabledProvidersIntersection(t *testing.T) {
	m := newTestMonitor(t)
	m.Providers = []providers.Provider{
		fakeProvider{name: "gdelt", available: true},
		fakeProvider{name: "bingnews", available: false},
		fakeProvider{name: "serpapi", available: true},
	}

	subject := &models.Subject{
		FullName:       "X",
		GDELTEnabled:   true,
		BingEnabled:    true,
		SerpAPIEnabled: false,
	}
	enabled := m.enabledProviders(subject)
	if len(enabled) != 1 || enabled[0].Name() != "gdelt" {
		t.Errorf("expected only gdelt, got %v", names(enabled))
	}
}

type fakeProvider struct {
	name      string
	available bool
}

func (f fakeProvider) Search(ctx context.Context, spec providers.QuerySpec) []models.Candidate {
	return nil
}
func (f fakeProvider) IsAvailable() bool { return f.available }
func (f fakeProvider) Name() string      { return f.name }

func names(provs []providers.Provider) []string {
	var out []string
	for _, p := range provs {
		out = append(out, p.Name())
	}
	return out
}
