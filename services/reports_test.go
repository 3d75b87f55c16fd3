package services

import (
	"context"
	"director-watch/models"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestReportService(t *testing.T) *ReportService {
	t.Helper()
	return NewReportService(testConfig(), openTestDB(t), nil, zap.NewNop())
}

var seedSeq int

func seedMention(t *testing.T, r *ReportService, subjectID uint, severity models.Severity, sentiment models.Sentiment, confirmed bool) {
	t.Helper()

	seedSeq++
	url := fmt.Sprintf("https://x.com/%s/%d", t.Name(), seedSeq)
	article := models.Article{
		URL:          url,
		CanonicalURL: url,
		Title:        "T",
	}
	if err := r.DB.Create(&article).Error; err != nil {
		t.Fatal(err)
	}
	mention := models.Mention{
		SubjectID:   subjectID,
		ArticleID:   article.ID,
		Confidence:  0.8,
		Sentiment:   sentiment,
		Severity:    severity,
		Category:    models.CategoryOther,
		IsConfirmed: confirmed,
	}
	if err := r.DB.Create(&mention).Error; err != nil {
		t.Fatal(err)
	}
}

func TestGenerateReportAggregates(t *testing.T) {
	r := newTestReportService(t)

	subject := models.Subject{FullName: "Rajesh Sharma", IsActive: true}
	if err := r.DB.Create(&subject).Error; err != nil {
		t.Fatal(err)
	}

	seedMention(t, r, subject.ID, models.SeverityHigh, models.SentimentNegative, true)
	seedMention(t, r, subject.ID, models.SeverityLow, models.SentimentPositive, true)
	// Nicht bestätigte Mentions zählen nicht.
	seedMention(t, r, subject.ID, models.SeverityHigh, models.SentimentNegative, false)

	report, err := r.Generate(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}

	stats := report.Stats.Data()
	if stats.TotalMentions != 2 {
		t.Errorf("total = %d, want 2", stats.TotalMentions)
	}
	if stats.HighSeverity != 1 || stats.LowSeverity != 1 {
		t.Errorf("severity counts = %d/%d, want 1/1", stats.HighSeverity, stats.LowSeverity)
	}
	if stats.Negative != 1 || stats.Positive != 1 {
		t.Errorf("sentiment counts = %d/%d, want 1/1", stats.Negative, stats.Positive)
	}
	if len(stats.Subjects) != 1 {
		t.Fatalf("expected one subject rollup, got %d", len(stats.Subjects))
	}
	rollup := stats.Subjects[0]
	if rollup.Count24h != 2 || rollup.Count7d != 2 {
		t.Errorf("rollup counts = %d/%d, want 2/2", rollup.Count24h, rollup.Count7d)
	}
	if len(rollup.TopMentions) == 0 {
		t.Error("expected top mentions in rollup")
	}
}

func TestGenerateReportIdempotentPerDate(t *testing.T) {
	r := newTestReportService(t)

	subject := models.Subject{FullName: "Rajesh Sharma", IsActive: true}
	if err := r.DB.Create(&subject).Error; err != nil {
		t.Fatal(err)
	}
	seedMention(t, r, subject.ID, models.SeverityHigh, models.SentimentNegative, true)

	date := time.Now().UTC()
	first, err := r.Generate(context.Background(), date)
	if err != nil {
		t.Fatal(err)
	}

	// Zweiter Lauf sieht eine geänderte Welt, darf aber nicht neu rechnen.
	seedMention(t, r, subject.ID, models.SeverityHigh, models.SentimentNegative, true)
	second, err := r.Generate(context.Background(), date)
	if err != nil {
		t.Fatal(err)
	}

	if first.ID != second.ID {
		t.Errorf("same date must return the same report: %d vs %d", first.ID, second.ID)
	}
	if second.Stats.Data().TotalMentions != first.Stats.Data().TotalMentions {
		t.Error("second call must not recompute statistics")
	}

	var count int64
	r.DB.Model(&models.Report{}).Count(&count)
	if count != 1 {
		t.Errorf("expected one report row, got %d", count)
	}
}

func TestCleanupRetention(t *testing.T) {
	r := newTestReportService(t)
	r.Config.DataRetentionDays = 30

	subject := models.Subject{FullName: "Rajesh Sharma", IsActive: true}
	if err := r.DB.Create(&subject).Error; err != nil {
		t.Fatal(err)
	}

	old := time.Now().AddDate(0, 0, -60)
	article := models.Article{URL: "https://x.com/old", CanonicalURL: "https://x.com/old", Title: "Old"}
	if err := r.DB.Create(&article).Error; err != nil {
		t.Fatal(err)
	}
	mention := models.Mention{
		SubjectID: subject.ID, ArticleID: article.ID,
		Confidence: 0.5, Sentiment: models.SentimentNeutral,
		Severity: models.SeverityLow, Category: models.CategoryOther,
	}
	if err := r.DB.Create(&mention).Error; err != nil {
		t.Fatal(err)
	}
	// Zeitstempel in die Vergangenheit schieben.
	r.DB.Model(&models.Article{}).Where("id = ?", article.ID).Update("created_at", old)
	r.DB.Model(&models.Mention{}).Where("id = ?", mention.ID).Update("created_at", old)

	if err := r.CleanupRetention(); err != nil {
		t.Fatal(err)
	}

	var mentions, articles int64
	r.DB.Model(&models.Mention{}).Count(&mentions)
	r.DB.Model(&models.Article{}).Count(&articles)
	if mentions != 0 {
		t.Errorf("expected old mention deleted, %d left", mentions)
	}
	if articles != 0 {
		t.Errorf("expected orphaned article deleted, %d left", articles)
	}
}

func TestGenerateSurfacesRollupQueryError(t *testing.T) {
	r := newTestReportService(t)

	subject := models.Subject{FullName: "Rajesh Sharma", IsActive: true}
	if err := r.DB.Create(&subject).Error; err != nil {
		t.Fatal(err)
	}

	// Spalte wegbrechen, die erst die Rollup-Abfragen treffen.
	if err := r.DB.Exec("ALTER TABLE mentions RENAME COLUMN subject_id TO subject_id_bak").Error; err != nil {
		t.Fatal(err)
	}

	if _, err := r.Generate(context.Background(), time.Now().UTC()); err == nil {
		t.Fatal("expected rollup query error to surface")
	}

	var count int64
	r.DB.Model(&models.Report{}).Count(&count)
	if count != 0 {
		t.Errorf("failed aggregation must not persist a report, got %d rows", count)
	}
}
