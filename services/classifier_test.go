package services

import (
	"director-watch/config"
	"director-watch/models"
	"testing"

	"go.uber.org/zap"
)

func newHeuristicClassifier() *Classifier {
	return NewClassifier(&config.Config{CountryProfile: "IN"}, zap.NewNop(), nil)
}

func TestClassifyHighSeverityRegulatory(t *testing.T) {
	c := newHeuristicClassifier()
	result := c.ClassifyHeuristic(
		"Director arrested by ED in fraud case",
		"The Enforcement Directorate arrested the director on Friday.",
		"The Enforcement Directorate arrested the company director in a fraud case involving shell companies.")

	if result.Sentiment != models.SentimentNegative {
		t.Errorf("sentiment = %s, want negative", result.Sentiment)
	}
	if result.Severity != models.SeverityHigh {
		t.Errorf("severity = %s, want high", result.Severity)
	}
	switch result.Category {
	case models.CategoryRegulatoryEnforcement, models.CategoryLegalCourt, models.CategoryLitigation:
	default:
		t.Errorf("category = %s, want a regulatory/legal category", result.Category)
	}
	if result.WhyItMatters == "" {
		t.Error("rationale must never be empty")
	}
}

func TestClassifyPositive(t *testing.T) {
	c := newHeuristicClassifier()
	result := c.ClassifyHeuristic(
		"Director appointed to board, receives award",
		"", "The veteran banker was appointed to the board and received an industry award.")

	if result.Sentiment != models.SentimentPositive {
		t.Errorf("sentiment = %s, want positive", result.Sentiment)
	}
	if result.Severity != models.SeverityLow {
		t.Errorf("severity = %s, want low", result.Severity)
	}
	if result.Category != models.CategoryAwardsRecognition {
		t.Errorf("category = %s, want awards_recognition", result.Category)
	}
}

func TestClassifyMediumSeverity(t *testing.T) {
	c := newHeuristicClassifier()
	result := c.ClassifyHeuristic(
		"Director faces probe over alleged irregularities",
		"", "The regulator opened an inquiry into alleged irregularities.")

	if result.Sentiment != models.SentimentNegative {
		t.Errorf("sentiment = %s, want negative", result.Sentiment)
	}
	if result.Severity != models.SeverityMedium {
		t.Errorf("severity = %s, want medium", result.Severity)
	}
}

func TestClassifyCategoryOnlyCascade(t *testing.T) {
	c := newHeuristicClassifier()

	financial := c.ClassifyHeuristic("Company announces quarterly results", "",
		"The company announced quarterly results with strong revenue.")
	if financial.Sentiment != models.SentimentNeutral || financial.Severity != models.SeverityLow {
		t.Errorf("category-only match must stay neutral/low, got %s/%s", financial.Sentiment, financial.Severity)
	}
	if financial.Category != models.CategoryFinancialCorporate {
		t.Errorf("category = %s, want financial_corporate", financial.Category)
	}

	neutral := c.ClassifyHeuristic("Weather update for the weekend", "",
		"Sunny skies are expected across the region this weekend.")
	if neutral.Category != models.CategoryOther {
		t.Errorf("category = %s, want other", neutral.Category)
	}
}

func TestClassifyLitigationSubKeyword(t *testing.T) {
	c := newHeuristicClassifier()
	result := c.ClassifyHeuristic(
		"NCLT admits insolvency plea against promoter",
		"", "The National Company Law Tribunal admitted the plea; a civil suit is also pending in the High Court.")
	if result.Category != models.CategoryRegulatoryEnforcement && result.Category != models.CategoryLitigation {
		t.Errorf("category = %s, want regulatory_enforcement or litigation", result.Category)
	}
}

func TestExtractiveSummary(t *testing.T) {
	bullets := ExtractiveSummary(
		"First sentence. Second sentence! Third sentence? Fourth sentence.",
		"snippet", "title")
	if len(bullets) != 3 {
		t.Fatalf("expected 3 bullets, got %d: %v", len(bullets), bullets)
	}
	if bullets[0] != "First sentence." {
		t.Errorf("first bullet = %q", bullets[0])
	}

	fromTitle := ExtractiveSummary("", "", "Just a headline")
	if len(fromTitle) != 1 || fromTitle[0] != "Just a headline" {
		t.Errorf("title fallback failed: %v", fromTitle)
	}
}
