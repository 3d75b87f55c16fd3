package models

import (
	"time"

	"gorm.io/datatypes"
)

// Sentiment ist die Tonalität einer Erwähnung.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

// ParseSentiment bildet einen rohen String auf ein Sentiment ab.
// Unbekannte Werte fallen auf neutral zurück, statt einen Fehler auszulösen.
func ParseSentiment(raw string) Sentiment {
	switch Sentiment(raw) {
	case SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed:
		return Sentiment(raw)
	default:
		return SentimentNeutral
	}
}

// Severity ist die Schwere einer Erwähnung.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ParseSeverity bildet einen rohen String auf eine Severity ab (Default: low).
func ParseSeverity(raw string) Severity {
	switch Severity(raw) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return Severity(raw)
	default:
		return SeverityLow
	}
}

// Rank erlaubt Sortierung nach Schwere (high zuerst).
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

// Category ist die inhaltliche Einordnung einer Erwähnung.
type Category string

const (
	CategoryRegulatoryEnforcement Category = "regulatory_enforcement"
	CategoryLegalCourt            Category = "legal_court"
	CategoryLitigation            Category = "litigation"
	CategoryFinancialCorporate    Category = "financial_corporate"
	CategoryBoardAppointment      Category = "governance_board_appointment"
	CategoryCorporateGovernance   Category = "corporate_governance"
	CategoryESGSocialPolitical    Category = "esg_social_political"
	CategoryAwardsRecognition     Category = "awards_recognition"
	CategoryPersonalReputation    Category = "personal_reputation"
	CategoryOther                 Category = "other"
)

// ParseCategory bildet einen rohen String auf eine Category ab (Default: other).
func ParseCategory(raw string) Category {
	switch Category(raw) {
	case CategoryRegulatoryEnforcement, CategoryLegalCourt, CategoryLitigation,
		CategoryFinancialCorporate, CategoryBoardAppointment, CategoryCorporateGovernance,
		CategoryESGSocialPolitical, CategoryAwardsRecognition, CategoryPersonalReputation,
		CategoryOther:
		return Category(raw)
	default:
		return CategoryOther
	}
}

// Mention verknüpft genau ein Subject mit genau einem Article.
// Der Unique-Index über (subject_id, article_id) ist der zentrale
// Idempotenz-Vertrag der Pipeline.
type Mention struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	SubjectID uint `json:"subject_id" gorm:"index:idx_mentions_subject_article,unique;not null"`
	ArticleID uint `json:"article_id" gorm:"index:idx_mentions_subject_article,unique;not null"`

	Confidence float64   `json:"confidence" gorm:"not null;index"`
	Sentiment  Sentiment `json:"sentiment" gorm:"size:20;not null;index"`
	Severity   Severity  `json:"severity" gorm:"size:20;not null;index"`
	Category   Category  `json:"category" gorm:"size:50;not null;index"`

	SummaryBullets datatypes.JSONSlice[string] `json:"summary_bullets"`
	WhyItMatters   string                      `json:"why_it_matters,omitempty" gorm:"type:text"`

	IsReviewed  bool `json:"is_reviewed" gorm:"default:false"`
	IsConfirmed bool `json:"is_confirmed" gorm:"default:true"`
	AlertSent   bool `json:"alert_sent" gorm:"default:false"`

	Subject Subject `json:"-"`
	Article Article `json:"-"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Mention) TableName() string {
	return "mentions"
}
