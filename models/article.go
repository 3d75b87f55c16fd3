package models

import (
	"time"
)

// Fetch-Status eines Article.
const (
	FetchPending = "pending"
	FetchSuccess = "success"
	FetchFailed  = "failed"
)

// Article ist ein persistierter, deduplizierter Zeitungsartikel.
// Identität ist die kanonische URL: pro kanonischer URL existiert
// höchstens ein Article, egal über wie viele Provider oder Subjects
// er gefunden wurde.
type Article struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	URL          string `json:"url" gorm:"size:2048;not null"`
	CanonicalURL string `json:"canonical_url" gorm:"size:2048;uniqueIndex;not null"`

	Title        string     `json:"title" gorm:"size:512;not null"`
	Source       string     `json:"source,omitempty" gorm:"size:255"`
	PublishedAt  *time.Time `json:"published_at,omitempty" gorm:"index"`
	Snippet      string     `json:"snippet,omitempty" gorm:"type:text"`
	ProviderName string     `json:"provider_name,omitempty" gorm:"size:50"`

	FetchStatus string `json:"fetch_status" gorm:"size:50;default:'pending'"`
	FetchError  string `json:"fetch_error,omitempty" gorm:"type:text"`

	Language string `json:"language" gorm:"size:10;default:'en';index"`
	Country  string `json:"country" gorm:"size:2;default:'IN';index"`
	State    string `json:"state,omitempty" gorm:"size:100;index"`
	District string `json:"district,omitempty" gorm:"size:100"`
	City     string `json:"city,omitempty" gorm:"size:100"`

	SourceType       string `json:"source_type,omitempty" gorm:"size:50"`
	SourceTrustScore int    `json:"source_trust_score" gorm:"default:50"`

	Extracted *ExtractedContent `json:"extracted_content,omitempty" gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE"`
	Mentions  []Mention         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Article) TableName() string {
	return "articles"
}

// ExtractedContent ist der extrahierte Haupttext eines Article.
// Wird genau einmal angelegt und danach nicht mehr verändert (1:1).
type ExtractedContent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ArticleID uint   `json:"article_id" gorm:"uniqueIndex;not null"`
	Content   string `json:"content" gorm:"type:text;not null"`

	// SHA256 über den normalisierten Text; Simhash für Near-Duplicates.
	ContentHash string `json:"content_hash" gorm:"size:64;index"`
	Simhash     int64  `json:"simhash"`

	Language         string `json:"language" gorm:"size:10;default:'en'"`
	ExtractionMethod string `json:"extraction_method" gorm:"size:50"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (ExtractedContent) TableName() string {
	return "extracted_contents"
}
