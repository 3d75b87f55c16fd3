package models

import "time"

// Candidate ist ein unvalidiertes Suchergebnis eines Providers.
// Candidates werden nie direkt persistiert: entweder verwirft die
// Deduplizierung sie, oder sie werden zu einem Article promoted.
type Candidate struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Snippet     string     `json:"snippet"`
	Provider    string     `json:"provider"`

	Language string `json:"language"` // ISO 639-1
	Country  string `json:"country"`  // ISO 3166-1 alpha-2
	State    string `json:"state,omitempty"`
	District string `json:"district,omitempty"`
	City     string `json:"city,omitempty"`

	SourceType       string `json:"source_type,omitempty"`
	SourceTrustScore int    `json:"source_trust_score"` // 0-100
}
