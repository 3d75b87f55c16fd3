package models

import (
	"time"

	"gorm.io/datatypes"
)

// ReportStats sind die aggregierten Kennzahlen eines Tages-Reports.
type ReportStats struct {
	TotalMentions  int `json:"total_mentions"`
	HighSeverity   int `json:"high_severity"`
	MediumSeverity int `json:"medium_severity"`
	LowSeverity    int `json:"low_severity"`
	Positive       int `json:"positive"`
	Negative       int `json:"negative"`
	Neutral        int `json:"neutral"`
	Mixed          int `json:"mixed"`

	Subjects []SubjectRollup `json:"subjects"`
}

// SubjectRollup ist der Per-Subject-Anteil eines Reports.
type SubjectRollup struct {
	SubjectID   uint   `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	Count24h    int    `json:"count_24h"`
	Count7d     int    `json:"count_7d"`
	TopMentions []uint `json:"top_mention_ids"`
}

// Report ist der einmal pro Kalendertag erzeugte Digest.
// Die Aufbereitung des Dokuments selbst (HTML/PDF) übernimmt ein
// externer Renderer; hier liegen nur die Daten und Artefakt-Verweise.
type Report struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ReportDate time.Time `json:"report_date" gorm:"type:date;uniqueIndex;not null"`

	Stats datatypes.JSONType[ReportStats] `json:"stats"`

	// Artefakt-Verweise (lokal bzw. S3), vom Renderer/Uploader befüllt.
	ArtifactPath string `json:"artifact_path,omitempty" gorm:"size:512"`
	ArtifactURL  string `json:"artifact_url,omitempty" gorm:"size:512"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Report) TableName() string {
	return "reports"
}
