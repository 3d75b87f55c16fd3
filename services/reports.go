package services

import (
	"context"
	"director-watch/config"
	"director-watch/models"
	"director-watch/storage"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// topMentionsPerSubject begrenzt die Top-Mentions im Subject-Rollup.
const topMentionsPerSubject = 5

// ReportService aggregiert Mentions zu Tages-Reports und räumt alte
// Daten ab.
type ReportService struct {
	Config   *config.Config
	DB       *gorm.DB
	S3Client *s3.Client
	Logger   *zap.Logger
}

// NewReportService erstellt einen neuen ReportService.
func NewReportService(cfg *config.Config, db *gorm.DB, s3Client *s3.Client, logger *zap.Logger) *ReportService {
	return &ReportService{Config: cfg, DB: db, S3Client: s3Client, Logger: logger}
}

// Generate erzeugt den Report für das Datum. Existiert er bereits, wird
// der bestehende Datensatz ohne Neuberechnung zurückgegeben.
func (r *ReportService) Generate(ctx context.Context, date time.Time) (*models.Report, error) {
	day := date.Truncate(24 * time.Hour)
	log := r.Logger.With(zap.String("report_date", day.Format("2006-01-02")))

	var existing models.Report
	err := r.DB.Where("report_date = ?", day).First(&existing).Error
	if err == nil {
		log.Info("Report existiert bereits, keine Neuberechnung.")
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("report lesen: %w", err)
	}

	stats, err := r.aggregate(day)
	if err != nil {
		return nil, err
	}

	report := models.Report{
		ReportDate: day,
		Stats:      datatypes.NewJSONType(*stats),
	}
	insert := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&report)
	if insert.Error != nil {
		return nil, fmt.Errorf("report anlegen: %w", insert.Error)
	}
	if insert.RowsAffected == 0 {
		// Ein paralleler Lauf war schneller; seinen Report lesen.
		if err := r.DB.Where("report_date = ?", day).First(&report).Error; err != nil {
			return nil, fmt.Errorf("report nachlesen: %w", err)
		}
		return &report, nil
	}

	log.Info("Report erzeugt",
		zap.Int("total_mentions", stats.TotalMentions),
		zap.Int("high_severity", stats.HighSeverity))

	if r.Config.S3Configured() && r.S3Client != nil {
		if err := r.uploadArtifact(ctx, &report, stats); err != nil {
			// Der Report selbst ist gültig; nur das Artefakt fehlt.
			log.Error("Report-Artefakt-Upload fehlgeschlagen", zap.Error(err))
		}
	}
	return &report, nil
}

// aggregate berechnet die Kennzahlen für den Zeitraum
// [Datum-1Tag, Datum Tagesende] über bestätigte Mentions.
func (r *ReportService) aggregate(day time.Time) (*models.ReportStats, error) {
	windowStart := day.AddDate(0, 0, -1)
	windowEnd := day.Add(24*time.Hour - time.Nanosecond)

	var mentions []models.Mention
	if err := r.DB.
		Where("created_at BETWEEN ? AND ? AND is_confirmed = ?", windowStart, windowEnd, true).
		Find(&mentions).Error; err != nil {
		return nil, fmt.Errorf("mentions laden: %w", err)
	}

	stats := &models.ReportStats{TotalMentions: len(mentions)}
	for _, mention := range mentions {
		switch mention.Severity {
		case models.SeverityHigh:
			stats.HighSeverity++
		case models.SeverityMedium:
			stats.MediumSeverity++
		default:
			stats.LowSeverity++
		}
		switch mention.Sentiment {
		case models.SentimentPositive:
			stats.Positive++
		case models.SentimentNegative:
			stats.Negative++
		case models.SentimentMixed:
			stats.Mixed++
		default:
			stats.Neutral++
		}
	}

	var subjects []models.Subject
	if err := r.DB.Where("is_active = ?", true).Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("subjects laden: %w", err)
	}

	cutoff24h := windowEnd.AddDate(0, 0, -1)
	cutoff7d := windowEnd.AddDate(0, 0, -7)
	for _, subject := range subjects {
		rollup := models.SubjectRollup{SubjectID: subject.ID, SubjectName: subject.FullName}

		var count24h, count7d int64
		if err := r.DB.Model(&models.Mention{}).
			Where("subject_id = ? AND is_confirmed = ? AND created_at > ?", subject.ID, true, cutoff24h).
			Count(&count24h).Error; err != nil {
			return nil, fmt.Errorf("rollup 24h zählen: %w", err)
		}
		if err := r.DB.Model(&models.Mention{}).
			Where("subject_id = ? AND is_confirmed = ? AND created_at > ?", subject.ID, true, cutoff7d).
			Count(&count7d).Error; err != nil {
			return nil, fmt.Errorf("rollup 7d zählen: %w", err)
		}
		rollup.Count24h = int(count24h)
		rollup.Count7d = int(count7d)

		var top []models.Mention
		if err := r.DB.Where("subject_id = ? AND is_confirmed = ? AND created_at > ?", subject.ID, true, cutoff24h).
			Find(&top).Error; err != nil {
			return nil, fmt.Errorf("top-mentions laden: %w", err)
		}
		sort.SliceStable(top, func(i, j int) bool {
			if top[i].Severity.Rank() != top[j].Severity.Rank() {
				return top[i].Severity.Rank() > top[j].Severity.Rank()
			}
			return top[i].Confidence > top[j].Confidence
		})
		if len(top) > topMentionsPerSubject {
			top = top[:topMentionsPerSubject]
		}
		for _, mention := range top {
			rollup.TopMentions = append(rollup.TopMentions, mention.ID)
		}

		stats.Subjects = append(stats.Subjects, rollup)
	}
	return stats, nil
}

// uploadArtifact legt die Stats als JSON in den Artefakt-Bucket und
// schreibt den Link in den Report.
func (r *ReportService) uploadArtifact(ctx context.Context, report *models.Report, stats *models.ReportStats) error {
	payload, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("stats serialisieren: %w", err)
	}

	key := fmt.Sprintf("reports/%s.json", report.ReportDate.Format("2006-01-02"))
	link, err := storage.UploadReportArtifact(ctx, r.S3Client, r.Config, key, payload)
	if err != nil {
		return err
	}

	if err := r.DB.Model(report).Updates(map[string]interface{}{
		"artifact_path": key,
		"artifact_url":  link,
	}).Error; err != nil {
		return fmt.Errorf("artefakt-link speichern: %w", err)
	}
	report.ArtifactPath = key
	report.ArtifactURL = link
	return nil
}

// CleanupRetention löscht Mentions jenseits des Aufbewahrungsfensters
// und danach Artikel, auf die keine Mention mehr zeigt.
func (r *ReportService) CleanupRetention() error {
	cutoff := time.Now().AddDate(0, 0, -r.Config.DataRetentionDays)
	log := r.Logger.With(zap.Time("cutoff", cutoff))

	mentions := r.DB.Where("created_at < ?", cutoff).Delete(&models.Mention{})
	if mentions.Error != nil {
		return fmt.Errorf("alte mentions löschen: %w", mentions.Error)
	}

	orphans := r.DB.
		Where("created_at < ?", cutoff).
		Where("id NOT IN (?)", r.DB.Model(&models.Mention{}).Select("article_id")).
		Delete(&models.Article{})
	if orphans.Error != nil {
		return fmt.Errorf("verwaiste artikel löschen: %w", orphans.Error)
	}

	log.Info("Retention-Cleanup abgeschlossen",
		zap.Int64("mentions_deleted", mentions.RowsAffected),
		zap.Int64("articles_deleted", orphans.RowsAffected))
	return nil
}
