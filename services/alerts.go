package services

import (
	"director-watch/config"
	"director-watch/models"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AlertDispatcher verschickt Sofort-Benachrichtigungen für
// HIGH-Severity-Mentions oberhalb der Alert-Schwelle.
type AlertDispatcher struct {
	Config *config.Config
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewAlertDispatcher erstellt einen neuen AlertDispatcher.
func NewAlertDispatcher(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *AlertDispatcher {
	return &AlertDispatcher{Config: cfg, DB: db, Logger: logger}
}

// ShouldAlert prüft die Alert-Bedingungen einer Mention.
func (a *AlertDispatcher) ShouldAlert(mention *models.Mention) bool {
	return mention.Severity == models.SeverityHigh &&
		mention.Confidence >= a.Config.AlertConfidenceFloor &&
		!mention.AlertSent
}

// Dispatch verschickt den Alert höchstens einmal pro Mention. Die
// Mention wird zuerst per konditionalem Update beansprucht; erst danach
// wird gesendet. Ein wiederholter oder konkurrierender Job ist damit
// ein No-op.
func (a *AlertDispatcher) Dispatch(subject *models.Subject, article *models.Article, mention *models.Mention) error {
	log := a.Logger.With(
		zap.Uint("mention_id", mention.ID),
		zap.String("subject", subject.FullName))

	if !a.ShouldAlert(mention) {
		return nil
	}

	claim := a.DB.Model(&models.Mention{}).
		Where("id = ? AND alert_sent = ?", mention.ID, false).
		Update("alert_sent", true)
	if claim.Error != nil {
		return fmt.Errorf("alert beanspruchen: %w", claim.Error)
	}
	if claim.RowsAffected == 0 {
		log.Debug("Alert bereits verschickt, überspringe.")
		return nil
	}
	mention.AlertSent = true

	recipients := a.Config.AlertRecipientList()
	if a.Config.SMTPUser == "" || len(recipients) == 0 {
		log.Warn("Kein Mail-Transport konfiguriert, Alert wird nur geloggt.",
			zap.String("severity", string(mention.Severity)),
			zap.String("article", article.URL))
		return nil
	}

	mailSubject := fmt.Sprintf("[ALERT] %s: %s coverage (%s)",
		subject.FullName, mention.Severity, mention.Category)
	body := a.renderBody(subject, article, mention)

	if err := a.send(recipients, mailSubject, body); err != nil {
		// Die Mention bleibt beansprucht: at-most-once, ein verlorener
		// Alert ist akzeptiert, ein doppelter nicht.
		log.Error("Alert-Versand fehlgeschlagen", zap.Error(err))
		return fmt.Errorf("alert senden: %w", err)
	}

	log.Info("Alert verschickt", zap.Strings("recipients", recipients))
	return nil
}

func (a *AlertDispatcher) renderBody(subject *models.Subject, article *models.Article, mention *models.Mention) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", subject.FullName)
	fmt.Fprintf(&b, "Severity: %s | Sentiment: %s | Category: %s\n", mention.Severity, mention.Sentiment, mention.Category)
	fmt.Fprintf(&b, "Confidence: %.2f\n\n", mention.Confidence)
	fmt.Fprintf(&b, "Article: %s\n", article.Title)
	fmt.Fprintf(&b, "Source: %s (%s, trust %d)\n", article.Source, article.SourceType, article.SourceTrustScore)
	fmt.Fprintf(&b, "URL: %s\n\n", article.URL)
	if len(mention.SummaryBullets) > 0 {
		b.WriteString("Summary:\n")
		for _, bullet := range mention.SummaryBullets {
			fmt.Fprintf(&b, "  - %s\n", bullet)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Why it matters: %s\n", mention.WhyItMatters)
	return b.String()
}

func (a *AlertDispatcher) send(recipients []string, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", a.Config.SMTPHost, a.Config.SMTPPort)
	auth := smtp.PlainAuth("", a.Config.SMTPUser, a.Config.SMTPPass, a.Config.SMTPHost)

	msg := strings.Builder{}
	fmt.Fprintf(&msg, "From: %s\r\n", a.Config.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	return smtp.SendMail(addr, auth, a.Config.FromEmail, recipients, []byte(msg.String()))
}
