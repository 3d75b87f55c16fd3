package services

import (
	"context"
	"director-watch/config"
	"director-watch/models"
	"director-watch/providers"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MonitorService orchestriert den kompletten Lauf: Subjects laden,
// Provider-Fanout, Dedup-Barriere, Artikel-Jobs, Mention-Erzeugung und
// Alerts.
type MonitorService struct {
	Config     *config.Config
	DB         *gorm.DB
	Logger     *zap.Logger
	Providers  []providers.Provider
	Queries    *QueryBuilder
	Extractor  *Extractor
	Resolver   *Resolver
	Classifier *Classifier
	Alerts     *AlertDispatcher
}

// NewMonitorService erstellt eine neue Instanz des MonitorService.
func NewMonitorService(cfg *config.Config, db *gorm.DB, logger *zap.Logger, provs []providers.Provider) *MonitorService {
	llm := NewLLMClient(cfg, logger)
	return &MonitorService{
		Config:     cfg,
		DB:         db,
		Logger:     logger,
		Providers:  provs,
		Queries:    NewQueryBuilder(cfg),
		Extractor:  NewExtractor(cfg, logger),
		Resolver:   NewResolver(cfg, logger),
		Classifier: NewClassifier(cfg, logger, llm),
		Alerts:     NewAlertDispatcher(cfg, db, logger),
	}
}

// RunAllSubjects führt den Lauf für alle aktiven Subjects aus und
// liefert die Anzahl neu erzeugter Mentions.
func (m *MonitorService) RunAllSubjects(ctx context.Context) (int, error) {
	var subjects []models.Subject
	if err := m.DB.Where("is_active = ?", true).Find(&subjects).Error; err != nil {
		m.Logger.Error("Fehler beim Laden der Subjects", zap.Error(err))
		return 0, err
	}
	m.Logger.Info("Starte Monitoring-Lauf", zap.Int("subjects", len(subjects)))

	sem := make(chan struct{}, m.Config.SubjectWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	totalMentions := 0

	for i := range subjects {
		subject := subjects[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			count, err := m.runWithRetry(ctx, func(jobCtx context.Context) (int, error) {
				return m.RunSubject(jobCtx, &subject)
			})
			if err != nil {
				m.Logger.Error("Subject-Job endgültig fehlgeschlagen",
					zap.String("subject", subject.FullName), zap.Error(err))
				return
			}
			mu.Lock()
			totalMentions += count
			mu.Unlock()
		}()
	}
	wg.Wait()

	m.Logger.Info("Monitoring-Lauf abgeschlossen", zap.Int("new_mentions", totalMentions))
	return totalMentions, nil
}

// RunSubjectByID ist der Einstiegspunkt für den API-Trigger.
func (m *MonitorService) RunSubjectByID(ctx context.Context, id uint) (int, error) {
	var subject models.Subject
	if err := m.DB.First(&subject, id).Error; err != nil {
		return 0, fmt.Errorf("subject %d laden: %w", id, err)
	}
	return m.RunSubject(ctx, &subject)
}

// RunSubject führt den kompletten Lauf für ein Subject aus: Queries
// bauen, alle Provider abfragen, Kandidaten mergen, deduplizieren und
// die Artikel-Jobs starten. Die Dedup-Barriere liegt nach dem Merge:
// kein Artikel-Job startet, bevor nicht alle Provider geantwortet haben.
func (m *MonitorService) RunSubject(ctx context.Context, subject *models.Subject) (int, error) {
	log := m.Logger.With(zap.String("subject", subject.FullName))
	if !subject.IsActive {
		log.Info("Subject ist inaktiv, überspringe.")
		return 0, nil
	}
	log.Info("Starte Subject-Job.")

	enabled := m.enabledProviders(subject)
	if len(enabled) == 0 {
		log.Warn("Kein Provider für Subject aktiv.")
		return 0, nil
	}

	queries := m.Queries.BuildQueries(subject)
	if len(queries) == 0 {
		log.Warn("Subject liefert keine Queries (leerer Name?).")
		return 0, nil
	}

	dedup, err := NewDeduplicator(m.DB, m.Logger, m.Config.DedupWindowDays)
	if err != nil {
		return 0, err
	}

	windowStart := time.Now().AddDate(0, 0, -m.Config.DedupWindowDays)
	spec := providers.QuerySpec{
		MaxResults: m.Config.MaxResultsPerQuery,
		DateFrom:   &windowStart,
		Language:   "en",
		Country:    "IN",
		State:      subject.HQState,
		City:       subject.HQCity,
	}

	// Provider-Fanout pro Query, Ergebnisse werden in Reihenfolge der
	// (Query, Provider)-Paare gesammelt, damit Dedup deterministisch bleibt.
	type searchResult struct {
		idx        int
		candidates []models.Candidate
	}
	var wg sync.WaitGroup
	results := make([]searchResult, 0, len(queries)*len(enabled))
	var mu sync.Mutex

	idx := 0
	for _, query := range queries {
		for _, provider := range enabled {
			querySpec := spec
			querySpec.Query = query
			slot := idx
			idx++

			wg.Add(1)
			go func(p providers.Provider) {
				defer wg.Done()
				candidates := p.Search(ctx, querySpec)
				mu.Lock()
				results = append(results, searchResult{idx: slot, candidates: candidates})
				mu.Unlock()
			}(provider)
		}
	}
	wg.Wait()

	var merged []models.Candidate
	ordered := make([][]models.Candidate, idx)
	for _, r := range results {
		ordered[r.idx] = r.candidates
	}
	for _, batch := range ordered {
		merged = append(merged, batch...)
	}
	log.Info("Provider-Fanout abgeschlossen", zap.Int("candidates", len(merged)))

	fresh := dedup.Filter(merged)
	if len(fresh) > m.Config.MaxArticlesPerSubject {
		fresh = fresh[:m.Config.MaxArticlesPerSubject]
	}
	log.Info("Kandidaten nach Dedup", zap.Int("fresh", len(fresh)))

	// Artikel-Jobs hinter einer eigenen Semaphore.
	sem := make(chan struct{}, m.Config.ArticleWorkers)
	var jobWG sync.WaitGroup
	var countMu sync.Mutex
	newMentions := 0

	for i := range fresh {
		candidate := fresh[i]
		jobWG.Add(1)
		sem <- struct{}{}
		go func() {
			defer jobWG.Done()
			defer func() { <-sem }()

			created, err := m.runWithRetry(ctx, func(jobCtx context.Context) (int, error) {
				return m.processArticle(jobCtx, subject, &candidate, dedup)
			})
			if err != nil {
				log.Error("Artikel-Job endgültig fehlgeschlagen",
					zap.String("url", candidate.URL), zap.Error(err))
				return
			}
			countMu.Lock()
			newMentions += created
			countMu.Unlock()
		}()
	}
	jobWG.Wait()

	log.Info("Subject-Job abgeschlossen", zap.Int("new_mentions", newMentions))
	return newMentions, nil
}

// processArticle ist der Artikel-Job: Artikel anlegen oder wiederfinden,
// Inhalt holen, Subject auflösen, klassifizieren, Mention idempotent
// anlegen und ggf. den Alert auslösen. Jeder Schritt ist so gebaut, dass
// ein wiederholter Versuch keine Duplikate erzeugt.
func (m *MonitorService) processArticle(ctx context.Context, subject *models.Subject, candidate *models.Candidate, dedup *Deduplicator) (int, error) {
	log := m.Logger.With(
		zap.String("subject", subject.FullName),
		zap.String("url", candidate.URL))

	article, created, err := m.findOrCreateArticle(candidate)
	if err != nil {
		return 0, err
	}
	if created {
		articlesCreatedCounter.Inc()
	}

	if article.FetchStatus == models.FetchFailed {
		log.Debug("Artikel ist bereits als fehlgeschlagen markiert.")
		return 0, nil
	}

	extracted, err := m.ensureExtracted(ctx, article, dedup)
	if err != nil {
		// Terminal: Artikel ist als failed markiert, kein Retry in diesem Lauf.
		log.Warn("Artikel ohne extrahierbaren Inhalt", zap.Error(err))
		return 0, nil
	}
	if extracted == nil {
		// Inhalt ist ein Duplikat eines bereits bekannten Artikels.
		return 0, nil
	}

	hints := LocationHints{State: article.State, City: article.City}
	confidence := m.Resolver.ComputeConfidence(subject, article.Title, article.Snippet, extracted.Content, hints)
	if confidence < m.Config.MinConfidence {
		log.Debug("Konfidenz unter Schwelle", zap.Float64("confidence", confidence))
		return 0, nil
	}

	// Existenz-Check direkt vor dem Insert; der Unique-Index auf
	// (subject_id, article_id) fängt das verbleibende Rennen ab.
	var existing models.Mention
	err = m.DB.Where("subject_id = ? AND article_id = ?", subject.ID, article.ID).First(&existing).Error
	if err == nil {
		log.Debug("Mention existiert bereits.")
		return 0, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("mention prüfen: %w", err)
	}

	result := m.Classifier.Classify(ctx, article.Title, article.Snippet, extracted.Content)

	mention := models.Mention{
		SubjectID:      subject.ID,
		ArticleID:      article.ID,
		Confidence:     confidence,
		Sentiment:      result.Sentiment,
		Severity:       result.Severity,
		Category:       result.Category,
		SummaryBullets: result.SummaryBullets,
		WhyItMatters:   result.WhyItMatters,
	}
	insert := m.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&mention)
	if insert.Error != nil {
		return 0, fmt.Errorf("mention anlegen: %w", insert.Error)
	}
	if insert.RowsAffected == 0 {
		log.Debug("Mention wurde parallel angelegt.")
		return 0, nil
	}
	mentionsCreatedCounter.Inc()
	log.Info("Neue Mention angelegt",
		zap.Float64("confidence", confidence),
		zap.String("severity", string(result.Severity)),
		zap.String("category", string(result.Category)))

	if m.Alerts.ShouldAlert(&mention) {
		if err := m.Alerts.Dispatch(subject, article, &mention); err != nil {
			log.Error("Alert-Dispatch fehlgeschlagen", zap.Error(err))
		} else if mention.AlertSent {
			alertsSentCounter.Inc()
		}
	}
	return 1, nil
}

// findOrCreateArticle legt den Artikel unter seiner kanonischen URL an
// oder liest den bestehenden Datensatz. Der Unique-Index auf
// canonical_url entscheidet Rennen zwischen parallelen Jobs: der erste
// Schreiber gewinnt, der zweite liest.
func (m *MonitorService) findOrCreateArticle(candidate *models.Candidate) (*models.Article, bool, error) {
	canonical := CanonicalURL(candidate.URL)

	article := models.Article{
		URL:              candidate.URL,
		CanonicalURL:     canonical,
		Title:            candidate.Title,
		Source:           candidate.Source,
		PublishedAt:      candidate.PublishedAt,
		Snippet:          candidate.Snippet,
		ProviderName:     candidate.Provider,
		FetchStatus:      models.FetchPending,
		Language:         candidate.Language,
		Country:          candidate.Country,
		State:            candidate.State,
		District:         candidate.District,
		City:             candidate.City,
		SourceType:       candidate.SourceType,
		SourceTrustScore: candidate.SourceTrustScore,
	}

	insert := m.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "canonical_url"}},
		DoNothing: true,
	}).Create(&article)
	if insert.Error != nil {
		return nil, false, fmt.Errorf("artikel anlegen: %w", insert.Error)
	}
	if insert.RowsAffected > 0 {
		return &article, true, nil
	}

	var existing models.Article
	if err := m.DB.Preload("Extracted").Where("canonical_url = ?", canonical).First(&existing).Error; err != nil {
		return nil, false, fmt.Errorf("artikel lesen: %w", err)
	}
	return &existing, false, nil
}

// ensureExtracted holt und extrahiert den Artikelinhalt, falls noch
// nicht geschehen. Rückgabe nil/nil bedeutet: Inhalt ist ein
// Content-Duplikat, der Kandidat wird verworfen.
func (m *MonitorService) ensureExtracted(ctx context.Context, article *models.Article, dedup *Deduplicator) (*models.ExtractedContent, error) {
	if article.Extracted != nil {
		return article.Extracted, nil
	}

	var existing models.ExtractedContent
	err := m.DB.Where("article_id = ?", article.ID).First(&existing).Error
	if err == nil {
		article.Extracted = &existing
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("extracted content lesen: %w", err)
	}

	html, err := m.Extractor.Fetch(ctx, article.URL)
	if err != nil {
		m.markFailed(article, err)
		return nil, fmt.Errorf("artikel laden: %w", err)
	}

	content, method, err := m.Extractor.Extract(html, article.URL)
	if err != nil {
		m.markFailed(article, err)
		return nil, fmt.Errorf("artikel extrahieren: %w", err)
	}

	hash := ContentHash(content)
	// Zweiter Dedup-Pfad: andere URL, gleicher Text.
	if dedup != nil && dedup.SeenContentHash(hash) {
		m.Logger.Debug("Inhalt ist Content-Duplikat", zap.String("url", article.URL))
		m.DB.Model(article).Updates(map[string]interface{}{
			"fetch_status": models.FetchSuccess,
		})
		return nil, nil
	}
	var hashTwin models.ExtractedContent
	twinErr := m.DB.Where("content_hash = ? AND article_id <> ?", hash, article.ID).First(&hashTwin).Error
	if twinErr == nil {
		m.Logger.Debug("Inhalt existiert bereits unter anderer URL", zap.String("url", article.URL))
		m.DB.Model(article).Updates(map[string]interface{}{
			"fetch_status": models.FetchSuccess,
		})
		return nil, nil
	}
	if !errors.Is(twinErr, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("content-hash prüfen: %w", twinErr)
	}

	language, langConfidence := DetectLanguage(content)

	extracted := models.ExtractedContent{
		ArticleID:        article.ID,
		Content:          content,
		ContentHash:      hash,
		Simhash:          int64(Simhash(content)),
		ExtractionMethod: method,
	}
	if langConfidence > 0.6 {
		extracted.Language = language
	}

	insert := m.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&extracted)
	if insert.Error != nil {
		return nil, fmt.Errorf("extracted content anlegen: %w", insert.Error)
	}
	if insert.RowsAffected == 0 {
		if err := m.DB.Where("article_id = ?", article.ID).First(&extracted).Error; err != nil {
			return nil, fmt.Errorf("extracted content nachlesen: %w", err)
		}
	}
	if dedup != nil {
		dedup.RememberContentHash(hash)
	}

	updates := map[string]interface{}{
		"fetch_status": models.FetchSuccess,
		"fetch_error":  "",
	}
	if extracted.Language != "" && article.Language == "" {
		updates["language"] = extracted.Language
	}
	if err := m.DB.Model(article).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("artikel aktualisieren: %w", err)
	}
	article.FetchStatus = models.FetchSuccess
	article.Extracted = &extracted
	return &extracted, nil
}

func (m *MonitorService) markFailed(article *models.Article, cause error) {
	msg := cause.Error()
	if len(msg) > 500 {
		msg = msg[:500]
	}
	if err := m.DB.Model(article).Updates(map[string]interface{}{
		"fetch_status": models.FetchFailed,
		"fetch_error":  msg,
	}).Error; err != nil {
		m.Logger.Error("Artikel konnte nicht als failed markiert werden", zap.Error(err))
	}
}

// enabledProviders schneidet global aktivierte Provider mit den
// Subject-Flags und der lokalen Verfügbarkeit.
func (m *MonitorService) enabledProviders(subject *models.Subject) []providers.Provider {
	var enabled []providers.Provider
	for _, p := range m.Providers {
		if subject.ProviderEnabled(p.Name()) && p.IsAvailable() {
			enabled = append(enabled, p)
		}
	}
	return enabled
}

// runWithRetry führt einen Job mit hartem Timeout und begrenzten
// Wiederholungen aus. Die Jobs selbst sind idempotent, ein wiederholter
// Versuch ist deshalb gefahrlos.
func (m *MonitorService) runWithRetry(ctx context.Context, job func(context.Context) (int, error)) (int, error) {
	attempts := m.Config.JobMaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	timeout := time.Duration(m.Config.JobTimeoutSec) * time.Second

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		jobCtx, cancel := context.WithTimeout(ctx, timeout)
		count, err := job(jobCtx)
		cancel()
		if err == nil {
			return count, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		m.Logger.Warn("Job fehlgeschlagen, wiederhole",
			zap.Int("attempt", attempt), zap.Error(err))
	}
	return 0, lastErr
}
