package services

import (
	"director-watch/config"
	"director-watch/india"
	"director-watch/models"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// LocationHints trägt die Geo-Tags eines Artikels ins Scoring.
type LocationHints struct {
	State string
	City  string
}

// Resolver entscheidet, ob und wie sicher ein Artikel von einem Subject
// handelt.
type Resolver struct {
	Config *config.Config
	Logger *zap.Logger

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewResolver erstellt einen neuen Resolver.
func NewResolver(cfg *config.Config, logger *zap.Logger) *Resolver {
	return &Resolver{
		Config:   cfg,
		Logger:   logger,
		patterns: make(map[string]*regexp.Regexp),
	}
}

// ComputeConfidence berechnet den Score in [0,1] für ein Subject gegen
// Titel, Snippet und Inhalt. Negative Begriffe wirken als sofortiges
// Veto (0.0).
func (r *Resolver) ComputeConfidence(subject *models.Subject, title, snippet, content string, hints LocationHints) float64 {
	combined := title + "\n" + snippet + "\n" + content

	for _, term := range subject.AllNegativeTerms() {
		if r.containsWord(combined, term) {
			return 0.0
		}
	}

	patterns := india.GenerateNamePatterns(
		subject.FullName, subject.FirstName, subject.MiddleNames, subject.LastName,
		subject.Aliases)

	score := 0.0
	nameFound := false
	matchAny := func(text string) bool {
		for _, p := range patterns {
			if r.containsWord(text, p) {
				return true
			}
		}
		return false
	}

	if matchAny(title) {
		score += 0.5
		nameFound = true
	}
	if matchAny(snippet) {
		score += 0.3
		nameFound = true
	}
	if matchAny(content) {
		score += 0.2
		nameFound = true
	}

	contextScore := 0.0
	for _, term := range subject.AllContextTerms() {
		if r.containsWord(combined, term) {
			contextScore += 0.1
			if contextScore >= 0.3 {
				contextScore = 0.3
				break
			}
		}
	}
	score += contextScore

	if subject.HQState != "" && hints.State != "" &&
		strings.EqualFold(india.StateName(subject.HQState), india.StateName(hints.State)) {
		score += 0.1
	}
	if subject.HQCity != "" && hints.City != "" && strings.EqualFold(subject.HQCity, hints.City) {
		score += 0.05
	}

	// Kontext- und Ortstreffer allein reichen nicht: ohne Namensfund
	// unterhalb der Schwelle wird der Score verworfen.
	if score < 0.3 && !nameFound {
		return 0.0
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Resolve wertet alle Subjects aus und liefert das mit dem höchsten
// Score oberhalb der Mindestschwelle. Bei Gleichstand gewinnt das zuerst
// gesehene Subject (strikter >-Vergleich).
func (r *Resolver) Resolve(subjects []models.Subject, title, snippet, content string, hints LocationHints) (*models.Subject, float64) {
	var best *models.Subject
	bestScore := 0.0
	for i := range subjects {
		subject := &subjects[i]
		if !subject.IsActive {
			continue
		}
		score := r.ComputeConfidence(subject, title, snippet, content, hints)
		if score >= r.Config.MinConfidence && score > bestScore {
			best = subject
			bestScore = score
		}
	}
	return best, bestScore
}

// containsWord prüft case-insensitiv auf Wortgrenzen-Treffer. Die
// kompilierten Patterns werden gecacht.
func (r *Resolver) containsWord(text, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" || text == "" {
		return false
	}

	key := strings.ToLower(term)
	r.mu.Lock()
	re, ok := r.patterns[key]
	if !ok {
		re = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		r.patterns[key] = re
	}
	r.mu.Unlock()

	return re.MatchString(text)
}
