package services

import (
	"context"
	"director-watch/config"
	"director-watch/india"
	"director-watch/models"
	"strings"

	"go.uber.org/zap"
)

// Klassifikations-Keywords. Die Listen sind bewusst exakt gehalten und
// werden wortweise (case-insensitiv) gematcht.
var (
	negativeHighKeywords = []string{
		"arrested", "arrest", "fraud", "scam", "money laundering", "embezzlement",
		"raid", "raided", "custody", "convicted", "conviction", "chargesheet",
		"charge sheet", "fir", "criminal case", "bribery", "corruption",
		"insider trading", "default", "absconding", "extradition", "ponzi",
		"cheating case", "attachment of assets",
	}
	negativeMediumKeywords = []string{
		"investigation", "probe", "inquiry", "summons", "summoned", "notice",
		"show-cause", "show cause", "allegation", "alleged", "accused",
		"lawsuit", "sued", "penalty", "fine", "fined", "violation",
		"irregularities", "dispute", "resignation", "resigned", "ousted",
		"removed from board", "downgrade", "defaulted",
	}
	positiveKeywords = []string{
		"award", "awarded", "honoured", "honored", "felicitated", "recognition",
		"appointed", "appointment", "elevated", "promoted", "joins board",
		"new chairman", "new director", "padma", "achievement", "milestone",
		"philanthropy", "donation",
	}
	awardsSubKeywords = []string{
		"award", "awarded", "honoured", "honored", "felicitated", "recognition",
		"padma", "achievement",
	}
	financialKeywords = []string{
		"quarterly results", "earnings", "profit", "loss", "revenue", "ipo",
		"merger", "acquisition", "stake sale", "shareholding", "dividend",
		"buyback", "insolvency", "bankruptcy", "debt restructuring",
	}
	governanceKeywords = []string{
		"board meeting", "board of directors", "agm", "egm", "independent director",
		"audit committee", "shareholder", "proxy", "governance", "reappointed",
		"re-elected", "tenure", "succession",
	}
	governanceDisputeKeywords = []string{
		"boardroom battle", "proxy fight", "shareholder revolt", "governance lapse",
		"audit qualification", "whistleblower", "related party",
	}
	esgKeywords = []string{
		"protest", "strike", "environmental", "pollution", "controversy",
		"backlash", "boycott", "social media storm", "political", "communal",
		"land acquisition",
	}
	litigationSubKeywords = []string{
		"nclt", "nclat", "civil suit", "criminal case", "fir", "charge sheet",
		"chargesheet", "writ petition", "pil",
	}
)

// ClassificationResult ist das Ergebnis einer Klassifikation, egal ob
// heuristisch oder vom LLM.
type ClassificationResult struct {
	Sentiment      models.Sentiment
	Severity       models.Severity
	Category       models.Category
	SummaryBullets []string
	WhyItMatters   string
	Classifier     string
}

// Classifier klassifiziert Mentions zweistufig: erst das optionale LLM,
// dann immer die Heuristik als Rückfallebene.
type Classifier struct {
	Config *config.Config
	Logger *zap.Logger
	LLM    *LLMClient
}

// NewClassifier erstellt einen neuen Classifier.
func NewClassifier(cfg *config.Config, logger *zap.Logger, llm *LLMClient) *Classifier {
	return &Classifier{Config: cfg, Logger: logger, LLM: llm}
}

// Classify liefert immer ein Ergebnis. Ein LLM-Fehler fällt still auf
// die Heuristik zurück.
func (c *Classifier) Classify(ctx context.Context, title, snippet, content string) ClassificationResult {
	if c.Config.UseLLM && c.LLM != nil {
		result, err := c.LLM.Classify(ctx, title, snippet, content)
		if err == nil {
			return result
		}
		c.Logger.Warn("LLM-Klassifikation fehlgeschlagen, nutze Heuristik", zap.Error(err))
	}
	return c.ClassifyHeuristic(title, snippet, content)
}

// ClassifyHeuristic ist die regelbasierte Kaskade. Der erste passende
// Zweig gewinnt.
func (c *Classifier) ClassifyHeuristic(title, snippet, content string) ClassificationResult {
	text := strings.ToLower(title + "\n" + snippet + "\n" + content)

	regulatory := c.regulatoryKeywords()
	legal := c.legalKeywords()

	result := ClassificationResult{
		Sentiment:  models.SentimentNeutral,
		Severity:   models.SeverityLow,
		Category:   models.CategoryOther,
		Classifier: "heuristic",
	}

	switch {
	case containsAnyKeyword(text, negativeHighKeywords):
		result.Sentiment = models.SentimentNegative
		result.Severity = models.SeverityHigh
		result.Category = negativeCategory(text, regulatory, legal)
	case containsAnyKeyword(text, negativeMediumKeywords):
		result.Sentiment = models.SentimentNegative
		result.Severity = models.SeverityMedium
		result.Category = negativeCategory(text, regulatory, legal)
	case containsAnyKeyword(text, positiveKeywords):
		result.Sentiment = models.SentimentPositive
		result.Severity = models.SeverityLow
		switch {
		case containsAnyKeyword(text, awardsSubKeywords):
			result.Category = models.CategoryAwardsRecognition
		case containsAnyKeyword(text, governanceKeywords):
			result.Category = models.CategoryBoardAppointment
		default:
			result.Category = models.CategoryOther
		}
	default:
		// Nur-Kategorie-Kaskade, Sentiment bleibt neutral.
		switch {
		case containsAnyKeyword(text, regulatory):
			result.Category = models.CategoryRegulatoryEnforcement
		case containsAnyKeyword(text, legal):
			if containsAnyKeyword(text, litigationSubKeywords) {
				result.Category = models.CategoryLitigation
			} else {
				result.Category = models.CategoryLegalCourt
			}
		case containsAnyKeyword(text, financialKeywords):
			result.Category = models.CategoryFinancialCorporate
		case containsAnyKeyword(text, governanceKeywords):
			if containsAnyKeyword(text, governanceDisputeKeywords) {
				result.Category = models.CategoryCorporateGovernance
			} else {
				result.Category = models.CategoryBoardAppointment
			}
		case containsAnyKeyword(text, esgKeywords):
			result.Category = models.CategoryESGSocialPolitical
		}
	}

	result.SummaryBullets = ExtractiveSummary(content, snippet, title)
	result.WhyItMatters = rationale(result.Severity, result.Sentiment, result.Category)
	return result
}

// negativeCategory wählt die Kategorie für negative Treffer.
func negativeCategory(text string, regulatory, legal []string) models.Category {
	switch {
	case containsAnyKeyword(text, regulatory):
		return models.CategoryRegulatoryEnforcement
	case containsAnyKeyword(text, legal):
		if containsAnyKeyword(text, litigationSubKeywords) {
			return models.CategoryLitigation
		}
		return models.CategoryLegalCourt
	default:
		return models.CategoryPersonalReputation
	}
}

// regulatoryKeywords liefert das Regulatorik-Set, beim Indien-Profil
// inklusive der indischen Behörden.
func (c *Classifier) regulatoryKeywords() []string {
	base := []string{"regulator", "regulatory action", "enforcement", "sanction", "ban", "barred", "debarred"}
	if c.Config.CountryProfile == "IN" {
		return append(append([]string{}, india.RegulatoryKeywords...), base...)
	}
	return base
}

// legalKeywords liefert das Rechts-Set, analog zum Regulatorik-Set.
func (c *Classifier) legalKeywords() []string {
	base := []string{"court", "tribunal", "judge", "verdict", "hearing", "petition", "appeal", "injunction"}
	if c.Config.CountryProfile == "IN" {
		keywords := append(append([]string{}, india.LegalKeywords...), india.HindiLegalKeywords...)
		return append(keywords, base...)
	}
	return base
}

// containsAnyKeyword prüft auf Wortgrenzen-Treffer; Keywords mit
// Nicht-ASCII-Zeichen (z.B. Hindi) werden als Substring gematcht.
func containsAnyKeyword(lowerText string, keywords []string) bool {
	for _, keyword := range keywords {
		k := strings.ToLower(strings.TrimSpace(keyword))
		if k == "" {
			continue
		}
		if isASCII(k) {
			if containsWordLower(lowerText, k) {
				return true
			}
		} else if strings.Contains(lowerText, k) {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// containsWordLower sucht k in text mit Wortgrenzen, beide bereits
// kleingeschrieben.
func containsWordLower(text, k string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], k)
		if pos < 0 {
			return false
		}
		pos += idx
		before := pos == 0 || !isWordByte(text[pos-1])
		end := pos + len(k)
		after := end >= len(text) || !isWordByte(text[end])
		if before && after {
			return true
		}
		idx = pos + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// ExtractiveSummary liefert die ersten Sätze von Content, Snippet oder
// Titel als Bullets (maximal 6).
func ExtractiveSummary(content, snippet, title string) []string {
	source := content
	if strings.TrimSpace(source) == "" {
		source = snippet
	}
	if strings.TrimSpace(source) == "" {
		source = title
	}

	sentences := splitSentences(source)
	if len(sentences) == 0 {
		if t := strings.TrimSpace(title); t != "" {
			return []string{t}
		}
		return nil
	}
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}
	return sentences
}

func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		b.Reset()
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '।' {
			flush()
		}
	}
	flush()
	return sentences
}

// rationale liefert den festen Begründungstext je (Severity, Kategorie).
func rationale(severity models.Severity, sentiment models.Sentiment, category models.Category) string {
	switch {
	case severity == models.SeverityHigh && category == models.CategoryRegulatoryEnforcement:
		return "A regulator or enforcement agency has acted against the subject; immediate review recommended."
	case severity == models.SeverityHigh && (category == models.CategoryLegalCourt || category == models.CategoryLitigation):
		return "The subject is involved in serious legal proceedings; immediate review recommended."
	case severity == models.SeverityHigh:
		return "High-severity negative coverage of the subject; immediate review recommended."
	case severity == models.SeverityMedium:
		return "Negative coverage that may develop; keep the subject under observation."
	case sentiment == models.SentimentPositive:
		return "Positive coverage of the subject; no action needed."
	default:
		return "Routine coverage mentioning the subject; no action needed."
	}
}
