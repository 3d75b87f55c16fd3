package services

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Wir laden nur die Sprachen, die in indischen Nachrichtenquellen
// vorkommen; das hält den Detector-Speicher klein.
func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English, lingua.Hindi, lingua.Tamil, lingua.Telugu,
				lingua.Marathi, lingua.Gujarati, lingua.Bengali, lingua.Punjabi,
			).
			Build()
	})
	return detector
}

// DetectLanguage erkennt die Sprache eines Texts und liefert den
// ISO-639-1-Code plus Konfidenz. Zu kurze oder unerkennbare Texte
// fallen auf "en"/0.5 zurück.
func DetectLanguage(text string) (code string, confidence float64) {
	sample := strings.TrimSpace(text)
	if len([]rune(sample)) > 2000 {
		sample = string([]rune(sample)[:2000])
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < 6 {
		return "en", 0.5
	}

	// Schrift-Heuristik zuerst: eindeutige indische Schriften brauchen
	// keinen statistischen Detector.
	if code := detectByScript(sample); code != "" {
		return code, 0.9
	}

	language, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return "en", 0.5
	}
	code = strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return "en", 0.5
	}
	confidence = getDetector().ComputeLanguageConfidence(sample, language)
	return code, confidence
}

// detectByScript ordnet Texte mit überwiegend indischer Schrift direkt zu.
func detectByScript(sample string) string {
	counts := map[string]int{}
	total := 0
	for _, r := range sample {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		switch {
		case unicode.Is(unicode.Devanagari, r):
			counts["hi"]++
		case unicode.Is(unicode.Tamil, r):
			counts["ta"]++
		case unicode.Is(unicode.Telugu, r):
			counts["te"]++
		case unicode.Is(unicode.Gujarati, r):
			counts["gu"]++
		case unicode.Is(unicode.Kannada, r):
			counts["kn"]++
		case unicode.Is(unicode.Malayalam, r):
			counts["ml"]++
		case unicode.Is(unicode.Bengali, r):
			counts["bn"]++
		case unicode.Is(unicode.Gurmukhi, r):
			counts["pa"]++
		case unicode.Is(unicode.Oriya, r):
			counts["or"]++
		}
	}
	if total == 0 {
		return ""
	}
	for code, n := range counts {
		if float64(n)/float64(total) > 0.5 {
			return code
		}
	}
	return ""
}
