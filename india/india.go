package india

import (
	"regexp"
	"strings"
)

// RegulatoryKeywords sind indische Regulierungs-/Enforcement-Begriffe.
var RegulatoryKeywords = []string{
	"SEBI", "RBI", "ED", "CBI", "SFIO", "NCLT", "NCLAT", "MCA",
	"IT department", "Income Tax", "GST", "DRI", "SFIO investigation",
	"Ministry of Corporate Affairs", "MCA order", "SEBI order",
	"RBI action", "Enforcement Directorate", "Central Bureau of Investigation",
	"Serious Fraud Investigation Office", "National Company Law Tribunal",
	"National Company Law Appellate Tribunal", "Income Tax Department",
}

// LegalKeywords sind indische Gerichts-/Verfahrensbegriffe.
var LegalKeywords = []string{
	"Supreme Court", "High Court", "District Court", "Session Court",
	"FIR registered", "charge sheet", "show-cause notice", "attachment of assets",
	"arrest warrant", "bail", "prosecution", "litigation", "PIL", "writ petition",
	"contempt of court", "stay order", "interim order", "final order",
}

// HindiLegalKeywords sind gebräuchliche Hindi-Begriffe im Rechtskontext.
var HindiLegalKeywords = []string{
	"गिरफ्तार", // arrested
	"जांच",     // investigation
	"धोखाधड़ी", // fraud
	"अपराध",    // crime
	"नोटिस",    // notice
	"अदालत",    // court
}

// Honorifics sind gebräuchliche indische Anreden.
var Honorifics = []string{
	"Shri", "Shrimati", "Smt", "Dr", "Dr.", "Prof", "Prof.", "Mr", "Mr.", "Mrs", "Mrs.",
	"Ms", "Ms.", "Sir", "Madam", "Justice", "Hon'ble", "Honorable",
}

// States bildet Kürzel auf Bundesstaaten und Unionsterritorien ab.
var States = map[string]string{
	"AP": "Andhra Pradesh", "AR": "Arunachal Pradesh", "AS": "Assam",
	"BR": "Bihar", "CT": "Chhattisgarh", "GA": "Goa", "GJ": "Gujarat",
	"HR": "Haryana", "HP": "Himachal Pradesh", "JK": "Jammu and Kashmir",
	"JH": "Jharkhand", "KA": "Karnataka", "KL": "Kerala", "MP": "Madhya Pradesh",
	"MH": "Maharashtra", "MN": "Manipur", "ML": "Meghalaya", "MZ": "Mizoram",
	"NL": "Nagaland", "OR": "Odisha", "PB": "Punjab", "RJ": "Rajasthan",
	"SK": "Sikkim", "TN": "Tamil Nadu", "TG": "Telangana", "TR": "Tripura",
	"UP": "Uttar Pradesh", "UK": "Uttarakhand", "WB": "West Bengal",
	"AN": "Andaman and Nicobar Islands", "CH": "Chandigarh",
	"DN": "Dadra and Nagar Haveli and Daman and Diu", "DL": "Delhi",
	"LD": "Ladakh", "LA": "Lakshadweep", "PY": "Puducherry",
}

// Languages sind die unterstützten indischen Sprachen (ISO 639-1).
var Languages = map[string]string{
	"en": "English", "hi": "Hindi", "te": "Telugu", "ta": "Tamil",
	"mr": "Marathi", "gu": "Gujarati", "kn": "Kannada", "ml": "Malayalam",
	"or": "Odia", "pa": "Punjabi", "as": "Assamese", "bn": "Bengali",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeName entfernt Anreden und überflüssige Leerzeichen.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	for _, honorific := range Honorifics {
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(honorific)+" ") {
			name = strings.TrimSpace(name[len(honorific):])
			break
		}
	}
	return whitespaceRe.ReplaceAllString(name, " ")
}

// GenerateNamePatterns expandiert einen Namen in matchbare Oberflächenformen:
// Anreden hinzugefügt/entfernt, Initialen, strukturierte Kombinationen, Aliase.
func GenerateNamePatterns(fullName, firstName, middleNames, lastName string, aliases []string) []string {
	variants := []string{fullName}
	variants = append(variants, aliases...)

	if firstName != "" && lastName != "" {
		variants = append(variants, firstName+" "+lastName)
		if middleNames != "" {
			variants = append(variants, firstName+" "+middleNames+" "+lastName)
			var initials []string
			for _, m := range strings.Fields(middleNames) {
				initials = append(initials, string([]rune(m)[0])+".")
			}
			variants = append(variants, firstName+" "+strings.Join(initials, "")+" "+lastName)
		}
		variants = append(variants, string([]rune(firstName)[0])+". "+lastName)
	}

	seen := make(map[string]struct{})
	var patterns []string
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p == "" {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		patterns = append(patterns, p)
	}

	for _, name := range variants {
		add(name)
		add(NormalizeName(name))
		if !hasHonorific(name) {
			for _, honorific := range []string{"Shri", "Dr.", "Mr."} {
				add(honorific + " " + name)
			}
		}
	}
	return patterns
}

func hasHonorific(name string) bool {
	lower := strings.ToLower(name)
	for _, h := range Honorifics {
		if strings.HasPrefix(lower, strings.ToLower(h)+" ") {
			return true
		}
	}
	return false
}

// DefaultContextTerms liefert das Default-Keyword-Profil für Subjects.
func DefaultContextTerms() (regulatory, legal, hindiLegal []string) {
	return append([]string{}, RegulatoryKeywords...),
		append([]string{}, LegalKeywords...),
		append([]string{}, HindiLegalKeywords...)
}

// IsIndicLanguage prüft, ob der Sprachcode eine indische Sprache (außer
// Englisch) bezeichnet.
func IsIndicLanguage(code string) bool {
	_, ok := Languages[code]
	return ok && code != "en"
}

// StateName löst ein Bundesstaat-Kürzel auf (Fallback: Eingabe unverändert).
func StateName(code string) string {
	if name, ok := States[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}
