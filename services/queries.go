package services

import (
	"director-watch/config"
	"director-watch/india"
	"director-watch/models"
	"fmt"
	"strings"
)

// Positive-/Anerkennungs-Keywords für die letzte Query.
var positiveQueryTerms = []string{"award", "appointed", "honoured", "recognition", "felicitated"}

// Generische Fallback-Begriffe, wenn kein Länderprofil greift.
var genericRiskTerms = []string{"fraud", "investigation", "lawsuit", "arrested", "regulator", "court"}

// QueryBuilder erzeugt aus einem Subject-Profil die Suchanfragen.
type QueryBuilder struct {
	Config *config.Config
}

// NewQueryBuilder erstellt einen neuen QueryBuilder.
func NewQueryBuilder(cfg *config.Config) *QueryBuilder {
	return &QueryBuilder{Config: cfg}
}

// BuildQueries liefert maximal 6 Query-Strings in fester Reihenfolge:
// Recall-Query, Kontext-Query, Regulatorik, Recht, generischer Fallback,
// Positiv-Query. Für dasselbe Subject ist die Ausgabe deterministisch.
func (b *QueryBuilder) BuildQueries(subject *models.Subject) []string {
	name := bestNamePattern(subject)
	if name == "" {
		return nil
	}
	quoted := fmt.Sprintf("%q", name)

	var queries []string
	queries = append(queries, quoted)

	// Query 2 nutzt nur die vom Operator gepflegten Kontextbegriffe plus
	// Firmennamen, nicht das Keyword-Profil.
	contextTerms := append([]string{}, subject.ContextTerms...)
	if subject.CompanyName != "" {
		contextTerms = append(contextTerms, subject.CompanyName)
	}
	if len(contextTerms) > 0 {
		if len(contextTerms) > 3 {
			contextTerms = contextTerms[:3]
		}
		queries = append(queries, quoted+" AND ("+orJoin(contextTerms)+")")
	}

	regulatory, legal := b.riskTerms(subject)
	hasProfile := len(regulatory) > 0 || len(legal) > 0
	if len(regulatory) > 0 {
		if len(regulatory) > 8 {
			regulatory = regulatory[:8]
		}
		queries = append(queries, quoted+" AND ("+orJoin(regulatory)+")")
	}
	if len(legal) > 0 {
		if len(legal) > 6 {
			legal = legal[:6]
		}
		queries = append(queries, quoted+" AND ("+orJoin(legal)+")")
	}
	if !hasProfile {
		queries = append(queries, quoted+" AND ("+orJoin(genericRiskTerms)+")")
	}

	queries = append(queries, quoted+" AND ("+orJoin(positiveQueryTerms)+")")

	if len(queries) > 6 {
		queries = queries[:6]
	}
	return queries
}

// riskTerms liefert das Regulatorik-/Rechts-Profil des Subjects. Ohne
// eigenes Profil greifen die Länder-Defaults (derzeit nur Indien).
func (b *QueryBuilder) riskTerms(subject *models.Subject) (regulatory, legal []string) {
	profile := subject.ContextProfile.Data()
	regulatory = profile.RegulatoryTerms
	legal = profile.LegalTerms
	if len(regulatory) == 0 && len(legal) == 0 && b.Config.CountryProfile == "IN" {
		regulatory, legal, _ = india.DefaultContextTerms()
	}
	return regulatory, legal
}

// bestNamePattern wählt die eine Namensform für Queries: der volle Name,
// normalisiert, Fallback auf den ersten Alias.
func bestNamePattern(subject *models.Subject) string {
	if name := india.NormalizeName(subject.FullName); name != "" {
		return name
	}
	for _, alias := range subject.Aliases {
		if name := india.NormalizeName(alias); name != "" {
			return name
		}
	}
	return ""
}

func orJoin(terms []string) string {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		quoted = append(quoted, fmt.Sprintf("%q", t))
	}
	return strings.Join(quoted, " OR ")
}
