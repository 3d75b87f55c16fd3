package providers

import (
	"context"
	"director-watch/models"
	"time"
)

// QuerySpec beschreibt eine einzelne Suchanfrage an einen Provider.
type QuerySpec struct {
	Query      string
	MaxResults int
	DateFrom   *time.Time
	DateTo     *time.Time

	Language string // ISO 639-1
	Country  string // ISO 3166-1 alpha-2
	State    string
	District string
	City     string
}

// Provider ist das Interface, das jeder Such-Provider (z.B. GDELT, Bing News)
// implementieren muss.
//
// Search darf niemals einen Fehler an den Aufrufer durchreichen: Transport-,
// Auth- oder Parse-Fehler werden geloggt und liefern eine leere Liste.
// IsAvailable spiegelt nur die lokale Konfiguration wider (API-Key vorhanden),
// nicht die Erreichbarkeit des Backends.
type Provider interface {
	// Search führt eine Suche aus und gibt standardisierte Candidates zurück.
	Search(ctx context.Context, spec QuerySpec) []models.Candidate

	// IsAvailable prüft, ob der Provider konfiguriert ist.
	IsAvailable() bool

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "gdelt").
	Name() string
}
