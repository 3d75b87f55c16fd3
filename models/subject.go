package models

import (
	"time"

	"gorm.io/datatypes"
)

// ContextProfile enthält vorab berechnete, länderspezifische Keyword-Sets
// für einen Subject (wird beim Anlegen automatisch befüllt).
type ContextProfile struct {
	RegulatoryTerms []string `json:"regulatory_terms"`
	LegalTerms      []string `json:"legal_terms"`
	HindiLegalTerms []string `json:"hindi_legal_terms,omitempty"`
}

// Subject repräsentiert eine überwachte Person (z.B. ein Board-Mitglied).
// Die Pipeline liest Subjects nur; gepflegt werden sie von Operatoren.
type Subject struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FullName    string `json:"full_name" gorm:"size:255;not null;index"`
	FirstName   string `json:"first_name,omitempty" gorm:"size:100"`
	MiddleNames string `json:"middle_names,omitempty" gorm:"size:200"`
	LastName    string `json:"last_name,omitempty" gorm:"size:100"`

	Aliases       datatypes.JSONSlice[string] `json:"aliases"`
	ContextTerms  datatypes.JSONSlice[string] `json:"context_terms"`
	NegativeTerms datatypes.JSONSlice[string] `json:"negative_terms"`

	// Firmen-Metadaten fließen als Kontextbegriffe in Scoring und Queries ein.
	CompanyName     string `json:"company_name,omitempty" gorm:"size:255"`
	CompanyIndustry string `json:"company_industry,omitempty" gorm:"size:100"`
	ListedExchange  string `json:"listed_exchange,omitempty" gorm:"size:50"`
	HQState         string `json:"hq_state,omitempty" gorm:"size:100"`
	HQCity          string `json:"hq_city,omitempty" gorm:"size:100"`

	ContextProfile datatypes.JSONType[ContextProfile] `json:"context_profile"`

	// Provider-Flags pro Subject; werden mit den global aktivierten
	// Providern geschnitten.
	GDELTEnabled      bool `json:"provider_gdelt_enabled" gorm:"default:true"`
	BingEnabled       bool `json:"provider_bing_enabled" gorm:"default:true"`
	SerpAPIEnabled    bool `json:"provider_serpapi_enabled" gorm:"default:false"`
	NewsDataEnabled   bool `json:"provider_newsdata_enabled" gorm:"default:false"`
	GoogleNewsEnabled bool `json:"provider_googlenews_enabled" gorm:"default:true"`

	IsActive bool `json:"is_active" gorm:"default:true;index"`

	Mentions []Mention `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Subject) TableName() string {
	return "subjects"
}

// AllNames liefert Vollname, Aliase und strukturierte Namenskombinationen.
func (s *Subject) AllNames() []string {
	names := []string{s.FullName}
	names = append(names, s.Aliases...)
	if s.FirstName != "" && s.LastName != "" {
		names = append(names, s.FirstName+" "+s.LastName)
		if s.MiddleNames != "" {
			names = append(names, s.FirstName+" "+s.MiddleNames+" "+s.LastName)
		}
	}
	if s.LastName != "" && s.FirstName == "" {
		names = append(names, s.LastName)
	}
	return names
}

// AllContextTerms liefert Kontextbegriffe inkl. Profil- und Firmenbegriffen.
func (s *Subject) AllContextTerms() []string {
	terms := append([]string{}, s.ContextTerms...)
	profile := s.ContextProfile.Data()
	terms = append(terms, profile.RegulatoryTerms...)
	terms = append(terms, profile.LegalTerms...)
	if s.CompanyName != "" {
		terms = append(terms, s.CompanyName)
	}
	if s.CompanyIndustry != "" {
		terms = append(terms, s.CompanyIndustry)
	}
	if s.ListedExchange != "" {
		terms = append(terms, s.ListedExchange)
	}
	return terms
}

// AllNegativeTerms liefert die Ausschlussbegriffe des Subjects.
func (s *Subject) AllNegativeTerms() []string {
	return s.NegativeTerms
}

// ProviderEnabled prüft das Subject-Flag für einen Provider-Namen.
func (s *Subject) ProviderEnabled(name string) bool {
	switch name {
	case "gdelt":
		return s.GDELTEnabled
	case "bingnews":
		return s.BingEnabled
	case "serpapi":
		return s.SerpAPIEnabled
	case "newsdata":
		return s.NewsDataEnabled
	case "googlenews":
		return s.GoogleNewsEnabled
	default:
		return false
	}
}
