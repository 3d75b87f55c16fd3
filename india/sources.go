package india

import "strings"

// Quell-Typen nach redaktioneller Verlässlichkeit.
const (
	SourceMainstreamNational = "mainstream_national"
	SourceCredibleRegional   = "credible_regional"
	SourcePartisan           = "partisan"
	SourceTabloid            = "tabloid"
	SourceUnknown            = "unknown"
)

// TrustScores bildet Quell-Typen auf Basis-Vertrauenswerte (0-100) ab.
var TrustScores = map[string]int{
	SourceMainstreamNational: 85,
	SourceCredibleRegional:   70,
	SourcePartisan:           35,
	SourceTabloid:            25,
	SourceUnknown:            40,
}

var mainstreamNationalDomains = []string{
	"thehindu.com", "timesofindia.indiatimes.com", "indianexpress.com",
	"hindustantimes.com", "livemint.com", "economictimes.indiatimes.com",
	"business-standard.com", "ndtv.com", "moneycontrol.com",
	"financialexpress.com", "businesstoday.in", "thehindubusinessline.com",
	"reuters.com", "bloomberg.com", "cnbctv18.com", "news18.com",
	"indiatoday.in", "theprint.in", "scroll.in", "thewire.in",
	"bbc.com", "bbc.co.uk",
}

var credibleRegionalDomains = []string{
	"deccanherald.com", "deccanchronicle.com", "tribuneindia.com",
	"telegraphindia.com", "newindianexpress.com", "dnaindia.com",
	"freepressjournal.in", "mid-day.com", "outlookindia.com",
	"eenadu.net", "dinamalar.com", "mathrubhumi.com", "anandabazar.com",
	"lokmat.com", "amarujala.com", "jagran.com", "bhaskar.com",
	"loksatta.com", "dainikbhaskar.com",
}

var partisanDomains = []string{
	"opindia.com", "swarajyamag.com", "altnews.in", "newslaundry.com",
	"rightlog.in", "nationalheraldindia.com",
}

var tabloidDomains = []string{
	"mumbaimirror.indiatimes.com", "bangaloremirror.indiatimes.com",
	"spotboye.com", "bollywoodlife.com", "koimoi.com",
}

// ClassifySource ordnet einen Quellen-Host einem Quell-Typ samt
// Vertrauenswert zu. Der Host darf mit oder ohne Schema übergeben werden.
func ClassifySource(host string) (sourceType string, trustScore int) {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimPrefix(host, "www.")
	if idx := strings.IndexByte(host, '/'); idx >= 0 {
		host = host[:idx]
	}

	match := func(domains []string) bool {
		for _, d := range domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return true
			}
		}
		return false
	}

	switch {
	case match(mainstreamNationalDomains):
		sourceType = SourceMainstreamNational
	case match(credibleRegionalDomains):
		sourceType = SourceCredibleRegional
	case match(partisanDomains):
		sourceType = SourcePartisan
	case match(tabloidDomains):
		sourceType = SourceTabloid
	default:
		sourceType = SourceUnknown
	}
	return sourceType, TrustScores[sourceType]
}
