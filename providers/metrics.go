package providers

import "github.com/prometheus/client_golang/prometheus"

// SearchErrors zählt fehlgeschlagene Provider-Suchen pro Provider.
// Fehler werden von den Fetchern geschluckt; der Zähler ist die einzige
// Stelle, an der sie operativ sichtbar bleiben.
var SearchErrors *prometheus.CounterVec

func init() {
	SearchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_search_errors_total",
			Help: "Total number of provider searches that failed and returned no result.",
		},
		[]string{"provider"},
	)
	prometheus.MustRegister(SearchErrors)
}
