package services

import "github.com/prometheus/client_golang/prometheus"

var (
	articlesCreatedCounter prometheus.Counter
	mentionsCreatedCounter prometheus.Counter
	alertsSentCounter      prometheus.Counter
)

func init() {
	articlesCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_created_total",
			Help: "Total number of new articles added to the database.",
		},
	)
	mentionsCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mentions_created_total",
			Help: "Total number of new mentions created.",
		},
	)
	alertsSentCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_sent_total",
			Help: "Total number of alert mails sent.",
		},
	)
	prometheus.MustRegister(
		articlesCreatedCounter,
		mentionsCreatedCounter,
		alertsSentCounter,
	)
}
