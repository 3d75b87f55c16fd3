package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
// Sie wird einmal beim Prozessstart geladen und danach nie mehr verändert.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4280"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Länderprofil steuert Query-Aufbau, Keyword-Sets und Quellen-Einstufung.
	CountryProfile string `envconfig:"COUNTRY_PROFILE" default:"IN"`

	// Provider-Konfiguration
	EnabledProviders string `envconfig:"ENABLED_PROVIDERS" default:"gdelt,googlenews"`
	BingNewsKey      string `envconfig:"BING_NEWS_KEY"`
	SerpAPIKey       string `envconfig:"SERPAPI_KEY"`
	NewsDataKey      string `envconfig:"NEWSDATA_API_KEY"`

	MaxResultsPerQuery    int `envconfig:"MAX_RESULTS_PER_QUERY" default:"50"`
	MaxArticlesPerSubject int `envconfig:"MAX_ARTICLES_PER_SUBJECT" default:"20"`
	DedupWindowDays       int `envconfig:"DEDUP_WINDOW_DAYS" default:"7"`

	// Fetch/Extract
	ArticleFetchTimeoutSec int `envconfig:"ARTICLE_FETCH_TIMEOUT" default:"30"`
	ArticleFetchRetries    int `envconfig:"ARTICLE_FETCH_RETRIES" default:"3"`

	// Job-Ausführung
	JobTimeoutSec  int `envconfig:"JOB_TIMEOUT_SEC" default:"120"`
	JobMaxAttempts int `envconfig:"JOB_MAX_ATTEMPTS" default:"3"`
	SubjectWorkers int `envconfig:"SUBJECT_WORKERS" default:"3"`
	ArticleWorkers int `envconfig:"ARTICLE_WORKERS" default:"5"`

	// Klassifikation
	UseLLM               bool    `envconfig:"USE_LLM" default:"false"`
	LLMEndpoint          string  `envconfig:"LLM_ENDPOINT" default:"https://api.openai.com/v1/chat/completions"`
	LLMAPIKey            string  `envconfig:"LLM_API_KEY"`
	LLMModel             string  `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	MinConfidence        float64 `envconfig:"MIN_CONFIDENCE" default:"0.3"`
	AlertConfidenceFloor float64 `envconfig:"CONFIDENCE_THRESHOLD_ALERT" default:"0.75"`

	// E-Mail-Benachrichtigung
	SMTPHost        string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort        int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser        string `envconfig:"SMTP_USER"`
	SMTPPass        string `envconfig:"SMTP_PASS"`
	FromEmail       string `envconfig:"FROM_EMAIL" default:"noreply@example.com"`
	AlertRecipients string `envconfig:"ALERT_RECIPIENTS"`

	// Report-Artefakte (optional S3)
	S3Key    string `envconfig:"REPORT_S3_KEY"`
	S3Secret string `envconfig:"REPORT_S3_SECRET"`
	S3URL    string `envconfig:"REPORT_S3_URL"`
	S3Region string `envconfig:"REPORT_S3_REGION" default:"eu-central-1"`
	S3Bucket string `envconfig:"REPORT_S3_BUCKET"`

	// Zeitpläne
	MonitorCronSchedule string `envconfig:"MONITOR_CRON_SCHEDULE" default:"30 7 * * *"`
	ReportCronSchedule  string `envconfig:"REPORT_CRON_SCHEDULE" default:"0 8 * * *"`
	CleanupCronSchedule string `envconfig:"CLEANUP_CRON_SCHEDULE" default:"0 3 * * 0"`

	DataRetentionDays int `envconfig:"DATA_RETENTION_DAYS" default:"365"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// EnabledProviderNames gibt die Liste der global aktivierten Provider zurück.
func (c *Config) EnabledProviderNames() []string {
	var names []string
	for _, name := range strings.Split(c.EnabledProviders, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// AlertRecipientList gibt die Empfänger für Sofort-Alerts zurück.
func (c *Config) AlertRecipientList() []string {
	var out []string
	for _, r := range strings.Split(c.AlertRecipients, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// S3Configured meldet, ob Report-Artefakte nach S3 hochgeladen werden sollen.
func (c *Config) S3Configured() bool {
	return c.S3URL != "" && c.S3Key != "" && c.S3Secret != "" && c.S3Bucket != ""
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
