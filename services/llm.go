package services

import (
	"bytes"
	"context"
	"director-watch/config"
	"director-watch/models"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxLLMContentChars begrenzt den Artikeltext im Prompt.
const maxLLMContentChars = 4000

var llmClient = &http.Client{Timeout: 90 * time.Second}

// LLMClient spricht einen OpenAI-kompatiblen Chat-Completions-Endpunkt an.
type LLMClient struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewLLMClient erstellt einen neuen LLMClient.
func NewLLMClient(cfg *config.Config, logger *zap.Logger) *LLMClient {
	return &LLMClient{Config: cfg, Logger: logger}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// llmVerdict ist das erwartete JSON-Objekt in der Modellantwort.
type llmVerdict struct {
	Sentiment    string   `json:"sentiment"`
	Severity     string   `json:"severity"`
	Category     string   `json:"category"`
	Summary      []string `json:"summary"`
	WhyItMatters string   `json:"why_it_matters"`
}

const systemPrompt = `You are a reputation-monitoring analyst. Classify the news article about a company director. Respond with ONLY a JSON object:
{"sentiment": "positive|negative|neutral|mixed", "severity": "low|medium|high", "category": "regulatory_enforcement|legal_court|litigation|financial_corporate|governance_board_appointment|corporate_governance|esg_social_political|awards_recognition|personal_reputation|other", "summary": ["bullet", ...], "why_it_matters": "one sentence"}`

// Classify ruft das Modell auf. Jeder Fehler (Transport, Status,
// unreparierbares JSON) geht als error zurück, der Aufrufer fällt dann
// auf die Heuristik zurück.
func (l *LLMClient) Classify(ctx context.Context, title, snippet, content string) (ClassificationResult, error) {
	if l.Config.LLMAPIKey == "" {
		return ClassificationResult{}, fmt.Errorf("kein LLM-API-Key konfiguriert")
	}

	truncated := content
	if runes := []rune(truncated); len(runes) > maxLLMContentChars {
		truncated = string(runes[:maxLLMContentChars])
	}

	userPrompt := fmt.Sprintf("Title: %s\n\nSnippet: %s\n\nContent: %s", title, snippet, truncated)
	payload, err := json.Marshal(chatRequest{
		Model: l.Config.LLMModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return ClassificationResult{}, fmt.Errorf("llm request serialisieren: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.Config.LLMEndpoint, bytes.NewReader(payload))
	if err != nil {
		return ClassificationResult{}, fmt.Errorf("llm request erstellen: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+l.Config.LLMAPIKey)

	resp, err := llmClient.Do(req)
	if err != nil {
		return ClassificationResult{}, fmt.Errorf("llm aufruf: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ClassificationResult{}, fmt.Errorf("llm status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return ClassificationResult{}, fmt.Errorf("llm antwort dekodieren: %w", err)
	}
	if len(chat.Choices) == 0 {
		return ClassificationResult{}, fmt.Errorf("llm antwort ohne choices")
	}

	verdict, err := ParseVerdict(chat.Choices[0].Message.Content)
	if err != nil {
		return ClassificationResult{}, err
	}

	result := ClassificationResult{
		Sentiment:      models.ParseSentiment(verdict.Sentiment),
		Severity:       models.ParseSeverity(verdict.Severity),
		Category:       models.ParseCategory(verdict.Category),
		SummaryBullets: verdict.Summary,
		WhyItMatters:   verdict.WhyItMatters,
		Classifier:     "llm",
	}
	if len(result.SummaryBullets) > 6 {
		result.SummaryBullets = result.SummaryBullets[:6]
	}
	return result, nil
}

var (
	fencedBlockRe  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	embeddedJSONRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseVerdict parst die Modellantwort in drei Stufen: direkt, aus
// einem Markdown-Codeblock, per Regex aus umgebendem Text.
func ParseVerdict(raw string) (*llmVerdict, error) {
	raw = strings.TrimSpace(raw)

	var verdict llmVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err == nil {
		return &verdict, nil
	}

	if match := fencedBlockRe.FindStringSubmatch(raw); match != nil {
		if err := json.Unmarshal([]byte(match[1]), &verdict); err == nil {
			return &verdict, nil
		}
	}

	if match := embeddedJSONRe.FindString(raw); match != "" {
		if err := json.Unmarshal([]byte(match), &verdict); err == nil {
			return &verdict, nil
		}
	}

	return nil, fmt.Errorf("llm antwort enthält kein parsbares JSON")
}
