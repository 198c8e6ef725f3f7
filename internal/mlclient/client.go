// Package mlclient talks to the ML microservice that scores sentiment and
// extracts named entities.
package mlclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/jengzang/sentiment-dashboard/internal/models"
)

// MaxTextLength is the longest text forwarded to the ML service, in runes
const MaxTextLength = 5000

// Client calls the ML service over HTTP
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client for the service at baseURL
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type textRequest struct {
	Text string `json:"text"`
}

type sentimentResponse struct {
	Sentiment  string   `json:"sentiment"`
	Confidence *float64 `json:"confidence"`
}

type entitiesResponse struct {
	Entities []models.ExtractedEntity `json:"entities"`
}

// Sentiment scores text. Blank text and service failures yield neutral/0.5;
// failures are logged, never returned.
func (c *Client) Sentiment(ctx context.Context, text string) models.SentimentResult {
	fallback := models.SentimentResult{Sentiment: models.SentimentNeutral, Confidence: 0.5}
	if strings.TrimSpace(text) == "" {
		return fallback
	}

	var resp sentimentResponse
	if err := c.post(ctx, "/ml/analyze-sentiment", strings.TrimSpace(truncate(text)), &resp); err != nil {
		c.logger.Warn("ML sentiment analysis failed", "error", err)
		return fallback
	}

	out := fallback
	if resp.Sentiment != "" {
		out.Sentiment = strings.ToLower(resp.Sentiment)
	}
	if resp.Confidence != nil {
		out.Confidence = *resp.Confidence
	}
	return out
}

// Entities extracts named entities from text. Labels are normalized to the
// dashboard's label set. Failures yield no entities.
func (c *Client) Entities(ctx context.Context, text string) []models.ExtractedEntity {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var resp entitiesResponse
	if err := c.post(ctx, "/ml/extract-entities", truncate(text), &resp); err != nil {
		c.logger.Warn("ML entity extraction failed", "error", err)
		return nil
	}

	out := make([]models.ExtractedEntity, 0, len(resp.Entities))
	for _, e := range resp.Entities {
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		e.Label = NormalizeLabel(e.Label)
		out = append(out, e)
	}
	return out
}

func (c *Client) post(ctx context.Context, path, text string, dst interface{}) error {
	body, err := json.Marshal(textRequest{Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("%s returned %d: %s", path, res.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxTextLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxTextLength])
}

var labelMapping = map[string]string{
	"PERSON":      models.LabelPerson,
	"PER":         models.LabelPerson,
	"ORG":         models.LabelOrganization,
	"GPE":         models.LabelLocation,
	"LOC":         models.LabelLocation,
	"MONEY":       models.LabelMoney,
	"DATE":        models.LabelDate,
	"TIME":        models.LabelTime,
	"PERCENT":     models.LabelPercent,
	"PRODUCT":     models.LabelProduct,
	"EVENT":       models.LabelEvent,
	"WORK_OF_ART": models.LabelWorkOfArt,
	"LAW":         models.LabelLaw,
	"LANGUAGE":    models.LabelLanguage,
}

// NormalizeLabel maps raw NER labels onto the dashboard labels.
// Labels already in the dashboard set, or unknown, pass through upper-cased.
func NormalizeLabel(label string) string {
	l := strings.ToUpper(strings.TrimSpace(label))
	if mapped, ok := labelMapping[l]; ok {
		return mapped
	}
	return l
}
