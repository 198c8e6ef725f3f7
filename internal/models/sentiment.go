package models

import "time"

// Sentiment labels returned by the ML service
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Sentiment trends over a comment timeline
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// SentimentResult is the ML service verdict for a single text
type SentimentResult struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"` // 0-1
}

// TicketSentiment is the aggregated verdict for a ticket
type TicketSentiment struct {
	TicketID   string  `json:"ticket_id" db:"ticket_id"`
	Sentiment  string  `json:"sentiment" db:"sentiment_label"`
	Score      float64 `json:"score" db:"sentiment_score"` // -1..1
	Confidence float64 `json:"confidence" db:"confidence"`
	Trend      string  `json:"trend" db:"trend"`
	Strategy   string  `json:"strategy"`
}

// ExtractedEntity is one NER span
type ExtractedEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// TicketAnalysisRequest is the payload for analyzing a support ticket
type TicketAnalysisRequest struct {
	TicketID   string    `json:"ticket_id" binding:"required"`
	Department string    `json:"department" binding:"required"`
	CreatedAt  time.Time `json:"created_at"`
	Summary    string    `json:"summary"`
	Comments   []string  `json:"comments" binding:"required,min=1"` // Chronological
	Strategy   string    `json:"strategy"`                          // latest, weighted_recent, trajectory
}

// TicketAnalysis is the stored outcome of an analysis
type TicketAnalysis struct {
	TicketID   string            `json:"ticket_id"`
	Department string            `json:"department"`
	Week       string            `json:"week"`
	Sentiment  TicketSentiment   `json:"sentiment"`
	Entities   []ExtractedEntity `json:"entities"`
}
