package models

// Metrics summarizes ticket volume and sentiment for the dashboard header
type Metrics struct {
	TotalTickets    int64   `json:"total_tickets"`
	AvgSentiment    float64 `json:"avg_sentiment"`
	RecentTickets   int64   `json:"recent_tickets"`   // created in the last 7 days
	PreviousTickets int64   `json:"previous_tickets"` // created the 7 days before that
	TicketTrend     float64 `json:"ticket_trend"`     // percent change, recent vs previous
}

// RecentTicket is a ticket row with its stored verdict, if any
type RecentTicket struct {
	TicketID       string  `json:"ticket_id" db:"ticket_id"`
	Department     string  `json:"department" db:"department"`
	Summary        string  `json:"summary" db:"summary"`
	CreatedDate    string  `json:"created_date" db:"created_date"`
	SentimentLabel string  `json:"sentiment_label" db:"sentiment_label"`
	SentimentScore float64 `json:"sentiment_score" db:"sentiment_score"`
}

// SentimentUnknown labels tickets that were never scored
const SentimentUnknown = "unknown"

// RecentTicketsFilter represents the recent tickets query
type RecentTicketsFilter struct {
	Limit int `form:"limit"`
}

// DailySentiment is the average ticket score of one day
type DailySentiment struct {
	Date         string  `json:"date" db:"created_date"`
	AvgSentiment float64 `json:"avg_sentiment" db:"avg_sentiment"`
	TicketCount  int     `json:"ticket_count" db:"ticket_count"`
}

// Anomaly kinds and severities
const (
	AnomalySpike = "sentiment_spike"
	AnomalyDrop  = "sentiment_drop"

	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Anomaly is a day whose average strays from the recent baseline
type Anomaly struct {
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	Value       float64 `json:"value"`
	Expected    float64 `json:"expected"`
	Deviation   float64 `json:"deviation"`
	TicketCount int     `json:"ticket_count"`
}

// AnomalyReport is the anomaly panel
type AnomalyReport struct {
	Since     string    `json:"since"`
	Days      int       `json:"days"` // days with scored tickets in the window
	Anomalies []Anomaly `json:"anomalies"`
}
