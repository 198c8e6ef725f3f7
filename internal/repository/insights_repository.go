package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/sentiment-dashboard/internal/database"
	"github.com/jengzang/sentiment-dashboard/internal/models"
)

const dateLayout = "2006-01-02"

// InsightsRepository answers the summary queries behind the dashboard header
type InsightsRepository struct {
	db     *sql.DB
	driver string
}

// NewInsightsRepository creates a new insights repository
func NewInsightsRepository(db *sql.DB, driver string) *InsightsRepository {
	return &InsightsRepository{db: db, driver: driver}
}

// Metrics counts tickets and averages sentiment. The recent window is the
// 7 days up to today, the previous window the 7 days before it.
func (r *InsightsRepository) Metrics(ctx context.Context, today time.Time) (*models.Metrics, error) {
	weekAgo := today.AddDate(0, 0, -7).Format(dateLayout)
	twoWeeksAgo := today.AddDate(0, 0, -14).Format(dateLayout)

	m := &models.Metrics{}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&m.TotalTickets); err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, `SELECT AVG(sentiment_score) FROM sentiment_results`).Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to average sentiment: %w", err)
	}
	m.AvgSentiment = avg.Float64

	err := r.db.QueryRowContext(ctx, r.q(`SELECT COUNT(*) FROM tickets WHERE created_date >= ?`), weekAgo).
		Scan(&m.RecentTickets)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent tickets: %w", err)
	}
	err = r.db.QueryRowContext(ctx, r.q(`SELECT COUNT(*) FROM tickets WHERE created_date >= ? AND created_date < ?`),
		twoWeeksAgo, weekAgo).Scan(&m.PreviousTickets)
	if err != nil {
		return nil, fmt.Errorf("failed to count previous tickets: %w", err)
	}

	return m, nil
}

// RecentTickets returns the newest tickets with their sentiment, if scored
func (r *InsightsRepository) RecentTickets(ctx context.Context, limit int) ([]models.RecentTicket, error) {
	rows, err := r.db.QueryContext(ctx, r.q(`SELECT t.ticket_id, t.department, t.summary, t.created_date,
			sr.sentiment_label, sr.sentiment_score
		FROM tickets t
		LEFT JOIN sentiment_results sr ON t.ticket_id = sr.ticket_id
		ORDER BY t.created_date DESC, t.ticket_id DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent tickets: %w", err)
	}
	defer rows.Close()

	var tickets []models.RecentTicket
	for rows.Next() {
		var (
			t     models.RecentTicket
			label sql.NullString
			score sql.NullFloat64
		)
		if err := rows.Scan(&t.TicketID, &t.Department, &t.Summary, &t.CreatedDate, &label, &score); err != nil {
			return nil, fmt.Errorf("failed to scan recent ticket: %w", err)
		}
		t.SentimentLabel = models.SentimentUnknown
		if label.Valid {
			t.SentimentLabel = label.String
		}
		t.SentimentScore = score.Float64
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent tickets: %w", err)
	}

	return tickets, nil
}

// DailySentiment averages scored tickets per day since the given date,
// newest day first
func (r *InsightsRepository) DailySentiment(ctx context.Context, since time.Time) ([]models.DailySentiment, error) {
	rows, err := r.db.QueryContext(ctx, r.q(`SELECT t.created_date, AVG(sr.sentiment_score) AS avg_sentiment, COUNT(*) AS ticket_count
		FROM tickets t
		JOIN sentiment_results sr ON t.ticket_id = sr.ticket_id
		WHERE t.created_date >= ?
		GROUP BY t.created_date
		ORDER BY t.created_date DESC`), since.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily sentiment: %w", err)
	}
	defer rows.Close()

	var days []models.DailySentiment
	for rows.Next() {
		var d models.DailySentiment
		if err := rows.Scan(&d.Date, &d.AvgSentiment, &d.TicketCount); err != nil {
			return nil, fmt.Errorf("failed to scan daily sentiment: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily sentiment: %w", err)
	}

	return days, nil
}

func (r *InsightsRepository) q(query string) string {
	return database.Rebind(r.driver, query)
}
