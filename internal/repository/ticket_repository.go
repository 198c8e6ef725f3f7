package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/sentiment-dashboard/internal/database"
	"github.com/jengzang/sentiment-dashboard/internal/models"
)

// TicketRepository stores analyzed tickets
type TicketRepository struct {
	db     *sql.DB
	driver string
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB, driver string) *TicketRepository {
	return &TicketRepository{db: db, driver: driver}
}

// SaveAnalysis replaces the ticket, its sentiment and its entities atomically
func (r *TicketRepository) SaveAnalysis(ctx context.Context, a models.TicketAnalysis, createdDate, summary string) error {
	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.q(`INSERT INTO tickets (ticket_id, department, summary, created_date, week)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (ticket_id) DO UPDATE SET
				department = excluded.department,
				summary = excluded.summary,
				created_date = excluded.created_date,
				week = excluded.week`),
			a.TicketID, a.Department, summary, createdDate, a.Week)
		if err != nil {
			return fmt.Errorf("failed to upsert ticket %s: %w", a.TicketID, err)
		}

		s := a.Sentiment
		_, err = tx.ExecContext(ctx, r.q(`INSERT INTO sentiment_results
			(ticket_id, sentiment_label, sentiment_score, confidence, trend, strategy)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (ticket_id) DO UPDATE SET
				sentiment_label = excluded.sentiment_label,
				sentiment_score = excluded.sentiment_score,
				confidence = excluded.confidence,
				trend = excluded.trend,
				strategy = excluded.strategy`),
			a.TicketID, s.Sentiment, s.Score, s.Confidence, s.Trend, s.Strategy)
		if err != nil {
			return fmt.Errorf("failed to upsert sentiment for %s: %w", a.TicketID, err)
		}

		if _, err := tx.ExecContext(ctx, r.q(`DELETE FROM entities WHERE ticket_id = ?`), a.TicketID); err != nil {
			return fmt.Errorf("failed to clear entities for %s: %w", a.TicketID, err)
		}

		insert := r.q(`INSERT INTO entities (ticket_id, text, label, start_pos, end_pos) VALUES (?, ?, ?, ?, ?)`)
		for _, e := range a.Entities {
			if _, err := tx.ExecContext(ctx, insert, a.TicketID, e.Text, e.Label, e.Start, e.End); err != nil {
				return fmt.Errorf("failed to insert entity %q: %w", e.Text, err)
			}
		}
		return nil
	})
}

// Sentiment returns the stored verdict for a ticket
func (r *TicketRepository) Sentiment(ctx context.Context, ticketID string) (*models.TicketSentiment, error) {
	s := &models.TicketSentiment{TicketID: ticketID}
	err := r.db.QueryRowContext(ctx, r.q(`SELECT sentiment_label, sentiment_score, confidence, trend, strategy
		FROM sentiment_results WHERE ticket_id = ?`), ticketID).
		Scan(&s.Sentiment, &s.Score, &s.Confidence, &s.Trend, &s.Strategy)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sentiment for %s: %w", ticketID, err)
	}
	return s, nil
}

func (r *TicketRepository) q(query string) string {
	return database.Rebind(r.driver, query)
}
