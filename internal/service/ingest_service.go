package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jengzang/sentiment-dashboard/internal/models"
	"github.com/jengzang/sentiment-dashboard/internal/stats"
)

// Analyzer scores text and extracts entities
type Analyzer interface {
	Sentiment(ctx context.Context, text string) models.SentimentResult
	Entities(ctx context.Context, text string) []models.ExtractedEntity
}

// AnalysisStore persists analyzed tickets
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, a models.TicketAnalysis, createdDate, summary string) error
}

// Invalidator drops cached panel data
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// IngestService turns raw tickets into stored sentiment and entities
type IngestService struct {
	ml          Analyzer
	store       AnalysisStore
	invalidator Invalidator
	logger      *slog.Logger
	now         func() time.Time
}

// NewIngestService creates a new ingest service. invalidator may be nil.
func NewIngestService(ml Analyzer, store AnalysisStore, invalidator Invalidator, logger *slog.Logger) *IngestService {
	return &IngestService{
		ml:          ml,
		store:       store,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

// AnalyzeTicket scores every comment, aggregates them with the requested
// strategy, extracts entities from the whole thread and stores the result.
func (s *IngestService) AnalyzeTicket(ctx context.Context, req models.TicketAnalysisRequest) (*models.TicketAnalysis, error) {
	if strings.TrimSpace(req.TicketID) == "" || strings.TrimSpace(req.Department) == "" {
		return nil, fmt.Errorf("%w: ticket_id and department are required", models.ErrInvalidRecord)
	}

	results := make([]models.SentimentResult, 0, len(req.Comments))
	for _, comment := range req.Comments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, s.ml.Sentiment(ctx, comment))
	}

	verdict := stats.Aggregate(results, req.Strategy)
	verdict.TicketID = req.TicketID

	text := strings.Join(append([]string{req.Summary}, req.Comments...), "\n")
	entities := s.ml.Entities(ctx, text)
	if entities == nil {
		entities = []models.ExtractedEntity{}
	}

	created := req.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	created = created.UTC()

	analysis := &models.TicketAnalysis{
		TicketID:   req.TicketID,
		Department: req.Department,
		Week:       ISOWeek(created),
		Sentiment:  verdict,
		Entities:   entities,
	}
	if err := s.store.SaveAnalysis(ctx, *analysis, created.Format("2006-01-02"), req.Summary); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			s.logger.Warn("cache invalidation failed", "ticket_id", req.TicketID, "error", err)
		}
	}

	s.logger.Info("ticket analyzed",
		"ticket_id", req.TicketID,
		"sentiment", verdict.Sentiment,
		"score", verdict.Score,
		"entities", len(entities),
	)
	return analysis, nil
}

// ISOWeek formats t as an ISO 8601 week, e.g. 2024-W01
func ISOWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
