// Package datasource supplies entity and heatmap records to the panels.
// Every source validates records before handing them out.
package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/jengzang/sentiment-dashboard/internal/models"
	"github.com/jengzang/sentiment-dashboard/internal/repository"
)

// Source provides the records behind the dashboard panels
type Source interface {
	Entities(ctx context.Context, filter models.EntityFilter) ([]models.EntityRecord, error)
	Heatmap(ctx context.Context, filter models.HeatmapFilter) ([]models.HeatmapCell, error)
}

// Insights provides ticket volume, recent tickets and daily sentiment.
// Sources that implement it light up the metrics and anomaly panels.
type Insights interface {
	Metrics(ctx context.Context, today time.Time) (*models.Metrics, error)
	RecentTickets(ctx context.Context, limit int) ([]models.RecentTicket, error)
	DailySentiment(ctx context.Context, since time.Time) ([]models.DailySentiment, error)
}

// SQL reads aggregated records from the database
type SQL struct {
	entities *repository.EntityRepository
	heatmap  *repository.HeatmapRepository
	insights *repository.InsightsRepository
}

// NewSQL creates a database-backed source
func NewSQL(entities *repository.EntityRepository, heatmap *repository.HeatmapRepository, insights *repository.InsightsRepository) *SQL {
	return &SQL{entities: entities, heatmap: heatmap, insights: insights}
}

// Entities implements Source
func (s *SQL) Entities(ctx context.Context, filter models.EntityFilter) ([]models.EntityRecord, error) {
	records, err := s.entities.TopEntities(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateEntities(records); err != nil {
		return nil, fmt.Errorf("database returned %w", err)
	}
	return records, nil
}

// Heatmap implements Source
func (s *SQL) Heatmap(ctx context.Context, filter models.HeatmapFilter) ([]models.HeatmapCell, error) {
	cells, err := s.heatmap.Cells(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateCells(cells); err != nil {
		return nil, fmt.Errorf("database returned %w", err)
	}
	return cells, nil
}

// Metrics implements Insights
func (s *SQL) Metrics(ctx context.Context, today time.Time) (*models.Metrics, error) {
	return s.insights.Metrics(ctx, today)
}

// RecentTickets implements Insights
func (s *SQL) RecentTickets(ctx context.Context, limit int) ([]models.RecentTicket, error) {
	return s.insights.RecentTickets(ctx, limit)
}

// DailySentiment implements Insights
func (s *SQL) DailySentiment(ctx context.Context, since time.Time) ([]models.DailySentiment, error) {
	return s.insights.DailySentiment(ctx, since)
}
