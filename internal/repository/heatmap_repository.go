package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/sentiment-dashboard/internal/database"
	"github.com/jengzang/sentiment-dashboard/internal/models"
)

// HeatmapRepository aggregates ticket sentiment into heatmap cells
type HeatmapRepository struct {
	db     *sql.DB
	driver string
}

// NewHeatmapRepository creates a new heatmap repository
func NewHeatmapRepository(db *sql.DB, driver string) *HeatmapRepository {
	return &HeatmapRepository{db: db, driver: driver}
}

// Cells returns average sentiment per (department, week)
func (r *HeatmapRepository) Cells(ctx context.Context, filter models.HeatmapFilter) ([]models.HeatmapCell, error) {
	query := `SELECT t.department, t.week, AVG(sr.sentiment_score) AS avg_sentiment, COUNT(*) AS ticket_count
		FROM tickets t
		JOIN sentiment_results sr ON t.ticket_id = sr.ticket_id`

	var conditions []string
	var args []interface{}

	if filter.StartDate != "" {
		conditions = append(conditions, "t.created_date >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		conditions = append(conditions, "t.created_date <= ?")
		args = append(args, filter.EndDate)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY t.department, t.week ORDER BY t.department, t.week"

	rows, err := r.db.QueryContext(ctx, database.Rebind(r.driver, query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query heatmap: %w", err)
	}
	defer rows.Close()

	var cells []models.HeatmapCell
	for rows.Next() {
		var c models.HeatmapCell
		if err := rows.Scan(&c.X, &c.Y, &c.Value, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan heatmap cell: %w", err)
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate heatmap: %w", err)
	}

	return cells, nil
}
