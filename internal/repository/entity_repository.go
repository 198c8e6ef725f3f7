package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/sentiment-dashboard/internal/database"
	"github.com/jengzang/sentiment-dashboard/internal/models"
)

// DefaultEntityLimit caps entity aggregation when no limit is given
const DefaultEntityLimit = 50

// EntityRepository handles database operations for extracted entities
type EntityRepository struct {
	db     *sql.DB
	driver string
}

// NewEntityRepository creates a new entity repository
func NewEntityRepository(db *sql.DB, driver string) *EntityRepository {
	return &EntityRepository{db: db, driver: driver}
}

// TopEntities returns entity occurrence counts, most frequent first
func (r *EntityRepository) TopEntities(ctx context.Context, filter models.EntityFilter) ([]models.EntityRecord, error) {
	query := `SELECT text, label, COUNT(*) AS frequency FROM entities`

	var args []interface{}
	if filter.Label != "" {
		query += ` WHERE label = ?`
		args = append(args, strings.ToUpper(filter.Label))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultEntityLimit
	}
	query += ` GROUP BY text, label ORDER BY frequency DESC, text ASC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, database.Rebind(r.driver, query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	var records []models.EntityRecord
	for rows.Next() {
		var e models.EntityRecord
		if err := rows.Scan(&e.Text, &e.Label, &e.Count); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		records = append(records, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entities: %w", err)
	}

	return records, nil
}
