// Package viz holds the pure transformations behind the dashboard panels:
// entity filtering, category colors, heatmap matrix construction, the
// value-to-color scale and the 12-unit responsive grid.
package viz

import (
	"strings"

	"github.com/jengzang/sentiment-dashboard/internal/models"
)

// FilterEntities returns the records whose text or label contains query,
// ignoring case. An empty query returns records unchanged. Order is kept.
func FilterEntities(records []models.EntityRecord, query string) []models.EntityRecord {
	if query == "" {
		return records
	}

	needle := strings.ToLower(query)
	matched := make([]models.EntityRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Text), needle) ||
			strings.Contains(strings.ToLower(r.Label), needle) {
			matched = append(matched, r)
		}
	}
	return matched
}
