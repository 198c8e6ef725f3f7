package panel

import (
	"github.com/jengzang/sentiment-dashboard/internal/models"
	"github.com/jengzang/sentiment-dashboard/internal/viz"
)

// EntityView filters records by query and attaches category colors
func EntityView(records []models.EntityRecord, query string, palette *viz.Palette) *models.EntityPanel {
	visible := viz.FilterEntities(records, query)
	out := &models.EntityPanel{
		Query:    query,
		Total:    len(records),
		Entities: make([]models.EntityView, len(visible)),
	}
	for i, r := range visible {
		out.Entities[i] = models.EntityView{EntityRecord: r, Color: palette.Color(r.Label)}
	}
	return out
}

// HeatmapView lays cells out on sorted axes and colors every grid position,
// including empty ones.
func HeatmapView(cells []models.HeatmapCell, opts viz.MatrixOptions, scale viz.Scale) (*models.HeatmapView, error) {
	m, err := viz.BuildMatrix(cells, opts)
	if err != nil {
		return nil, err
	}
	return HeatmapViewOf(m, scale), nil
}

// HeatmapViewOf colors an already built matrix
func HeatmapViewOf(m *viz.Matrix, scale viz.Scale) *models.HeatmapView {
	view := &models.HeatmapView{
		XLabels: m.XLabels,
		YLabels: m.YLabels,
		Rows:    make([][]models.HeatmapViewCell, len(m.YLabels)),
		Cells:   m.Len(),
	}
	for i, y := range m.YLabels {
		row := make([]models.HeatmapViewCell, len(m.XLabels))
		for j, x := range m.XLabels {
			cell, ok := m.Lookup(x, y)
			color := scale.Color(cell.Value, ok)
			row[j] = models.HeatmapViewCell{
				X:       x,
				Y:       y,
				Present: ok,
				Value:   cell.Value,
				Count:   cell.Count,
				Tone:    string(color.Tone),
				Alpha:   color.Alpha,
				Color:   color.CSS(),
			}
		}
		view.Rows[i] = row
	}
	return view
}
