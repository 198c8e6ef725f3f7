package models

import (
	"fmt"
	"math"
	"strings"
)

// HeatmapCell represents one (row, column, score) triple in the sentiment grid
type HeatmapCell struct {
	X     string  `json:"x"`               // Column label, e.g. department
	Y     string  `json:"y"`               // Row label, e.g. ISO week
	Value float64 `json:"value"`           // Average sentiment, roughly -1..1
	Count int     `json:"count,omitempty"` // Tickets behind the value
}

// Validate rejects cells that would put undefined values into the matrix.
// Values outside -1..1 are allowed.
func (c HeatmapCell) Validate() error {
	if strings.TrimSpace(c.X) == "" || strings.TrimSpace(c.Y) == "" {
		return fmt.Errorf("%w: heatmap cell (%q, %q) has an empty axis label", ErrInvalidRecord, c.X, c.Y)
	}
	if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
		return fmt.Errorf("%w: heatmap cell (%q, %q) has non-finite value", ErrInvalidRecord, c.X, c.Y)
	}
	if c.Count < 0 {
		return fmt.Errorf("%w: heatmap cell (%q, %q) has negative count", ErrInvalidRecord, c.X, c.Y)
	}
	return nil
}

// ValidateCells validates every cell and reports the first failure with its index
func ValidateCells(cells []HeatmapCell) error {
	for i, c := range cells {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
	}
	return nil
}

// HeatmapViewCell is one grid position prepared for display
type HeatmapViewCell struct {
	X       string  `json:"x"`
	Y       string  `json:"y"`
	Present bool    `json:"present"`
	Value   float64 `json:"value"`
	Count   int     `json:"count,omitempty"`
	Tone    string  `json:"tone"`  // positive, negative, neutral, background
	Alpha   float64 `json:"alpha"` // Intensity, |value|
	Color   string  `json:"color"` // CSS color
}

// HeatmapView is the render-ready heatmap
type HeatmapView struct {
	XAxis   string              `json:"x_axis"`
	YAxis   string              `json:"y_axis"`
	XLabels []string            `json:"x_labels"`
	YLabels []string            `json:"y_labels"`
	Rows    [][]HeatmapViewCell `json:"rows"` // Rows[i][j] is (XLabels[j], YLabels[i])
	Cells   int                 `json:"cells"`
	Notice  *Notice             `json:"notice,omitempty"`
}
