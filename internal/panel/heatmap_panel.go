package panel

import (
	"context"

	"github.com/jengzang/sentiment-dashboard/internal/models"
	"github.com/jengzang/sentiment-dashboard/internal/viz"
)

// CellClickFunc receives the clicked position and the cell there, or nil
type CellClickFunc func(x, y string, cell *models.HeatmapCell)

// HeatmapPanel is the axis-labeled sentiment grid
type HeatmapPanel struct {
	loader *Loader[models.HeatmapCell]
	opts   viz.MatrixOptions
	scale  viz.Scale

	// OnCellClick is optional. Without it the grid is not interactive.
	OnCellClick CellClickFunc
}

// NewHeatmapPanel creates a panel that loads cells with fetch
func NewHeatmapPanel(fetch FetchFunc[models.HeatmapCell], opts viz.MatrixOptions, scale viz.Scale, notices *Notices) *HeatmapPanel {
	return &HeatmapPanel{
		loader: NewLoader("heatmap", fetch, notices),
		opts:   opts,
		scale:  scale,
	}
}

// Load starts fetching cells
func (p *HeatmapPanel) Load(ctx context.Context) { p.loader.Load(ctx) }

// Wait blocks until the current fetch returns
func (p *HeatmapPanel) Wait() { p.loader.Wait() }

// Close cancels the fetch and disposes the panel
func (p *HeatmapPanel) Close() { p.loader.Close() }

// Loading reports whether a fetch is in flight
func (p *HeatmapPanel) Loading() bool {
	return p.loader.Snapshot().Status == StatusLoading
}

// Matrix builds the lookup from the loaded cells
func (p *HeatmapPanel) Matrix() (*viz.Matrix, error) {
	return viz.BuildMatrix(p.loader.Snapshot().Items, p.opts)
}

// View returns the colored grid
func (p *HeatmapPanel) View() (*models.HeatmapView, error) {
	return HeatmapView(p.loader.Snapshot().Items, p.opts, p.scale)
}

// Interactive reports whether clicks reach a handler
func (p *HeatmapPanel) Interactive() bool {
	return p.OnCellClick != nil
}

// Click forwards a click at (x, y) to OnCellClick and reports whether a
// handler ran. Empty positions are passed as nil.
func (p *HeatmapPanel) Click(x, y string) bool {
	if p.OnCellClick == nil {
		return false
	}
	m, err := p.Matrix()
	if err != nil {
		return false
	}
	if cell, ok := m.Lookup(x, y); ok {
		p.OnCellClick(x, y, &cell)
	} else {
		p.OnCellClick(x, y, nil)
	}
	return true
}
