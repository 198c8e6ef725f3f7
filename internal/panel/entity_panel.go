package panel

import (
	"context"
	"sync"

	"github.com/jengzang/sentiment-dashboard/internal/models"
	"github.com/jengzang/sentiment-dashboard/internal/viz"
)

// EntityPanel is the searchable entity list. It owns only its query and
// its loader.
type EntityPanel struct {
	loader  *Loader[models.EntityRecord]
	palette *viz.Palette

	mu    sync.Mutex
	query string
}

// NewEntityPanel creates a panel that loads records with fetch
func NewEntityPanel(fetch FetchFunc[models.EntityRecord], palette *viz.Palette, notices *Notices) *EntityPanel {
	return &EntityPanel{
		loader:  NewLoader("entities", fetch, notices),
		palette: palette,
	}
}

// Load starts fetching records
func (p *EntityPanel) Load(ctx context.Context) { p.loader.Load(ctx) }

// Wait blocks until the current fetch returns
func (p *EntityPanel) Wait() { p.loader.Wait() }

// Close cancels the fetch and disposes the panel
func (p *EntityPanel) Close() { p.loader.Close() }

// Loading reports whether a fetch is in flight
func (p *EntityPanel) Loading() bool {
	return p.loader.Snapshot().Status == StatusLoading
}

// SetQuery replaces the search text
func (p *EntityPanel) SetQuery(q string) {
	p.mu.Lock()
	p.query = q
	p.mu.Unlock()
}

// Query returns the search text
func (p *EntityPanel) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Visible returns the loaded records matching the query
func (p *EntityPanel) Visible() []models.EntityRecord {
	return viz.FilterEntities(p.loader.Snapshot().Items, p.Query())
}

// View returns the render-ready list
func (p *EntityPanel) View() *models.EntityPanel {
	return EntityView(p.loader.Snapshot().Items, p.Query(), p.palette)
}
