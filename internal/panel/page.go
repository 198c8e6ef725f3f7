package panel

import (
	"github.com/jengzang/sentiment-dashboard/internal/models"
	"github.com/jengzang/sentiment-dashboard/internal/viz"
)

// Region names of the page shell
const (
	RegionTitle       = "title"
	RegionSubtitle    = "subtitle"
	RegionBreadcrumbs = "breadcrumbs"
	RegionActions     = "actions"
	RegionFilters     = "filters"
	RegionContent     = "content"
)

// Page arranges title, breadcrumbs, actions and filters around content.
// Every field but Title is optional and simply omitted when empty.
type Page struct {
	Title       string
	Subtitle    string
	Breadcrumbs []models.Breadcrumb
	Actions     []models.Action
	Filters     []string
	Columns     viz.Columns // nil means viz.DefaultColumns
}

// Regions lists the regions that will be drawn, top to bottom
func (p Page) Regions() []string {
	regions := []string{RegionTitle}
	if p.Subtitle != "" {
		regions = append(regions, RegionSubtitle)
	}
	if len(p.Breadcrumbs) > 0 {
		regions = append(regions, RegionBreadcrumbs)
	}
	if len(p.Actions) > 0 {
		regions = append(regions, RegionActions)
	}
	if len(p.Filters) > 0 {
		regions = append(regions, RegionFilters)
	}
	return append(regions, RegionContent)
}

// Has reports whether region is drawn
func (p Page) Has(region string) bool {
	for _, r := range p.Regions() {
		if r == region {
			return true
		}
	}
	return false
}

// Grid places children on the page's responsive grid
func Grid[T any](p Page, children []T) []viz.GridItem[T] {
	cols := p.Columns
	if cols == nil {
		cols = viz.DefaultColumns()
	}
	return viz.Layout(children, cols)
}

// Placements describes the grid for n children without the children themselves
func Placements(cols viz.Columns, n int) []models.GridPlacement {
	if cols == nil {
		cols = viz.DefaultColumns()
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	items := viz.Layout(idx, cols)
	out := make([]models.GridPlacement, len(items))
	for i, item := range items {
		widths := make(map[string]float64, len(item.Widths))
		for bp, w := range item.Widths {
			widths[string(bp)] = w
		}
		out[i] = models.GridPlacement{Index: item.Child, Widths: widths}
	}
	return out
}
