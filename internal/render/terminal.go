// Package render draws dashboard views for a terminal and as standalone HTML.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jengzang/sentiment-dashboard/internal/models"
	"github.com/jengzang/sentiment-dashboard/internal/viz"
)

// Theme colors for palette identifiers
var themeColors = map[string]lipgloss.AdaptiveColor{
	"primary":   {Light: "#1565C0", Dark: "#64B5F6"},
	"secondary": {Light: "#6B47D9", Dark: "#BD93F9"},
	"success":   {Light: "#2E7D32", Dark: "#81C784"},
	"warning":   {Light: "#B06800", Dark: "#FFB86C"},
	"info":      {Light: "#006080", Dark: "#8BE9FD"},
}

var fallbackColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}

// Terminal renders views with lipgloss at a fixed width
type Terminal struct {
	r       *lipgloss.Renderer
	width   int
	scale   viz.Scale
	columns viz.Columns

	title  lipgloss.Style
	muted  lipgloss.Style
	box    lipgloss.Style
	notice lipgloss.Style
}

// NewTerminal creates a renderer for output w that is width cells wide.
// Nil columns uses the default grid.
func NewTerminal(w io.Writer, width int, columns viz.Columns) *Terminal {
	if width <= 0 {
		width = 80
	}
	if columns == nil {
		columns = viz.DefaultColumns()
	}
	r := lipgloss.NewRenderer(w)
	border := lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"}
	return &Terminal{
		r:       r,
		width:   width,
		scale:   viz.DefaultScale(),
		columns: columns,
		title:   r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}),
		box:     r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		notice:  r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}),
	}
}

// Overview renders the page shell with both panels laid out on the grid
func (t *Terminal) Overview(ov *models.Overview) string {
	var sections []string
	sections = append(sections, t.title.Render(ov.Title))
	if ov.Subtitle != "" {
		sections = append(sections, t.muted.Render(ov.Subtitle))
	}
	if len(ov.Breadcrumbs) > 0 {
		crumbs := make([]string, len(ov.Breadcrumbs))
		for i, b := range ov.Breadcrumbs {
			crumbs[i] = b.Label
		}
		sections = append(sections, t.muted.Render(strings.Join(crumbs, " › ")))
	}
	if len(ov.Actions) > 0 {
		buttons := make([]string, len(ov.Actions))
		for i, a := range ov.Actions {
			buttons[i] = "[" + a.Label + "]"
		}
		sections = append(sections, strings.Join(buttons, " "))
	}
	if len(ov.Filters) > 0 {
		sections = append(sections, t.muted.Render("Filters: "+strings.Join(ov.Filters, ", ")))
	}
	if m := ov.Metrics; m != nil {
		sections = append(sections, fmt.Sprintf("Tickets %d · Avg sentiment %+.2f · Week over week %+.1f%%",
			m.TotalTickets, m.AvgSentiment, m.TicketTrend))
	}

	panels := []func(int) string{
		func(w int) string { return t.Entities(ov.Entities, w) },
		func(w int) string { return t.Heatmap(ov.Heatmap, w) },
	}
	sections = append(sections, "", t.grid(panels))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// grid places panels into rows of GridUnits at the breakpoint for the width
func (t *Terminal) grid(panels []func(int) string) string {
	bp := viz.BreakpointForWidth(t.width)
	items := viz.Layout(panels, t.columns)

	var rows, row []string
	used := 0.0
	for _, item := range items {
		units := item.Width(bp)
		if used+units > viz.GridUnits && len(row) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		cells := int(math.Floor(float64(t.width) * units / viz.GridUnits))
		row = append(row, item.Child(cells))
		used += units
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Entities renders the entity list in a box width cells wide
func (t *Terminal) Entities(p *models.EntityPanel, width int) string {
	lines := []string{t.title.Render("Entities")}
	if p == nil {
		return t.frame(lines, width)
	}
	if p.Query != "" {
		lines = append(lines, t.muted.Render(fmt.Sprintf("search: %q (%d of %d)", p.Query, len(p.Entities), p.Total)))
	}
	if p.Notice != nil {
		lines = append(lines, t.notice.Render("! "+p.Notice.Message))
	}
	if len(p.Entities) == 0 && p.Notice == nil {
		lines = append(lines, t.muted.Render("No entities"))
	}
	for _, e := range p.Entities {
		chip := t.r.NewStyle().Foreground(colorFor(e.Color)).Render("● " + e.Label)
		lines = append(lines, fmt.Sprintf("%s  %s  %d", e.Text, chip, e.Count))
	}
	return t.frame(lines, width)
}

// Heatmap renders the grid with one colored cell per position
func (t *Terminal) Heatmap(v *models.HeatmapView, width int) string {
	lines := []string{t.title.Render("Sentiment heatmap")}
	if v == nil {
		return t.frame(lines, width)
	}
	if v.Notice != nil {
		lines = append(lines, t.notice.Render("! "+v.Notice.Message))
	}
	if len(v.Rows) == 0 {
		if v.Notice == nil {
			lines = append(lines, t.muted.Render("No data"))
		}
		return t.frame(lines, width)
	}

	rowLabel := labelWidth(v.YLabels, v.YAxis)
	colWidth := labelWidth(v.XLabels, "-0.00") + 1

	header := []string{pad(v.YAxis, rowLabel)}
	for _, x := range v.XLabels {
		header = append(header, pad(x, colWidth))
	}
	lines = append(lines, t.muted.Render(strings.Join(header, "")))

	for i, row := range v.Rows {
		out := []string{pad(v.YLabels[i], rowLabel)}
		for _, cell := range row {
			out = append(out, t.cell(cell, colWidth))
		}
		lines = append(lines, strings.Join(out, ""))
	}
	return t.frame(lines, width)
}

func (t *Terminal) cell(c models.HeatmapViewCell, width int) string {
	color := t.scale.Color(c.Value, c.Present)
	style := t.r.NewStyle().Width(width).Background(lipgloss.Color(blend(color, t.scale.Background)))
	if !c.Present {
		return style.Render("")
	}
	return style.Foreground(lipgloss.Color("#000000")).Render(fmt.Sprintf("%+.2f", c.Value))
}

// frame boxes lines to width cells, growing rather than wrapping rows that
// do not fit
func (t *Terminal) frame(lines []string, width int) string {
	content := strings.Join(lines, "\n")
	inner := width - t.box.GetHorizontalFrameSize()
	if w := lipgloss.Width(content) + t.box.GetHorizontalPadding(); w > inner {
		inner = w
	}
	return t.box.Width(inner).Render(content)
}

// blend mixes a tone over the background at the color's alpha, capped at 1
func blend(c viz.Color, bg viz.RGB) string {
	if c.Tone == viz.ToneBackground {
		return c.RGB.Hex()
	}
	a := math.Min(c.Alpha, 1)
	mix := func(fg, bg uint8) uint8 {
		return uint8(math.Round(float64(bg) + (float64(fg)-float64(bg))*a))
	}
	return viz.RGB{R: mix(c.RGB.R, bg.R), G: mix(c.RGB.G, bg.G), B: mix(c.RGB.B, bg.B)}.Hex()
}

func colorFor(name string) lipgloss.TerminalColor {
	if strings.HasPrefix(name, "#") {
		return lipgloss.Color(name)
	}
	if c, ok := themeColors[name]; ok {
		return c
	}
	return fallbackColor
}

func labelWidth(labels []string, floor string) int {
	w := lipgloss.Width(floor)
	for _, l := range labels {
		if lw := lipgloss.Width(l); lw > w {
			w = lw
		}
	}
	return w + 1
}

func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
