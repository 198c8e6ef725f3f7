package models

import "time"

// Notice levels
const (
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notice is a transient, non-blocking message shown next to a panel
type Notice struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Breadcrumb is one step of the page trail
type Breadcrumb struct {
	Label string `json:"label"`
	Href  string `json:"href,omitempty"`
}

// Action is a page-level button
type Action struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// GridPlacement is a child's width in 12-unit grid columns per breakpoint
type GridPlacement struct {
	Index  int                `json:"index"`
	Widths map[string]float64 `json:"widths"`
}

// Overview is the full dashboard page
type Overview struct {
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle,omitempty"`
	Breadcrumbs []Breadcrumb    `json:"breadcrumbs,omitempty"`
	Actions     []Action        `json:"actions,omitempty"`
	Filters     []string        `json:"filters,omitempty"`
	Metrics     *Metrics        `json:"metrics,omitempty"`
	Entities    *EntityPanel    `json:"entities"`
	Heatmap     *HeatmapView    `json:"heatmap"`
	Layout      []GridPlacement `json:"layout"`
}
