package models

// EntityFilter represents filter parameters for the entity panel
type EntityFilter struct {
	Query string `form:"q"`     // Case-insensitive substring of text or label
	Label string `form:"label"` // Exact label, optional
	Limit int    `form:"limit"` // Max entities returned by the source
}

// HeatmapFilter represents filter parameters for the heatmap panel
type HeatmapFilter struct {
	StartDate  string `form:"startDate"`  // YYYY-MM-DD, inclusive
	EndDate    string `form:"endDate"`    // YYYY-MM-DD, inclusive
	XAxis      string `form:"xAxis"`      // Dimension label for columns
	YAxis      string `form:"yAxis"`      // Dimension label for rows
	Order      string `form:"order"`      // lexicographic, natural
	Collisions string `form:"collisions"` // last, first, average, reject
}

// LayoutFilter represents the responsive column request
type LayoutFilter struct {
	XS       float64 `form:"xs"`
	SM       float64 `form:"sm"`
	MD       float64 `form:"md"`
	LG       float64 `form:"lg"`
	XL       float64 `form:"xl"`
	Children int     `form:"children"`
}
