package viz

import (
	"fmt"
	"strings"
)

// GridUnits is the width of the responsive grid
const GridUnits = 12

// Breakpoint is a named screen-size tier
type Breakpoint string

const (
	XS Breakpoint = "xs"
	SM Breakpoint = "sm"
	MD Breakpoint = "md"
	LG Breakpoint = "lg"
	XL Breakpoint = "xl"
)

// Breakpoints in ascending size
var Breakpoints = []Breakpoint{XS, SM, MD, LG, XL}

// ParseBreakpoint parses a tier name
func ParseBreakpoint(s string) (Breakpoint, error) {
	bp := Breakpoint(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Breakpoints {
		if bp == known {
			return bp, nil
		}
	}
	return "", fmt.Errorf("unknown breakpoint %q", s)
}

// Columns is the requested column count per tier
type Columns map[Breakpoint]float64

// DefaultColumns is one column on small screens, two on medium, three on large
func DefaultColumns() Columns {
	return Columns{XS: 1, MD: 2, LG: 3}
}

// GridItem is a child with its width in grid units per tier
type GridItem[T any] struct {
	Child  T
	Widths map[Breakpoint]float64
}

// Layout assigns every child GridUnits/columns units for each tier.
// Widths need not be whole numbers. Tiers with a non-positive column
// count are left out. Children keep their order.
func Layout[T any](children []T, cols Columns) []GridItem[T] {
	widths := make(map[Breakpoint]float64, len(cols))
	for bp, n := range cols {
		if n > 0 {
			widths[bp] = GridUnits / n
		}
	}

	items := make([]GridItem[T], len(children))
	for i, child := range children {
		w := make(map[Breakpoint]float64, len(widths))
		for bp, units := range widths {
			w[bp] = units
		}
		items[i] = GridItem[T]{Child: child, Widths: w}
	}
	return items
}

// Width returns the item's width at bp, falling back to the nearest
// smaller tier the way CSS grids cascade. Without any tier it spans the row.
func (g GridItem[T]) Width(bp Breakpoint) float64 {
	idx := -1
	for i, known := range Breakpoints {
		if known == bp {
			idx = i
			break
		}
	}
	for i := idx; i >= 0; i-- {
		if w, ok := g.Widths[Breakpoints[i]]; ok {
			return w
		}
	}
	return GridUnits
}

// BreakpointForWidth picks the tier for a terminal that is cells wide
func BreakpointForWidth(cells int) Breakpoint {
	switch {
	case cells < 60:
		return XS
	case cells < 90:
		return SM
	case cells < 120:
		return MD
	case cells < 160:
		return LG
	}
	return XL
}
