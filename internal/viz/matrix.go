package viz

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jengzang/sentiment-dashboard/internal/models"
)

// ErrDuplicateCell is returned under the Reject policy when two cells share (x, y)
var ErrDuplicateCell = errors.New("duplicate heatmap cell")

// AxisOrder decides how axis labels are sorted
type AxisOrder int

const (
	// Lexicographic sorts labels as plain strings, so "10" comes before "2"
	Lexicographic AxisOrder = iota
	// Natural sorts numeric-looking labels by value, ahead of other labels
	Natural
)

// ParseAxisOrder parses "lexicographic" or "natural". Empty means Lexicographic.
func ParseAxisOrder(s string) (AxisOrder, error) {
	switch strings.ToLower(s) {
	case "", "lexicographic", "lex":
		return Lexicographic, nil
	case "natural", "numeric":
		return Natural, nil
	}
	return Lexicographic, fmt.Errorf("unknown axis order %q", s)
}

func (o AxisOrder) String() string {
	if o == Natural {
		return "natural"
	}
	return "lexicographic"
}

// CollisionPolicy decides what happens when several cells share (x, y)
type CollisionPolicy int

const (
	LastWriteWins CollisionPolicy = iota
	FirstWriteWins
	Average
	Reject
)

// ParseCollisionPolicy parses "last", "first", "average" or "reject". Empty means LastWriteWins.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch strings.ToLower(s) {
	case "", "last", "last-write-wins":
		return LastWriteWins, nil
	case "first", "first-write-wins":
		return FirstWriteWins, nil
	case "average", "avg", "mean":
		return Average, nil
	case "reject":
		return Reject, nil
	}
	return LastWriteWins, fmt.Errorf("unknown collision policy %q", s)
}

func (p CollisionPolicy) String() string {
	switch p {
	case FirstWriteWins:
		return "first"
	case Average:
		return "average"
	case Reject:
		return "reject"
	}
	return "last"
}

// MatrixOptions configures BuildMatrix. The zero value reproduces the
// dashboard: lexicographic axes, last write wins.
type MatrixOptions struct {
	Order      AxisOrder
	Collisions CollisionPolicy
}

// Matrix is the heatmap lookup built from flat cells
type Matrix struct {
	XLabels []string
	YLabels []string
	Cells   map[string]map[string]models.HeatmapCell // Cells[y][x]
}

// Lookup returns the cell at (x, y) and whether one exists
func (m *Matrix) Lookup(x, y string) (models.HeatmapCell, bool) {
	if m == nil {
		return models.HeatmapCell{}, false
	}
	row, ok := m.Cells[y]
	if !ok {
		return models.HeatmapCell{}, false
	}
	c, ok := row[x]
	return c, ok
}

// Len returns the number of distinct (x, y) positions holding a cell
func (m *Matrix) Len() int {
	n := 0
	for _, row := range m.Cells {
		n += len(row)
	}
	return n
}

type accumulator struct {
	sum      float64
	weighted float64
	weight   int
	n        int
	counted  bool
}

// BuildMatrix derives the sorted distinct axis labels and the [y][x] lookup
// from cells in a single pass.
func BuildMatrix(cells []models.HeatmapCell, opts MatrixOptions) (*Matrix, error) {
	m := &Matrix{Cells: make(map[string]map[string]models.HeatmapCell)}
	xs := make(map[string]struct{})
	ys := make(map[string]struct{})

	var acc map[[2]string]*accumulator
	if opts.Collisions == Average {
		acc = make(map[[2]string]*accumulator)
	}

	for _, c := range cells {
		xs[c.X] = struct{}{}
		ys[c.Y] = struct{}{}

		row, ok := m.Cells[c.Y]
		if !ok {
			row = make(map[string]models.HeatmapCell)
			m.Cells[c.Y] = row
		}
		prev, exists := row[c.X]

		switch opts.Collisions {
		case FirstWriteWins:
			if exists {
				continue
			}
		case Reject:
			if exists {
				return nil, fmt.Errorf("%w at (%q, %q)", ErrDuplicateCell, c.X, c.Y)
			}
		case Average:
			key := [2]string{c.Y, c.X}
			a, ok := acc[key]
			if !ok {
				a = &accumulator{counted: true}
				acc[key] = a
			}
			a.n++
			a.sum += c.Value
			a.weighted += c.Value * float64(c.Count)
			a.weight += c.Count
			if c.Count <= 0 {
				a.counted = false
			}
			merged := c
			if exists {
				merged.Count = prev.Count + c.Count
			}
			if a.counted {
				merged.Value = a.weighted / float64(a.weight)
			} else {
				merged.Value = a.sum / float64(a.n)
			}
			row[c.X] = merged
			continue
		}
		row[c.X] = c
	}

	m.XLabels = sortedLabels(xs, opts.Order)
	m.YLabels = sortedLabels(ys, opts.Order)
	return m, nil
}

func sortedLabels(set map[string]struct{}, order AxisOrder) []string {
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	if order == Natural {
		slices.SortFunc(labels, compareNatural)
	} else {
		slices.Sort(labels)
	}
	return labels
}

func compareNatural(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if c := cmp.Compare(fa, fb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
