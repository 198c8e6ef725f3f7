package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/jengzang/sentiment-dashboard/internal/cache"
	"github.com/jengzang/sentiment-dashboard/internal/datasource"
	"github.com/jengzang/sentiment-dashboard/internal/models"
	"github.com/jengzang/sentiment-dashboard/internal/panel"
	"github.com/jengzang/sentiment-dashboard/internal/stats"
	"github.com/jengzang/sentiment-dashboard/internal/viz"
)

var (
	// ErrInvalidFilter is returned for unparseable filter parameters
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrCellNotFound is returned by Cell when no cell exists at the position
	ErrCellNotFound = errors.New("heatmap cell not found")
	// ErrInsightsUnavailable is returned when the source has no ticket insights
	ErrInsightsUnavailable = errors.New("ticket insights not available")
)

// Recent tickets and anomaly settings
const (
	DefaultRecentTickets = 10
	MaxRecentTickets     = 100
	AnomalyLookbackDays  = 30
	summaryPreview       = 100
)

// MaxLayoutChildren bounds the children a layout request may place
const MaxLayoutChildren = 100

// Default axis names shown when the filter leaves them empty
const (
	DefaultXAxis = "Department"
	DefaultYAxis = "Week"
)

// DashboardService assembles the dashboard panels from a data source
type DashboardService struct {
	source   datasource.Source
	insights datasource.Insights // nil when source has none
	cache    cache.Cache
	ttl      time.Duration
	scale    viz.Scale
	notices  *panel.Notices
	logger   *slog.Logger
	now      func() time.Time

	palette atomic.Pointer[viz.Palette]

	mu   sync.Mutex
	keys map[string]struct{} // cache keys written by this instance
}

// NewDashboardService creates a new dashboard service. A nil cache disables caching.
func NewDashboardService(source datasource.Source, c cache.Cache, ttl time.Duration, logger *slog.Logger) *DashboardService {
	if c == nil {
		c = cache.Nop{}
	}
	s := &DashboardService{
		source:  source,
		cache:   c,
		ttl:     ttl,
		scale:   viz.DefaultScale(),
		notices: panel.NewNotices(panel.DefaultNoticeTTL),
		logger:  logger,
		now:     time.Now,
		keys:    make(map[string]struct{}),
	}
	if insights, ok := source.(datasource.Insights); ok {
		s.insights = insights
	}
	s.palette.Store(viz.DefaultPalette())
	return s
}

// SetPalette swaps the category colors used by subsequent requests
func (s *DashboardService) SetPalette(p *viz.Palette) {
	if p == nil {
		p = viz.DefaultPalette()
	}
	s.palette.Store(p)
}

// Palette returns the active category colors
func (s *DashboardService) Palette() *viz.Palette {
	return s.palette.Load()
}

// Notices returns the service's unexpired notifications
func (s *DashboardService) Notices() []models.Notice {
	return s.notices.Active()
}

// EntityRecords returns the raw records behind the entity panel
func (s *DashboardService) EntityRecords(ctx context.Context, filter models.EntityFilter) ([]models.EntityRecord, error) {
	key := fmt.Sprintf("entities:%s:%d", filter.Label, filter.Limit)
	var records []models.EntityRecord
	if s.cached(ctx, key, &records) {
		return records, nil
	}

	records, err := s.source.Entities(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get entities: %w", err)
	}
	s.store(ctx, key, records)
	return records, nil
}

// Entities returns the filtered, colored entity panel
func (s *DashboardService) Entities(ctx context.Context, filter models.EntityFilter) (*models.EntityPanel, error) {
	records, err := s.EntityRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	return panel.EntityView(records, filter.Query, s.Palette()), nil
}

// HeatmapCells returns the raw cells behind the heatmap panel
func (s *DashboardService) HeatmapCells(ctx context.Context, filter models.HeatmapFilter) ([]models.HeatmapCell, error) {
	key := fmt.Sprintf("heatmap:%s:%s", filter.StartDate, filter.EndDate)
	var cells []models.HeatmapCell
	if s.cached(ctx, key, &cells) {
		return cells, nil
	}

	cells, err := s.source.Heatmap(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get heatmap cells: %w", err)
	}
	s.store(ctx, key, cells)
	return cells, nil
}

// Matrix builds the heatmap lookup for filter
func (s *DashboardService) Matrix(ctx context.Context, filter models.HeatmapFilter) (*viz.Matrix, error) {
	opts, err := MatrixOptions(filter)
	if err != nil {
		return nil, err
	}
	cells, err := s.HeatmapCells(ctx, filter)
	if err != nil {
		return nil, err
	}
	return viz.BuildMatrix(cells, opts)
}

// Heatmap returns the colored heatmap grid
func (s *DashboardService) Heatmap(ctx context.Context, filter models.HeatmapFilter) (*models.HeatmapView, error) {
	m, err := s.Matrix(ctx, filter)
	if err != nil {
		return nil, err
	}
	view := panel.HeatmapViewOf(m, s.scale)
	view.XAxis, view.YAxis = axisNames(filter)
	return view, nil
}

// Cell returns the cell at (x, y), or ErrCellNotFound
func (s *DashboardService) Cell(ctx context.Context, filter models.HeatmapFilter, x, y string) (*models.HeatmapCell, error) {
	m, err := s.Matrix(ctx, filter)
	if err != nil {
		return nil, err
	}
	cell, ok := m.Lookup(x, y)
	if !ok {
		return nil, fmt.Errorf("%w: (%s, %s)", ErrCellNotFound, x, y)
	}
	return &cell, nil
}

// Overview loads the panels and header metrics concurrently. A failing
// panel is rendered empty with an error notice instead of failing the page.
func (s *DashboardService) Overview(ctx context.Context, ef models.EntityFilter, hf models.HeatmapFilter) (*models.Overview, error) {
	if _, err := MatrixOptions(hf); err != nil {
		return nil, err
	}

	var (
		entities *models.EntityPanel
		heatmap  *models.HeatmapView
		metrics  *models.Metrics
	)
	g, gctx := errgroup.WithContext(ctx)
	if s.insights != nil {
		g.Go(func() error {
			m, err := s.Metrics(gctx)
			if err != nil {
				s.fail("metrics", err)
				return nil
			}
			metrics = m
			return nil
		})
	}
	g.Go(func() error {
		view, err := s.Entities(gctx, ef)
		if err != nil {
			view = panel.EntityView(nil, ef.Query, s.Palette())
			view.Notice = s.fail("entities", err)
		}
		entities = view
		return nil
	})
	g.Go(func() error {
		view, err := s.Heatmap(gctx, hf)
		if err != nil {
			view = &models.HeatmapView{Rows: [][]models.HeatmapViewCell{}}
			view.XAxis, view.YAxis = axisNames(hf)
			view.Notice = s.fail("heatmap", err)
		}
		heatmap = view
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &models.Overview{
		Title:       "Customer Sentiment",
		Subtitle:    "Entities and sentiment by department and week",
		Breadcrumbs: []models.Breadcrumb{{Label: "Dashboard", Href: "/"}, {Label: "Sentiment"}},
		Actions:     []models.Action{{ID: "refresh", Label: "Refresh"}},
		Metrics:     metrics,
		Entities:    entities,
		Heatmap:     heatmap,
		Layout:      s.Layout(nil, 2),
	}, nil
}

// Metrics returns ticket volume and average sentiment with the week over
// week ticket trend
func (s *DashboardService) Metrics(ctx context.Context) (*models.Metrics, error) {
	if s.insights == nil {
		return nil, ErrInsightsUnavailable
	}
	today := s.now().UTC()
	key := "metrics:" + today.Format("2006-01-02")

	var m models.Metrics
	if !s.cached(ctx, key, &m) {
		fetched, err := s.insights.Metrics(ctx, today)
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics: %w", err)
		}
		m = *fetched
		s.store(ctx, key, m)
	}

	m.AvgSentiment = stats.Round2(m.AvgSentiment)
	m.TicketTrend = stats.PercentChange(m.RecentTickets, m.PreviousTickets)
	return &m, nil
}

// RecentTickets returns the newest tickets with summaries cut to a preview
func (s *DashboardService) RecentTickets(ctx context.Context, filter models.RecentTicketsFilter) ([]models.RecentTicket, error) {
	if s.insights == nil {
		return nil, ErrInsightsUnavailable
	}
	limit := filter.Limit
	switch {
	case limit == 0:
		limit = DefaultRecentTickets
	case limit < 0 || limit > MaxRecentTickets:
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidFilter, MaxRecentTickets)
	}

	key := fmt.Sprintf("recent:%d", limit)
	var tickets []models.RecentTicket
	if !s.cached(ctx, key, &tickets) {
		fetched, err := s.insights.RecentTickets(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to get recent tickets: %w", err)
		}
		tickets = fetched
		s.store(ctx, key, tickets)
	}

	out := make([]models.RecentTicket, len(tickets))
	for i, t := range tickets {
		t.Summary = preview(t.Summary, summaryPreview)
		t.SentimentScore = stats.Round2(t.SentimentScore)
		out[i] = t
	}
	return out, nil
}

// Anomalies flags recent days whose average sentiment strays from the
// last week's baseline, looking back AnomalyLookbackDays
func (s *DashboardService) Anomalies(ctx context.Context) (*models.AnomalyReport, error) {
	if s.insights == nil {
		return nil, ErrInsightsUnavailable
	}
	since := s.now().UTC().AddDate(0, 0, -AnomalyLookbackDays)
	key := "daily:" + since.Format("2006-01-02")

	var days []models.DailySentiment
	if !s.cached(ctx, key, &days) {
		fetched, err := s.insights.DailySentiment(ctx, since)
		if err != nil {
			return nil, fmt.Errorf("failed to get daily sentiment: %w", err)
		}
		days = fetched
		s.store(ctx, key, days)
	}

	anomalies := stats.DetectAnomalies(days)
	if anomalies == nil {
		anomalies = []models.Anomaly{}
	}
	return &models.AnomalyReport{
		Since:     since.Format("2006-01-02"),
		Days:      len(days),
		Anomalies: anomalies,
	}, nil
}

// Layout returns grid placements for n children. Nil cols uses the defaults.
func (s *DashboardService) Layout(cols viz.Columns, n int) []models.GridPlacement {
	return panel.Placements(cols, n)
}

// Invalidate drops every cached panel written by this service
func (s *DashboardService) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	keys := make([]string, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	s.keys = make(map[string]struct{})
	s.mu.Unlock()

	if len(keys) == 0 {
		return nil
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

func (s *DashboardService) fail(name string, err error) *models.Notice {
	s.logger.Error("panel failed to load", "panel", name, "error", err)
	n := s.notices.Push(models.NoticeError, fmt.Sprintf("Failed to load %s", name))
	return &n
}

func (s *DashboardService) cached(ctx context.Context, key string, dst interface{}) bool {
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

func (s *DashboardService) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	s.mu.Lock()
	s.keys[key] = struct{}{}
	s.mu.Unlock()
}

// MatrixOptions parses the order and collision settings of filter
func MatrixOptions(filter models.HeatmapFilter) (viz.MatrixOptions, error) {
	order, err := viz.ParseAxisOrder(filter.Order)
	if err != nil {
		return viz.MatrixOptions{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	collisions, err := viz.ParseCollisionPolicy(filter.Collisions)
	if err != nil {
		return viz.MatrixOptions{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return viz.MatrixOptions{Order: order, Collisions: collisions}, nil
}

// Columns converts a layout filter into grid columns. All-zero means defaults.
// Counts whose width would not be a finite number of units are rejected.
func Columns(f models.LayoutFilter) (viz.Columns, error) {
	cols := viz.Columns{}
	for bp, n := range map[viz.Breakpoint]float64{viz.XS: f.XS, viz.SM: f.SM, viz.MD: f.MD, viz.LG: f.LG, viz.XL: f.XL} {
		if n == 0 {
			continue
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("%w: %s columns must be finite", ErrInvalidFilter, bp)
		}
		if w := viz.GridUnits / n; n > 0 && (math.IsInf(w, 0) || math.IsNaN(w)) {
			return nil, fmt.Errorf("%w: %s columns too small", ErrInvalidFilter, bp)
		}
		cols[bp] = n
	}
	if len(cols) == 0 {
		return viz.DefaultColumns(), nil
	}
	return cols, nil
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func axisNames(f models.HeatmapFilter) (string, string) {
	x, y := f.XAxis, f.YAxis
	if x == "" {
		x = DefaultXAxis
	}
	if y == "" {
		y = DefaultYAxis
	}
	return x, y
}
