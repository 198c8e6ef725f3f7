package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jengzang/sentiment-dashboard/internal/config"
	"github.com/jengzang/sentiment-dashboard/internal/database"
	"github.com/jengzang/sentiment-dashboard/internal/datasource"
	"github.com/jengzang/sentiment-dashboard/internal/models"
	"github.com/jengzang/sentiment-dashboard/internal/panel"
	"github.com/jengzang/sentiment-dashboard/internal/render"
	"github.com/jengzang/sentiment-dashboard/internal/repository"
	"github.com/jengzang/sentiment-dashboard/internal/service"
	"github.com/jengzang/sentiment-dashboard/internal/viz"
)

type sourceFlags struct {
	source     string
	palette    string
	order      string
	collisions string
	start, end string
}

func (f *sourceFlags) add(fs *pflag.FlagSet) {
	fs.StringVar(&f.source, "source", "mock", "data source: mock or sql (uses DB_DRIVER/DB_PATH)")
	fs.StringVar(&f.palette, "palette", "", "YAML category palette")
	fs.StringVar(&f.order, "order", "", "axis order: lexicographic or natural")
	fs.StringVar(&f.collisions, "collisions", "", "duplicate cells: last, first, average or reject")
	fs.StringVar(&f.start, "start", "", "first ticket date, YYYY-MM-DD")
	fs.StringVar(&f.end, "end", "", "last ticket date, YYYY-MM-DD")
}

func (f *sourceFlags) heatmapFilter() models.HeatmapFilter {
	return models.HeatmapFilter{StartDate: f.start, EndDate: f.end, Order: f.order, Collisions: f.collisions}
}

// open returns the requested source and a cleanup function
func (f *sourceFlags) open() (datasource.Source, func(), error) {
	if f.source == "mock" {
		return datasource.NewMock(), func() {}, nil
	}
	if f.source != "sql" {
		return nil, nil, fmt.Errorf("unknown source %q", f.source)
	}

	cfg, err := config.Resolve()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(database.Config{Driver: cfg.DBDriver, Path: cfg.DBPath})
	if err != nil {
		return nil, nil, err
	}
	src := datasource.NewSQL(
		repository.NewEntityRepository(db, cfg.DBDriver),
		repository.NewHeatmapRepository(db, cfg.DBDriver),
		repository.NewInsightsRepository(db, cfg.DBDriver),
	)
	return src, func() { db.Close() }, nil
}

func (f *sourceFlags) loadPalette() (*viz.Palette, error) {
	if f.palette == "" {
		return viz.DefaultPalette(), nil
	}
	return viz.LoadPalette(f.palette)
}

func runRender(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	var sf sourceFlags
	var query string
	var width int

	fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
	sf.add(fs)
	fs.StringVarP(&query, "query", "q", "", "entity search text")
	fs.IntVarP(&width, "width", "w", 0, "terminal width in cells (default $COLUMNS or 100)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if width <= 0 {
		width = terminalWidth()
	}

	opts, err := service.MatrixOptions(sf.heatmapFilter())
	if err != nil {
		return err
	}
	palette, err := sf.loadPalette()
	if err != nil {
		return err
	}
	src, cleanup, err := sf.open()
	if err != nil {
		return err
	}
	defer cleanup()

	notices := panel.NewNotices(panel.DefaultNoticeTTL)
	entities := panel.NewEntityPanel(func(ctx context.Context) ([]models.EntityRecord, error) {
		return src.Entities(ctx, models.EntityFilter{})
	}, palette, notices)
	heatmap := panel.NewHeatmapPanel(func(ctx context.Context) ([]models.HeatmapCell, error) {
		return src.Heatmap(ctx, sf.heatmapFilter())
	}, opts, viz.DefaultScale(), notices)
	defer entities.Close()
	defer heatmap.Close()

	entities.SetQuery(query)
	entities.Load(ctx)
	heatmap.Load(ctx)
	entities.Wait()
	heatmap.Wait()

	page := panel.Page{
		Title:       "Customer Sentiment",
		Subtitle:    "Entities and sentiment by department and week",
		Breadcrumbs: []models.Breadcrumb{{Label: "Dashboard"}, {Label: "Sentiment"}},
	}
	if query != "" {
		page.Filters = []string{fmt.Sprintf("q=%s", query)}
	}

	ov := &models.Overview{
		Title:       page.Title,
		Subtitle:    page.Subtitle,
		Breadcrumbs: page.Breadcrumbs,
		Filters:     page.Filters,
		Entities:    entities.View(),
		Layout:      panel.Placements(page.Columns, 2),
	}
	view, err := heatmap.View()
	if err != nil {
		logger.Warn("heatmap not rendered", "error", err)
		view = &models.HeatmapView{}
	}
	view.XAxis, view.YAxis = service.DefaultXAxis, service.DefaultYAxis
	ov.Heatmap = view

	if m, err := service.NewDashboardService(src, nil, 0, logger).Metrics(ctx); err == nil {
		ov.Metrics = m
	} else {
		logger.Warn("metrics not rendered", "error", err)
	}

	// Failed loads surface as notices rather than aborting the render
	active := notices.Active()
	ov.Entities.Notice = noticeFor(active, "entities")
	ov.Heatmap.Notice = noticeFor(active, "heatmap")

	_, err = fmt.Fprintln(out, render.NewTerminal(out, width, page.Columns).Overview(ov))
	return err
}

func runHeatmapHTML(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	var sf sourceFlags
	var path string

	fs := pflag.NewFlagSet("heatmap-html", pflag.ContinueOnError)
	sf.add(fs)
	fs.StringVarP(&path, "out", "o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, cleanup, err := sf.open()
	if err != nil {
		return err
	}
	defer cleanup()

	svc := service.NewDashboardService(src, nil, 0, logger)
	view, err := svc.Heatmap(ctx, sf.heatmapFilter())
	if err != nil {
		return err
	}

	w := out
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("could not create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	if err := render.HeatmapPage(w, view, viz.DefaultScale()); err != nil {
		return err
	}
	if path != "" {
		logger.Info("heatmap written", "path", path)
	}
	return nil
}

func noticeFor(notices []models.Notice, panelName string) *models.Notice {
	for _, n := range notices {
		if strings.Contains(n.Message, panelName) {
			return &n
		}
	}
	return nil
}

func terminalWidth() int {
	var n int
	if _, err := fmt.Sscanf(os.Getenv("COLUMNS"), "%d", &n); err == nil && n > 0 {
		return n
	}
	return 100
}
