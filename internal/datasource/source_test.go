package datasource

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jengzang/sentiment-dashboard/internal/database"
	"github.com/jengzang/sentiment-dashboard/internal/models"
	"github.com/jengzang/sentiment-dashboard/internal/repository"
)

func TestMockEntities(t *testing.T) {
	m := NewMock()
	all, err := m.Entities(context.Background(), models.EntityFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(m.EntityRecords) || all[0].Text != "iPhone" {
		t.Errorf("Entities = %+v", all)
	}

	orgs, err := m.Entities(context.Background(), models.EntityFilter{Label: "organization", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(orgs) != 1 || orgs[0].Text != "Google" {
		t.Errorf("filtered = %+v", orgs)
	}
}

func TestMockRejectsMalformedRecords(t *testing.T) {
	m := &Mock{EntityRecords: []models.EntityRecord{{Text: "x", Label: "", Count: 1}}}
	_, err := m.Entities(context.Background(), models.EntityFilter{})
	if !errors.Is(err, models.ErrInvalidRecord) {
		t.Errorf("err = %v, want ErrInvalidRecord", err)
	}

	m = &Mock{Cells: []models.HeatmapCell{{X: "a", Y: ""}}}
	_, err = m.Heatmap(context.Background(), models.HeatmapFilter{})
	if !errors.Is(err, models.ErrInvalidRecord) {
		t.Errorf("err = %v, want ErrInvalidRecord", err)
	}
}

func TestMockHonorsCancellation(t *testing.T) {
	m := NewMock()
	m.Latency = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := m.Heatmap(ctx, models.HeatmapFilter{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled fetch waited for the full latency")
	}
}

func TestMockHeatmapReturnsCopy(t *testing.T) {
	m := NewMock()
	cells, _ := m.Heatmap(context.Background(), models.HeatmapFilter{})
	cells[0].Value = 99
	if m.Cells[0].Value == 99 {
		t.Error("caller mutated the mock's cells")
	}
}

func TestSQLSource(t *testing.T) {
	conn, err := database.Open(database.Config{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "src.db")})
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err := database.NewMigrationManager(conn, database.DriverSQLite).RunMigrations(); err != nil {
		t.Fatal(err)
	}

	tickets := repository.NewTicketRepository(conn, database.DriverSQLite)
	err = tickets.SaveAnalysis(context.Background(), models.TicketAnalysis{
		TicketID:   "T-1",
		Department: "Support",
		Week:       "2024-W01",
		Sentiment:  models.TicketSentiment{Sentiment: models.SentimentPositive, Score: 0.7, Confidence: 0.9, Trend: models.TrendStable, Strategy: "latest"},
		Entities:   []models.ExtractedEntity{{Text: "Google", Label: models.LabelOrganization}},
	}, "2024-01-02", "")
	if err != nil {
		t.Fatal(err)
	}

	src := NewSQL(
		repository.NewEntityRepository(conn, database.DriverSQLite),
		repository.NewHeatmapRepository(conn, database.DriverSQLite),
		repository.NewInsightsRepository(conn, database.DriverSQLite),
	)
	entities, err := src.Entities(context.Background(), models.EntityFilter{})
	if err != nil || len(entities) != 1 || entities[0].Count != 1 {
		t.Errorf("Entities = %+v, %v", entities, err)
	}
	cells, err := src.Heatmap(context.Background(), models.HeatmapFilter{})
	if err != nil || len(cells) != 1 || cells[0].Value != 0.7 {
		t.Errorf("Heatmap = %+v, %v", cells, err)
	}

	var _ Insights = src
	recent, err := src.RecentTickets(context.Background(), 5)
	if err != nil || len(recent) != 1 || recent[0].SentimentLabel != models.SentimentPositive {
		t.Errorf("RecentTickets = %+v, %v", recent, err)
	}
}

func TestMockInsights(t *testing.T) {
	now := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	m := &Mock{Tickets: demoTickets(now)}
	ctx := context.Background()

	metrics, err := m.Metrics(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if metrics.TotalTickets != 11 || metrics.RecentTickets != 8 || metrics.PreviousTickets != 3 {
		t.Errorf("metrics = %+v", metrics)
	}
	if d := metrics.AvgSentiment - 0.18; d > 1e-9 || d < -1e-9 {
		t.Errorf("AvgSentiment = %v, want 0.18", metrics.AvgSentiment)
	}

	recent, err := m.RecentTickets(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 3 || recent[0].TicketID != "DEMO-110" || recent[2].CreatedDate != "2024-01-18" {
		t.Errorf("recent = %+v", recent)
	}

	days, err := m.DailySentiment(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 10 || days[0].Date != "2024-01-20" || days[9].Date != "2024-01-11" {
		t.Errorf("days = %+v", days)
	}
	if days[2].AvgSentiment != -0.6 || days[2].TicketCount != 1 {
		t.Errorf("dip day = %+v", days[2])
	}
}
