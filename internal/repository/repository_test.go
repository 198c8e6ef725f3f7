package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jengzang/sentiment-dashboard/internal/database"
	"github.com/jengzang/sentiment-dashboard/internal/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := database.Open(database.Config{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "repo.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := database.NewMigrationManager(conn, database.DriverSQLite).RunMigrations(); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	return conn
}

func analysis(id, dept, week string, score float64, entities ...models.ExtractedEntity) models.TicketAnalysis {
	return models.TicketAnalysis{
		TicketID:   id,
		Department: dept,
		Week:       week,
		Sentiment: models.TicketSentiment{
			TicketID:   id,
			Sentiment:  models.SentimentNeutral,
			Score:      score,
			Confidence: 0.9,
			Trend:      models.TrendStable,
			Strategy:   "weighted_recent",
		},
		Entities: entities,
	}
}

func seed(t *testing.T, repo *TicketRepository) {
	t.Helper()
	ctx := context.Background()
	google := models.ExtractedEntity{Text: "Google", Label: models.LabelOrganization}
	iphone := models.ExtractedEntity{Text: "iPhone", Label: models.LabelProduct}

	fixtures := []struct {
		a    models.TicketAnalysis
		date string
	}{
		{analysis("T-1", "Support", "2024-W01", 0.8, google, iphone), "2024-01-02"},
		{analysis("T-2", "Support", "2024-W01", 0.4, google), "2024-01-03"},
		{analysis("T-3", "Billing", "2024-W02", -0.6, iphone), "2024-01-09"},
	}
	for _, f := range fixtures {
		if err := repo.SaveAnalysis(ctx, f.a, f.date, "summary"); err != nil {
			t.Fatalf("SaveAnalysis(%s): %v", f.a.TicketID, err)
		}
	}
}

func TestHeatmapCells(t *testing.T) {
	conn := setupDB(t)
	seed(t, NewTicketRepository(conn, database.DriverSQLite))
	repo := NewHeatmapRepository(conn, database.DriverSQLite)

	cells, err := repo.Cells(context.Background(), models.HeatmapFilter{})
	if err != nil {
		t.Fatalf("Cells: %v", err)
	}
	if len(cells) != 2 {
		t.Fatalf("got %d cells, want 2: %+v", len(cells), cells)
	}

	support := cells[1]
	if support.X != "Support" || support.Y != "2024-W01" || support.Count != 2 {
		t.Errorf("support cell = %+v", support)
	}
	if d := support.Value - 0.6; d > 1e-9 || d < -1e-9 {
		t.Errorf("support average = %v, want 0.6", support.Value)
	}

	filtered, err := repo.Cells(context.Background(), models.HeatmapFilter{StartDate: "2024-01-05"})
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].X != "Billing" {
		t.Errorf("date filter = %+v, want only Billing", filtered)
	}
}

func TestTopEntities(t *testing.T) {
	conn := setupDB(t)
	seed(t, NewTicketRepository(conn, database.DriverSQLite))
	repo := NewEntityRepository(conn, database.DriverSQLite)

	got, err := repo.TopEntities(context.Background(), models.EntityFilter{})
	if err != nil {
		t.Fatalf("TopEntities: %v", err)
	}
	want := []models.EntityRecord{
		{Text: "Google", Label: models.LabelOrganization, Count: 2},
		{Text: "iPhone", Label: models.LabelProduct, Count: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entity %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	products, err := repo.TopEntities(context.Background(), models.EntityFilter{Label: "product", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 || products[0].Text != "iPhone" {
		t.Errorf("label filter = %+v", products)
	}
}

func TestSaveAnalysisReplacesEntities(t *testing.T) {
	conn := setupDB(t)
	tickets := NewTicketRepository(conn, database.DriverSQLite)
	ctx := context.Background()

	first := analysis("T-9", "Support", "2024-W03", 0.1,
		models.ExtractedEntity{Text: "Alice", Label: models.LabelPerson})
	if err := tickets.SaveAnalysis(ctx, first, "2024-01-15", ""); err != nil {
		t.Fatal(err)
	}
	second := analysis("T-9", "Support", "2024-W03", -0.9)
	if err := tickets.SaveAnalysis(ctx, second, "2024-01-15", ""); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM entities WHERE ticket_id = 'T-9'").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("entities after re-analysis = %d, want 0", n)
	}

	s, err := tickets.Sentiment(ctx, "T-9")
	if err != nil {
		t.Fatal(err)
	}
	if s == nil || s.Score != -0.9 {
		t.Errorf("sentiment = %+v, want score -0.9", s)
	}

	missing, err := tickets.Sentiment(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("Sentiment(nope) = %+v, %v", missing, err)
	}
}
