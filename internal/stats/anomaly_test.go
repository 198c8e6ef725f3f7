package stats

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/jengzang/sentiment-dashboard/internal/models"
)

func daily(values ...float64) []models.DailySentiment {
	out := make([]models.DailySentiment, len(values))
	for i, v := range values {
		out[i] = models.DailySentiment{Date: fmt.Sprintf("2024-01-%02d", 20-i), AvgSentiment: v, TicketCount: i + 1}
	}
	return out
}

func TestDetectAnomaliesDrop(t *testing.T) {
	got := DetectAnomalies(daily(0.4, 0.35, -0.6, 0.3, 0.45, 0.2, 0.5, 0.1))
	if len(got) != 1 {
		t.Fatalf("anomalies = %+v, want 1", got)
	}
	a := got[0]
	if a.Date != "2024-01-18" || a.Type != models.AnomalyDrop || a.Severity != models.SeverityHigh {
		t.Errorf("anomaly = %+v", a)
	}
	if a.Value != -0.6 || a.Expected != 0.23 || a.Deviation != 0.83 || a.TicketCount != 3 {
		t.Errorf("anomaly numbers = %+v", a)
	}
}

func TestDetectAnomaliesSeverity(t *testing.T) {
	high := DetectAnomalies(daily(0.9, 0, 0, 0, 0, 0, 0, 0))
	if len(high) != 1 || high[0].Type != models.AnomalySpike || high[0].Severity != models.SeverityHigh {
		t.Errorf("high spike = %+v", high)
	}
	medium := DetectAnomalies(daily(0.45, 0, 0, 0, 0, 0, 0, 0))
	if len(medium) != 1 || medium[0].Severity != models.SeverityMedium {
		t.Errorf("medium spike = %+v", medium)
	}
}

func TestDetectAnomaliesNeedsHistory(t *testing.T) {
	if got := DetectAnomalies(daily(0.9, -0.9, 0.9, -0.9, 0.9, -0.9, 0.9)); got != nil {
		t.Errorf("a single window produced %+v", got)
	}
}

func TestDetectAnomaliesBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOfN(rapid.Float64Range(-1, 1), 0, 40).Draw(t, "values")
		got := DetectAnomalies(daily(values...))
		if len(got) > AnomalyWindow {
			t.Fatalf("%d anomalies from a %d day window", len(got), AnomalyWindow)
		}
		for _, a := range got {
			if a.Deviation < AnomalyThreshold {
				t.Fatalf("anomaly below threshold: %+v", a)
			}
		}
	})
}

func TestPercentChange(t *testing.T) {
	cases := []struct {
		recent, previous int64
		want             float64
	}{
		{12, 8, 50},
		{4, 8, -50},
		{5, 0, 0},
		{1, 3, -66.7},
	}
	for _, tc := range cases {
		if got := PercentChange(tc.recent, tc.previous); got != tc.want {
			t.Errorf("PercentChange(%d, %d) = %v, want %v", tc.recent, tc.previous, got, tc.want)
		}
	}
}
