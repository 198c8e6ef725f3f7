package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/sentiment-dashboard/internal/models"
)

// Anomaly detection over daily averages
const (
	AnomalyWindow    = 7
	AnomalyThreshold = 0.3
	SevereThreshold  = 0.5
)

// DetectAnomalies compares the newest AnomalyWindow days against their own
// mean. days must be ordered newest first. Detection needs more than a
// full window of history and returns nil otherwise.
func DetectAnomalies(days []models.DailySentiment) []models.Anomaly {
	if len(days) <= AnomalyWindow {
		return nil
	}

	recent := days[:AnomalyWindow]
	values := make([]float64, len(recent))
	for i, d := range recent {
		values[i] = d.AvgSentiment
	}
	expected := stat.Mean(values, nil)

	var out []models.Anomaly
	for _, d := range recent {
		dev := math.Abs(d.AvgSentiment - expected)
		if dev <= AnomalyThreshold {
			continue
		}
		a := models.Anomaly{
			Date:        d.Date,
			Type:        models.AnomalyDrop,
			Severity:    models.SeverityMedium,
			Value:       roundTo(d.AvgSentiment, 100),
			Expected:    roundTo(expected, 100),
			Deviation:   roundTo(dev, 100),
			TicketCount: d.TicketCount,
		}
		if d.AvgSentiment > expected {
			a.Type = models.AnomalySpike
		}
		if dev > SevereThreshold {
			a.Severity = models.SeverityHigh
		}
		out = append(out, a)
	}
	return out
}

// PercentChange is the change from previous to recent in percent, rounded
// to one decimal. It is 0 when there is nothing to compare against.
func PercentChange(recent, previous int64) float64 {
	if previous <= 0 {
		return 0
	}
	return roundTo(float64(recent-previous)/float64(previous)*100, 10)
}

// Round2 rounds v to two decimals
func Round2(v float64) float64 {
	return roundTo(v, 100)
}

func roundTo(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}
