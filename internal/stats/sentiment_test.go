package stats

import (
	"math"
	"testing"

	"github.com/jengzang/sentiment-dashboard/internal/models"
)

func results(labels ...string) []models.SentimentResult {
	out := make([]models.SentimentResult, len(labels))
	for i, l := range labels {
		out[i] = models.SentimentResult{Sentiment: l, Confidence: 1}
	}
	return out
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil, StrategyWeightedRecent)
	if got.Sentiment != models.SentimentNeutral || got.Confidence != 0.5 || got.Trend != models.TrendStable {
		t.Errorf("Aggregate(nil) = %+v", got)
	}
}

func TestAggregateLatest(t *testing.T) {
	in := []models.SentimentResult{
		{Sentiment: models.SentimentPositive, Confidence: 0.9},
		{Sentiment: models.SentimentNegative, Confidence: 0.7},
	}
	got := Aggregate(in, StrategyLatest)
	if got.Sentiment != models.SentimentNegative || got.Confidence != 0.7 {
		t.Errorf("latest = %+v", got)
	}
	if math.Abs(got.Score-(-0.7)) > 1e-12 {
		t.Errorf("score = %v, want -0.7", got.Score)
	}
	if got.Trend != models.TrendDeclining {
		t.Errorf("trend = %s, want declining", got.Trend)
	}
}

func TestAggregateWeightedRecent(t *testing.T) {
	// Only the last five count: neg, pos, pos, pos, pos with weights 1..5.
	in := results(
		models.SentimentNegative, models.SentimentNegative,
		models.SentimentNegative, models.SentimentPositive,
		models.SentimentPositive, models.SentimentPositive, models.SentimentPositive,
	)
	got := Aggregate(in, "")
	want := (-1*1 + 1*2 + 1*3 + 1*4 + 1*5) / 15.0
	if math.Abs(got.Score-want) > 1e-12 {
		t.Errorf("score = %v, want %v", got.Score, want)
	}
	if got.Sentiment != models.SentimentPositive {
		t.Errorf("sentiment = %s, want positive", got.Sentiment)
	}
	if got.Strategy != StrategyWeightedRecent {
		t.Errorf("strategy = %s, want fallback to weighted_recent", got.Strategy)
	}
	if got.Trend != models.TrendImproving {
		t.Errorf("trend = %s, want improving", got.Trend)
	}
}

func TestAggregateTrajectory(t *testing.T) {
	tests := []struct {
		name      string
		in        []models.SentimentResult
		sentiment string
		trend     string
	}{
		{"improving", results(models.SentimentNegative, models.SentimentNegative, models.SentimentPositive, models.SentimentPositive), models.SentimentPositive, models.TrendImproving},
		{"declining", results(models.SentimentPositive, models.SentimentNegative), models.SentimentNegative, models.TrendDeclining},
		{"stable", results(models.SentimentNeutral, models.SentimentNeutral, models.SentimentNeutral), models.SentimentNeutral, models.TrendStable},
		{"single", results(models.SentimentPositive), models.SentimentPositive, models.TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.in, StrategyTrajectory)
			if got.Sentiment != tt.sentiment || got.Trend != tt.trend {
				t.Errorf("got %s/%s, want %s/%s", got.Sentiment, got.Trend, tt.sentiment, tt.trend)
			}
		})
	}
}

func TestTrendNeedsTwoResults(t *testing.T) {
	if got := Trend(results(models.SentimentPositive)); got != models.TrendStable {
		t.Errorf("Trend(single) = %s", got)
	}
}

func TestScoreRange(t *testing.T) {
	if Score(models.SentimentPositive, 0.8) != 0.8 {
		t.Error("positive score")
	}
	if Score(models.SentimentNegative, 0.8) != -0.8 {
		t.Error("negative score")
	}
	if Score("confused", 0.8) != 0 {
		t.Error("unknown label should score 0")
	}
}
