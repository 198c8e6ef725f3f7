// Package stats aggregates per-comment sentiment into a ticket verdict.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/sentiment-dashboard/internal/models"
)

// Aggregation strategies
const (
	StrategyLatest         = "latest"
	StrategyWeightedRecent = "weighted_recent"
	StrategyTrajectory     = "trajectory"
)

const (
	recentWindow       = 5
	verdictThreshold   = 0.2
	trendThreshold     = 0.3
	defaultConfidence  = 0.5
	confidenceDecimals = 1000
)

// Score maps a sentiment label to -1, 0 or 1 scaled by confidence
func Score(sentiment string, confidence float64) float64 {
	return labelScore(sentiment) * confidence
}

func labelScore(sentiment string) float64 {
	switch sentiment {
	case models.SentimentPositive:
		return 1
	case models.SentimentNegative:
		return -1
	}
	return 0
}

// Aggregate computes the ticket verdict from chronologically ordered results.
// Unknown strategies fall back to weighted_recent.
func Aggregate(results []models.SentimentResult, strategy string) models.TicketSentiment {
	if len(results) == 0 {
		return models.TicketSentiment{
			Sentiment:  models.SentimentNeutral,
			Confidence: defaultConfidence,
			Trend:      models.TrendStable,
			Strategy:   strategy,
		}
	}

	var out models.TicketSentiment
	switch strategy {
	case StrategyLatest:
		out = latest(results)
	case StrategyTrajectory:
		out = trajectory(results)
	default:
		strategy = StrategyWeightedRecent
		out = weightedRecent(results)
	}
	out.Strategy = strategy
	out.Confidence = round(out.Confidence)
	return out
}

func latest(results []models.SentimentResult) models.TicketSentiment {
	last := results[len(results)-1]
	return models.TicketSentiment{
		Sentiment:  last.Sentiment,
		Score:      Score(last.Sentiment, last.Confidence),
		Confidence: last.Confidence,
		Trend:      Trend(results),
	}
}

func weightedRecent(results []models.SentimentResult) models.TicketSentiment {
	recent := results
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}

	weights := make([]float64, len(recent))
	scores := make([]float64, len(recent))
	confidences := make([]float64, len(recent))
	for i, r := range recent {
		weights[i] = float64(i + 1)
		scores[i] = Score(r.Sentiment, r.Confidence)
		confidences[i] = r.Confidence
	}

	score := stat.Mean(scores, weights)
	return models.TicketSentiment{
		Sentiment:  verdict(score),
		Score:      score,
		Confidence: stat.Mean(confidences, weights),
		Trend:      Trend(results),
	}
}

func trajectory(results []models.SentimentResult) models.TicketSentiment {
	confidences := make([]float64, len(results))
	for i, r := range results {
		confidences[i] = r.Confidence
	}
	confidence := stat.Mean(confidences, nil)

	if len(results) < 2 {
		r := results[0]
		return models.TicketSentiment{
			Sentiment:  r.Sentiment,
			Score:      Score(r.Sentiment, r.Confidence),
			Confidence: r.Confidence,
			Trend:      models.TrendStable,
		}
	}

	mid := len(results) / 2
	first := meanScore(results[:mid], true)
	second := meanScore(results[mid:], true)

	out := models.TicketSentiment{Score: second, Confidence: confidence}
	switch {
	case second > first+verdictThreshold:
		out.Sentiment, out.Trend = models.SentimentPositive, models.TrendImproving
	case second < first-verdictThreshold:
		out.Sentiment, out.Trend = models.SentimentNegative, models.TrendDeclining
	default:
		out.Sentiment, out.Trend = results[len(results)-1].Sentiment, models.TrendStable
	}
	return out
}

// Trend compares the first and second half of the timeline by label score
func Trend(results []models.SentimentResult) string {
	mid := len(results) / 2
	if mid == 0 {
		return models.TrendStable
	}

	first := meanScore(results[:mid], false)
	second := meanScore(results[mid:], false)
	switch {
	case second > first+trendThreshold:
		return models.TrendImproving
	case second < first-trendThreshold:
		return models.TrendDeclining
	}
	return models.TrendStable
}

func meanScore(results []models.SentimentResult, withConfidence bool) float64 {
	if len(results) == 0 {
		return 0
	}
	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = labelScore(r.Sentiment)
		if withConfidence {
			scores[i] *= r.Confidence
		}
	}
	return floats.Sum(scores) / float64(len(scores))
}

func verdict(score float64) string {
	switch {
	case score > verdictThreshold:
		return models.SentimentPositive
	case score < -verdictThreshold:
		return models.SentimentNegative
	}
	return models.SentimentNeutral
}

func round(v float64) float64 {
	return math.Round(v*confidenceDecimals) / confidenceDecimals
}
