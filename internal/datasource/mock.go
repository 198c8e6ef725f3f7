package datasource

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jengzang/sentiment-dashboard/internal/models"
)

// Mock serves fixed in-memory records, optionally after a delay
type Mock struct {
	EntityRecords []models.EntityRecord
	Cells         []models.HeatmapCell
	Tickets       []models.RecentTicket // CreatedDate as 2006-01-02
	Latency       time.Duration
	Err           error // returned by every call when set
}

// NewMock returns a source with the dashboard's demo data
func NewMock() *Mock {
	return &Mock{
		EntityRecords: []models.EntityRecord{
			{Text: "iPhone", Label: models.LabelProduct, Count: 150},
			{Text: "Google", Label: models.LabelOrganization, Count: 120},
			{Text: "New York", Label: models.LabelLocation, Count: 95},
			{Text: "Tim Cook", Label: models.LabelPerson, Count: 80},
			{Text: "Microsoft", Label: models.LabelOrganization, Count: 75},
			{Text: "Android", Label: models.LabelProduct, Count: 60},
			{Text: "London", Label: models.LabelLocation, Count: 45},
			{Text: "Black Friday", Label: models.LabelEvent, Count: 30},
		},
		Tickets: demoTickets(time.Now()),
		Cells: []models.HeatmapCell{
			{X: "Billing", Y: "2024-W01", Value: -0.62, Count: 14},
			{X: "Billing", Y: "2024-W02", Value: -0.31, Count: 11},
			{X: "Billing", Y: "2024-W03", Value: 0.12, Count: 9},
			{X: "Onboarding", Y: "2024-W01", Value: 0.71, Count: 6},
			{X: "Onboarding", Y: "2024-W03", Value: 0.55, Count: 8},
			{X: "Support", Y: "2024-W01", Value: 0.18, Count: 32},
			{X: "Support", Y: "2024-W02", Value: -0.74, Count: 41},
			{X: "Support", Y: "2024-W03", Value: 0.43, Count: 29},
			{X: "Technical", Y: "2024-W02", Value: 0.86, Count: 17},
			{X: "Technical", Y: "2024-W03", Value: -0.05, Count: 12},
		},
	}
}

// Entities implements Source. Label and Limit filters apply like the database.
func (m *Mock) Entities(ctx context.Context, filter models.EntityFilter) ([]models.EntityRecord, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if err := models.ValidateEntities(m.EntityRecords); err != nil {
		return nil, err
	}

	out := make([]models.EntityRecord, 0, len(m.EntityRecords))
	for _, e := range m.EntityRecords {
		if filter.Label != "" && !strings.EqualFold(e.Label, filter.Label) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// Heatmap implements Source. Date filters are ignored.
func (m *Mock) Heatmap(ctx context.Context, _ models.HeatmapFilter) ([]models.HeatmapCell, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if err := models.ValidateCells(m.Cells); err != nil {
		return nil, err
	}
	return append([]models.HeatmapCell(nil), m.Cells...), nil
}

// Metrics implements Insights over Tickets
func (m *Mock) Metrics(ctx context.Context, today time.Time) (*models.Metrics, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	weekAgo := today.AddDate(0, 0, -7).Format(dateLayout)
	twoWeeksAgo := today.AddDate(0, 0, -14).Format(dateLayout)

	out := &models.Metrics{TotalTickets: int64(len(m.Tickets))}
	var sum float64
	var scored int
	for _, t := range m.Tickets {
		if t.SentimentLabel != models.SentimentUnknown {
			sum += t.SentimentScore
			scored++
		}
		switch {
		case t.CreatedDate >= weekAgo:
			out.RecentTickets++
		case t.CreatedDate >= twoWeeksAgo:
			out.PreviousTickets++
		}
	}
	if scored > 0 {
		out.AvgSentiment = sum / float64(scored)
	}
	return out, nil
}

// RecentTickets implements Insights, newest first
func (m *Mock) RecentTickets(ctx context.Context, limit int) ([]models.RecentTicket, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	out := append([]models.RecentTicket(nil), m.Tickets...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedDate != out[j].CreatedDate {
			return out[i].CreatedDate > out[j].CreatedDate
		}
		return out[i].TicketID > out[j].TicketID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DailySentiment implements Insights, newest day first
func (m *Mock) DailySentiment(ctx context.Context, since time.Time) ([]models.DailySentiment, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	from := since.Format(dateLayout)

	type acc struct {
		sum   float64
		count int
	}
	byDay := make(map[string]*acc)
	for _, t := range m.Tickets {
		if t.SentimentLabel == models.SentimentUnknown || t.CreatedDate < from {
			continue
		}
		a, ok := byDay[t.CreatedDate]
		if !ok {
			a = &acc{}
			byDay[t.CreatedDate] = a
		}
		a.sum += t.SentimentScore
		a.count++
	}

	days := make([]models.DailySentiment, 0, len(byDay))
	for date, a := range byDay {
		days = append(days, models.DailySentiment{Date: date, AvgSentiment: a.sum / float64(a.count), TicketCount: a.count})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days, nil
}

const dateLayout = "2006-01-02"

// demoTickets spreads one scored ticket per day over the last ten days,
// with a sharp dip three days ago, plus one ticket that was never scored
func demoTickets(now time.Time) []models.RecentTicket {
	scores := []float64{0.4, 0.35, -0.6, 0.3, 0.45, 0.2, 0.5, 0.1, 0.3, -0.2}
	departments := []string{"Support", "Billing", "Technical", "Onboarding"}
	summaries := []string{
		"Sync fails after the latest iPhone update",
		"Charged twice for the annual plan",
		"Outage during Black Friday checkout",
		"Cannot invite teammates from Google Workspace",
		"Export to CSV times out",
	}

	tickets := make([]models.RecentTicket, 0, len(scores)+1)
	for i, score := range scores {
		label := models.SentimentNeutral
		switch {
		case score > 0.2:
			label = models.SentimentPositive
		case score < -0.2:
			label = models.SentimentNegative
		}
		tickets = append(tickets, models.RecentTicket{
			TicketID:       fmt.Sprintf("DEMO-%d", 110-i),
			Department:     departments[i%len(departments)],
			Summary:        summaries[i%len(summaries)],
			CreatedDate:    now.AddDate(0, 0, -i).Format(dateLayout),
			SentimentLabel: label,
			SentimentScore: score,
		})
	}
	return append(tickets, models.RecentTicket{
		TicketID:       "DEMO-099",
		Department:     "Support",
		Summary:        "Password reset email never arrives",
		CreatedDate:    now.AddDate(0, 0, -12).Format(dateLayout),
		SentimentLabel: models.SentimentUnknown,
	})
}

func (m *Mock) wait(ctx context.Context) error {
	if m.Latency > 0 {
		timer := time.NewTimer(m.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.Err
}
