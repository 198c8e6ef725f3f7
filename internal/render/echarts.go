package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/jengzang/sentiment-dashboard/internal/models"
	"github.com/jengzang/sentiment-dashboard/internal/viz"
)

// HeatmapPage writes an interactive HTML page for the heatmap view.
// Only present cells are plotted; empty positions show the page background.
func HeatmapPage(w io.Writer, v *models.HeatmapView, scale viz.Scale) error {
	var data []opts.HeatMapData
	for i, row := range v.Rows {
		for j, cell := range row {
			if !cell.Present {
				continue
			}
			data = append(data, opts.HeatMapData{
				Value: [3]interface{}{j, i, cell.Value},
				Name:  fmt.Sprintf("%s / %s (%d tickets)", cell.X, cell.Y, cell.Count),
			})
		}
	}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "Sentiment Heatmap",
			Width:           "100%",
			Height:          "80vh",
			BackgroundColor: scale.Background.Hex(),
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Sentiment by %s and %s", v.XAxis, v.YAxis),
			Left:  "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger: "item",
			Formatter: opts.FuncOpts(`function (params) {
		return params.name + '<br />Sentiment: ' + params.value[2].toFixed(2);
	}`),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show: opts.Bool(true),
			Min:  -1,
			Max:  1,
			InRange: &opts.VisualMapInRange{
				Color: []string{scale.Negative.Hex(), scale.Neutral.Hex(), scale.Positive.Hex()},
			},
			Orient: "vertical",
			Right:  "5%",
			Top:    "middle",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: v.XAxis,
			Type: "category",
			Data: v.XLabels,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: v.YAxis,
			Type: "category",
			Data: v.YLabels,
		}),
	)
	heatmap.AddSeries("Sentiment", data)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(heatmap)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render heatmap page: %w", err)
	}
	return nil
}
